package memory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"learnhub-quiz/internal/domain"
)

const catalogYAML = `
subjects:
  Mathematics:
    - id: m1
      question: What is 7 x 8?
      options: ["54", "56", "58", "64"]
      correct_answer_index: 1
      explanation: 7 x 8 = 56
      topic: multiplication
      difficulty: easy
      time_limit_seconds: 20
  General:
    - id: g1
      question: How many continents are there?
      options: ["5", "6", "7", "8"]
      correct_answer_index: 2
      topic: geography
      difficulty: easy
`

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	banks, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	math := banks["Mathematics"]
	if len(math) != 1 {
		t.Fatalf("expected 1 math question, got %d", len(math))
	}
	q := math[0]
	if q.CorrectAnswerIndex != 1 || q.TimeLimitSeconds != 20 || q.Topic != "multiplication" {
		t.Fatalf("unexpected question %+v", q)
	}
	if q.Subject != "Mathematics" {
		t.Fatalf("expected subject filled from key, got %q", q.Subject)
	}
	if banks["General"][0].TimeLimitSeconds != 0 {
		t.Fatalf("expected unset time limit to stay zero")
	}
}

func TestParseCatalogRejectsInvalidQuestions(t *testing.T) {
	bad := `
subjects:
  Physics:
    - id: p1
      question: Broken
      options: ["only one"]
      correct_answer_index: 0
`
	if _, err := ParseCatalog([]byte(bad)); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}

	dup := `
subjects:
  Physics:
    - {id: p1, question: a, options: [x, y], correct_answer_index: 0}
    - {id: p1, question: b, options: [x, y], correct_answer_index: 1}
`
	if _, err := ParseCatalog([]byte(dup)); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}
}
