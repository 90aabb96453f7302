package app_test

import (
	"reflect"
	"testing"

	"learnhub-quiz/internal/app"
	"learnhub-quiz/internal/domain"
)

func TestCalculateScoreBoundaries(t *testing.T) {
	questions := scoringQuestions("algebra", "algebra", "geometry", "calculus")

	allCorrect := []int{0, 1, 2, 3}
	if got := app.CalculateScore(questions, allCorrect); got != 100 {
		t.Fatalf("expected 100 for all correct, got %d", got)
	}

	allWrong := []int{1, domain.Unanswered, 0, domain.Unanswered}
	if got := app.CalculateScore(questions, allWrong); got != 0 {
		t.Fatalf("expected 0 for all wrong, got %d", got)
	}

	if got := app.CalculateScore(nil, nil); got != 0 {
		t.Fatalf("expected 0 for empty quiz, got %d", got)
	}
}

func TestCalculateScoreRoundsHalfUp(t *testing.T) {
	cases := []struct {
		total, correct, want int
	}{
		{3, 1, 33},
		{3, 2, 67},
		{8, 1, 13}, // 12.5
		{8, 3, 38}, // 37.5
		{7, 5, 71},
	}
	for _, tc := range cases {
		topics := make([]string, tc.total)
		for i := range topics {
			topics[i] = "t"
		}
		questions := scoringQuestions(topics...)
		selected := make([]int, tc.total)
		for i := range selected {
			if i < tc.correct {
				selected[i] = questions[i].CorrectAnswerIndex
			} else {
				selected[i] = domain.Unanswered
			}
		}
		if got := app.CalculateScore(questions, selected); got != tc.want {
			t.Fatalf("%d/%d: expected %d, got %d", tc.correct, tc.total, tc.want, got)
		}
	}
}

func TestCalculateScoreDeterministicAndBounded(t *testing.T) {
	questions := scoringQuestions("a", "b", "c", "d", "e")
	answers := [][]int{
		{0, 0, 0, 0, 0},
		{3, 2, 1, 0, -1},
		{-1, -1, -1, -1, -1},
		{0, 1, 2, 3, 0},
		{0, 1},
	}
	for _, selected := range answers {
		first := app.CalculateScore(questions, selected)
		second := app.CalculateScore(questions, selected)
		if first != second {
			t.Fatalf("score not deterministic for %v: %d vs %d", selected, first, second)
		}
		if first < 0 || first > 100 {
			t.Fatalf("score out of bounds for %v: %d", selected, first)
		}
	}
}

func TestAnalyzeWeakAreasListsEachMissedTopicOnce(t *testing.T) {
	questions := scoringQuestions("algebra", "geometry", "algebra", "calculus", "geometry")
	// correct: q0 (algebra), q3 (calculus). missed: q1 geometry, q2 algebra, q4 geometry.
	selected := []int{0, domain.Unanswered, 0, 3, 1}

	got := app.AnalyzeWeakAreas(questions, selected)
	want := []string{"geometry", "algebra"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAnalyzeWeakAreasExcludesFullyCorrectTopics(t *testing.T) {
	questions := scoringQuestions("algebra", "algebra", "geometry")
	selected := []int{0, 1, 0}

	got := app.AnalyzeWeakAreas(questions, selected)
	if !reflect.DeepEqual(got, []string{"geometry"}) {
		t.Fatalf("expected only geometry, got %v", got)
	}
	if len(app.AnalyzeWeakAreas(questions, []int{0, 1, 2})) != 0 {
		t.Fatalf("expected no weak areas for a perfect attempt")
	}
}

func TestAnalyzeWeakAreasTreatsTopicsVerbatim(t *testing.T) {
	questions := scoringQuestions("Algebra", "algebra")
	got := app.AnalyzeWeakAreas(questions, []int{domain.Unanswered, domain.Unanswered})
	if len(got) != 2 {
		t.Fatalf("expected differently cased topics to stay distinct, got %v", got)
	}
}

func TestScoringThreeQuestionScenario(t *testing.T) {
	questions := scoringQuestions("fractions", "decimals", "percentages")
	selected := []int{
		questions[0].CorrectAnswerIndex,
		(questions[1].CorrectAnswerIndex + 1) % 4,
		domain.Unanswered,
	}

	if got := app.CalculateScore(questions, selected); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	weak := app.AnalyzeWeakAreas(questions, selected)
	if !reflect.DeepEqual(weak, []string{"decimals", "percentages"}) {
		t.Fatalf("unexpected weak areas %v", weak)
	}
}

// scoringQuestions builds one question per topic; question i has correct index i%4.
func scoringQuestions(topics ...string) []domain.QuizQuestion {
	questions := make([]domain.QuizQuestion, len(topics))
	for i, topic := range topics {
		questions[i] = domain.QuizQuestion{
			ID:                 topic + "-q",
			Question:           "Pick one",
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: i % 4,
			Topic:              topic,
			TimeLimitSeconds:   30,
		}
	}
	return questions
}
