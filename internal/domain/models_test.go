package domain

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	ok := QuizQuestion{ID: "q1", Options: []string{"a", "b"}, CorrectAnswerIndex: 1}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}

	cases := []QuizQuestion{
		{ID: "one-option", Options: []string{"a"}},
		{ID: "negative", Options: []string{"a", "b"}, CorrectAnswerIndex: -1},
		{ID: "too-big", Options: []string{"a", "b"}, CorrectAnswerIndex: 2},
	}
	for _, q := range cases {
		if err := q.Validate(); !errors.Is(err, ErrInvalidQuestion) {
			t.Fatalf("%s: expected ErrInvalidQuestion, got %v", q.ID, err)
		}
	}
}

func TestViewHidesAnswer(t *testing.T) {
	q := QuizQuestion{ID: "q1", Options: []string{"a", "b"}, CorrectAnswerIndex: 1, Explanation: "because"}
	v := q.View()
	v.Options[0] = "mutated"
	if q.Options[0] != "a" {
		t.Fatalf("view must not share the options slice")
	}
	if v.ID != "q1" || len(v.Options) != 2 {
		t.Fatalf("unexpected view %+v", v)
	}
}
