package app

import "learnhub-quiz/internal/domain"

// CalculateScore returns the percentage of correctly answered questions, rounded half up.
// A missing or unanswered slot never matches a valid index and counts as wrong.
func CalculateScore(questions []domain.QuizQuestion, selected []int) int {
	score, _, _ := Evaluate(questions, selected)
	return score
}

// AnalyzeWeakAreas lists the topics of missed questions in first-seen order, without duplicates.
// Topics are compared verbatim.
func AnalyzeWeakAreas(questions []domain.QuizQuestion, selected []int) []string {
	_, _, weak := Evaluate(questions, selected)
	return weak
}

// Evaluate scores an attempt in a single pass and returns (score, correct count, weak areas).
func Evaluate(questions []domain.QuizQuestion, selected []int) (int, int, []string) {
	correct := 0
	weak := make([]string, 0)
	seen := make(map[string]struct{})
	for i, q := range questions {
		answer := domain.Unanswered
		if i < len(selected) {
			answer = selected[i]
		}
		if answer == q.CorrectAnswerIndex {
			correct++
			continue
		}
		if _, ok := seen[q.Topic]; ok {
			continue
		}
		seen[q.Topic] = struct{}{}
		weak = append(weak, q.Topic)
	}
	return percentHalfUp(correct, len(questions)), correct, weak
}

func percentHalfUp(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
