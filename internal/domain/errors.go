package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a user has no quiz session.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSubjectNotFound indicates no dedicated question bank exists for a subject.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrEmptyQuestionSet is returned when a quiz would start with no questions.
	ErrEmptyQuestionSet = errors.New("no questions available for quiz")
	// ErrInvalidQuestionCount indicates a requested question count below one.
	ErrInvalidQuestionCount = errors.New("question count must be at least 1")
	// ErrInvalidQuestion indicates bank content that breaks the option/answer invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidTransition is returned when an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid quiz state transition")
	// ErrOptionOutOfRange indicates a selected option index outside the question's options.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrUnanswered is returned by a manual advance when answers are required.
	ErrUnanswered = errors.New("current question has not been answered")
)
