package domain

import "errors"

var (
	// ErrQuizNotFound indicates the requested quiz no longer exists.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrEmptyQuiz indicates a quiz with zero questions, which cannot be
	// taken as a session.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrNoStudentName is returned when a session is started without a
	// non-empty student name.
	ErrNoStudentName = errors.New("student name is required")
	// ErrInvalidOption is returned for an answer index outside the
	// question's options.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrSessionFinished is returned for operations on a session that
	// already submitted or was torn down.
	ErrSessionFinished = errors.New("quiz session already finished")
)
