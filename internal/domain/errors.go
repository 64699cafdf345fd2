package domain

import "errors"

var (
	// ErrRoomNotFound is returned when a room has never been joined.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNotAdmin is returned when a non-admin connection tries to start a quiz.
	ErrNotAdmin = errors.New("connection is not the room admin")
	// ErrQuizNotLoaded means the room has no quiz definition to run.
	ErrQuizNotLoaded = errors.New("quiz not loaded for room")
	// ErrSessionActive is returned when a quiz is started while one is running.
	ErrSessionActive = errors.New("quiz session already running")
	// ErrServiceClosed is returned when a quiz is started after shutdown began.
	ErrServiceClosed = errors.New("quiz service closed")
	// ErrStaleQuestion is returned for answers to a question with no active tally.
	ErrStaleQuestion = errors.New("no tally for question")
	// ErrOptionOutOfRange indicates a submitted option index is invalid for the question.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuiz indicates loaded quiz content failed validation.
	ErrInvalidQuiz = errors.New("invalid quiz definition")
)

// IsSilent reports whether err is an access-control or staleness rejection
// that must not be reported back to the client.
func IsSilent(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrNotAdmin) ||
		errors.Is(err, ErrQuizNotLoaded) ||
		errors.Is(err, ErrStaleQuestion)
}
