package domain

import "fmt"

// Question is a multiple choice question with a single correct option.
type Question struct {
	Prompt       string   `json:"question" yaml:"question"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correctIndex"`
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Validate checks that every question has options and a correct index inside them.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz %q has no questions", ErrInvalidQuiz, q.ID)
	}
	for i, question := range q.Questions {
		if len(question.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrInvalidQuiz, i)
		}
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
			return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidQuiz, i, question.CorrectIndex)
		}
	}
	return nil
}

// LeaderboardEntry is one ranked line of a room's score ledger.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// AnswerResult summarizes the outcome of a submission.
type AnswerResult struct {
	QuestionIndex int  `json:"questionIndex"`
	Correct       bool `json:"correct"`
	Awarded       int  `json:"awarded"`
	TotalScore    int  `json:"totalScore"`
}

// SessionState is the sequencer state of a room.
type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateRunning   SessionState = "running"
	StateRevealing SessionState = "revealing"
	StateEnded     SessionState = "ended"
)

// Active reports whether a sequencer run owns the room.
func (s SessionState) Active() bool {
	return s == StateRunning || s == StateRevealing
}

// RoomSnapshot is a read-only copy of a room's state.
type RoomSnapshot struct {
	RoomID        string             `json:"roomId"`
	State         SessionState       `json:"state"`
	QuestionIndex int                `json:"questionIndex"`
	Participants  int                `json:"participants"`
	HasAdmin      bool               `json:"hasAdmin"`
	QuizLoaded    bool               `json:"quizLoaded"`
	Tally         [][]int            `json:"tally"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
}
