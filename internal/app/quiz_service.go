package app

import (
	"context"
	"log"
	"time"

	"live-quiz-service/internal/domain"
)

// RoomRepository abstracts how rooms are stored (in-memory, Redis-marked, etc).
type RoomRepository interface {
	GetOrCreate(roomID string) *Room
	Get(roomID string) (*Room, bool)
	All() []*Room
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Broadcaster delivers outbound events through the connection layer.
// Calls happen while a room lock is held, so implementations must not block
// or call back into the service.
type Broadcaster interface {
	Broadcast(roomID string, event domain.Event)
	Send(connID string, event domain.Event)
}

// Settings controls the sequencer cadence and scoring.
type Settings struct {
	PreRoll          time.Duration
	QuestionDuration time.Duration
	RevealDelay      time.Duration
	CorrectReward    int
}

// DefaultSettings returns the stock cadence: 3s pre-roll, 10s per question,
// 1s between reveal and the next question, 10 points per correct answer.
func DefaultSettings() Settings {
	return Settings{
		PreRoll:          3 * time.Second,
		QuestionDuration: 10 * time.Second,
		RevealDelay:      time.Second,
		CorrectReward:    10,
	}
}

// QuizService contains the live session use cases.
type QuizService struct {
	rooms    RoomRepository
	quizzes  QuizRepository
	out      Broadcaster
	settings Settings

	// ctx parents every sequencer run; Close cancels it.
	ctx  context.Context
	stop context.CancelFunc
}

func NewQuizService(rooms RoomRepository, quizzes QuizRepository, out Broadcaster, settings Settings) *QuizService {
	if settings.CorrectReward <= 0 {
		settings.CorrectReward = DefaultSettings().CorrectReward
	}
	ctx, stop := context.WithCancel(context.Background())
	return &QuizService{
		rooms:    rooms,
		quizzes:  quizzes,
		out:      out,
		settings: settings,
		ctx:      ctx,
		stop:     stop,
	}
}

// Join registers a connection in a room and returns the participant count.
// The quiz definition is loaded on first join; a failed load leaves the room
// without a quiz and is retried by the next join.
func (s *QuizService) Join(ctx context.Context, roomID, connID, name string, isAdmin bool) int {
	room := s.rooms.GetOrCreate(roomID)

	if !room.hasQuiz() {
		quiz, err := s.quizzes.GetQuiz(ctx, roomID)
		if err != nil {
			log.Printf("room %s: quiz not loaded: %v", roomID, err)
		} else {
			room.setQuiz(quiz)
		}
	}

	return room.join(s.out, connID, name, isAdmin)
}

// Leave removes a connection from a room. ok is false when the connection was
// never tracked there.
func (s *QuizService) Leave(_ context.Context, roomID, connID string) (int, bool) {
	room, found := s.rooms.Get(roomID)
	if !found {
		return 0, false
	}
	return room.leave(s.out, connID)
}

// IsAdmin reports whether connID currently holds admin authority in the room.
func (s *QuizService) IsAdmin(roomID, connID string) bool {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return false
	}
	return room.isAdmin(connID)
}

// Chat relays a message to everyone in the room. No state changes.
func (s *QuizService) Chat(_ context.Context, roomID, name, message string) {
	s.out.Broadcast(roomID, domain.Event{
		Type:    domain.EventChatMessage,
		Payload: domain.ChatMessage{Message: message, Username: name},
	})
}

// Snapshot returns a copy of the room state.
func (s *QuizService) Snapshot(roomID string) (domain.RoomSnapshot, bool) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomSnapshot{}, false
	}
	return room.snapshot(), true
}

// Close cancels every pending sequencer run.
func (s *QuizService) Close() {
	s.stop()
	for _, room := range s.rooms.All() {
		room.teardown()
	}
}
