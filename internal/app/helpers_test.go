package app_test

import (
	"testing"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
)

type recorded struct {
	room  string
	conn  string
	event domain.Event
}

// recorder is an app.Broadcaster that keeps every outbound event in order.
type recorder struct {
	events chan recorded
}

func newRecorder() *recorder {
	return &recorder{events: make(chan recorded, 256)}
}

func (r *recorder) Broadcast(roomID string, event domain.Event) {
	r.events <- recorded{room: roomID, event: event}
}

func (r *recorder) Send(connID string, event domain.Event) {
	r.events <- recorded{conn: connID, event: event}
}

// next returns the next event of the given type, skipping anything else.
func (r *recorder) next(t *testing.T, typ domain.EventType) recorded {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case rec := <-r.events:
			if rec.event.Type == typ {
				return rec
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", typ)
			return recorded{}
		}
	}
}

// none fails if an event of the given type shows up within d.
func (r *recorder) none(t *testing.T, typ domain.EventType, d time.Duration) {
	t.Helper()
	deadline := time.After(d)
	for {
		select {
		case rec := <-r.events:
			if rec.event.Type == typ {
				t.Fatalf("unexpected %s event: %+v", typ, rec)
			}
		case <-deadline:
			return
		}
	}
}

func fastSettings() app.Settings {
	return app.Settings{
		PreRoll:          10 * time.Millisecond,
		QuestionDuration: 150 * time.Millisecond,
		RevealDelay:      10 * time.Millisecond,
		CorrectReward:    10,
	}
}

// frozenSettings keeps a started run in its pre-roll for the whole test.
func frozenSettings() app.Settings {
	return app.Settings{
		PreRoll:          time.Hour,
		QuestionDuration: time.Hour,
		RevealDelay:      time.Hour,
		CorrectReward:    10,
	}
}

func newTestService(t *testing.T, settings app.Settings) (*app.QuizService, *recorder) {
	t.Helper()
	out := newRecorder()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(testQuizzes()), time.Minute)
	service := app.NewQuizService(memory.NewRoomStore(), quizRepo, out, settings)
	t.Cleanup(service.Close)
	return service, out
}

func testQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"Q1": {
			ID: "Q1",
			Questions: []domain.Question{
				{Prompt: "Pick the first letter", Options: []string{"A", "B"}, CorrectIndex: 0},
			},
		},
		"multi": {
			ID: "multi",
			Questions: []domain.Question{
				{Prompt: "2 + 2?", Options: []string{"3", "4"}, CorrectIndex: 1},
				{Prompt: "Red planet?", Options: []string{"Venus", "Mars", "Jupiter"}, CorrectIndex: 1},
			},
		},
	}
}
