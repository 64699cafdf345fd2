package app

import (
	"context"
	"log"
	"sync"

	"live-quiz-service/internal/domain"
)

// Room is the owned state of one quiz room. All fields are guarded by mu.
type Room struct {
	id string

	mu           sync.Mutex
	participants map[string]string // connection id -> display name
	admin        string
	quiz         *domain.Quiz

	state   domain.SessionState
	current int
	tally   [][]int
	ledger  map[string]int

	// epoch identifies the active sequencer run; steps from older runs are dropped.
	epoch  uint64
	cancel context.CancelFunc
}

// NewRoom is exported for infrastructure layers that create rooms.
func NewRoom(id string) *Room {
	return &Room{
		id:           id,
		participants: make(map[string]string),
		state:        domain.StateIdle,
		ledger:       make(map[string]int),
	}
}

func (r *Room) hasQuiz() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quiz != nil
}

// setQuiz stores the definition once; later calls keep the first one.
func (r *Room) setQuiz(quiz domain.Quiz) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quiz == nil {
		r.quiz = &quiz
	}
}

func (r *Room) join(out Broadcaster, connID, name string, isAdmin bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.participants[connID] = name
	if isAdmin {
		if r.admin != "" && r.admin != connID {
			log.Printf("room %s: admin %s superseded by %s", r.id, r.admin, connID)
		}
		r.admin = connID
		out.Send(connID, domain.Event{Type: domain.EventAdminVerified})
	}

	count := len(r.participants)
	out.Broadcast(r.id, domain.Event{Type: domain.EventParticipantCount, Payload: count})
	return count
}

func (r *Room) leave(out Broadcaster, connID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[connID]; !ok {
		return len(r.participants), false
	}
	delete(r.participants, connID)
	if r.admin == connID {
		// No successor is elected; the room cannot be started until an admin rejoins.
		r.admin = ""
		log.Printf("room %s: admin %s left", r.id, connID)
	}

	count := len(r.participants)
	out.Broadcast(r.id, domain.Event{Type: domain.EventParticipantCount, Payload: count})
	return count, true
}

func (r *Room) isAdmin(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admin != "" && r.admin == connID
}

// step runs fn under the room lock if epoch still identifies the active run.
func (r *Room) step(epoch uint64, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return false
	}
	fn()
	return true
}

// teardown invalidates the active run and cancels its timers.
func (r *Room) teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.state.Active() {
		r.state = domain.StateIdle
	}
}

func (r *Room) snapshot() domain.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	tally := make([][]int, len(r.tally))
	for i, counts := range r.tally {
		tally[i] = append([]int(nil), counts...)
	}
	return domain.RoomSnapshot{
		RoomID:        r.id,
		State:         r.state,
		QuestionIndex: r.current,
		Participants:  len(r.participants),
		HasAdmin:      r.admin != "",
		QuizLoaded:    r.quiz != nil,
		Tally:         tally,
		Leaderboard:   BuildLeaderboard(r.ledger),
	}
}
