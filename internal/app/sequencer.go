package app

import (
	"context"
	"log"
	"time"

	"live-quiz-service/internal/domain"
)

// StartQuiz moves an idle or ended room into a new run. Only the room admin
// may start, only with a loaded quiz, and never while a run is active.
func (s *QuizService) StartQuiz(_ context.Context, roomID, connID string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if s.ctx.Err() != nil {
		return domain.ErrServiceClosed
	}
	if room.admin == "" || room.admin != connID {
		return domain.ErrNotAdmin
	}
	if room.quiz == nil {
		return domain.ErrQuizNotLoaded
	}
	if room.state.Active() {
		return domain.ErrSessionActive
	}

	quiz := *room.quiz
	room.tally = make([][]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		room.tally[i] = make([]int, len(q.Options))
	}
	room.state = domain.StateRunning
	room.current = 0
	room.epoch++
	if room.cancel != nil {
		room.cancel()
	}
	runCtx, cancel := context.WithCancel(s.ctx)
	room.cancel = cancel

	s.out.Broadcast(roomID, domain.Event{Type: domain.EventQuizStarting})
	log.Printf("room %s: quiz started with %d questions", roomID, len(quiz.Questions))

	go s.run(runCtx, room, room.epoch, quiz)
	return nil
}

// run drives one sequencer run: pre-roll, then question/reveal pairs, then the
// final leaderboard. Each step is dropped if the run has been superseded.
func (s *QuizService) run(ctx context.Context, room *Room, epoch uint64, quiz domain.Quiz) {
	finished := false
	defer func() {
		if finished {
			return
		}
		// Cancelled without a teardown: the room must not stay active.
		room.step(epoch, func() {
			room.state = domain.StateIdle
			if room.cancel != nil {
				room.cancel()
				room.cancel = nil
			}
		})
	}()

	if !wait(ctx, s.settings.PreRoll) {
		return
	}

	for i, q := range quiz.Questions {
		index, question := i, q
		ok := room.step(epoch, func() {
			room.state = domain.StateRunning
			room.current = index
			s.out.Broadcast(room.id, domain.Event{
				Type: domain.EventNewQuestion,
				Payload: domain.QuestionPayload{
					Question: question.Prompt,
					Options:  append([]string(nil), question.Options...),
					Index:    index,
				},
			})
		})
		if !ok || !wait(ctx, s.settings.QuestionDuration) {
			return
		}

		ok = room.step(epoch, func() {
			room.state = domain.StateRevealing
			votes := append([]int(nil), room.tally[index]...)
			s.out.Broadcast(room.id, domain.Event{Type: domain.EventVoteStats, Payload: votes})
		})
		if !ok || !wait(ctx, s.settings.RevealDelay) {
			return
		}
	}

	finished = true
	room.step(epoch, func() {
		room.state = domain.StateEnded
		if room.cancel != nil {
			room.cancel()
			room.cancel = nil
		}
		leaderboard := BuildLeaderboard(room.ledger)
		s.out.Broadcast(room.id, domain.Event{Type: domain.EventQuizEnded, Payload: leaderboard})
		log.Printf("room %s: quiz ended, %d scored", room.id, len(leaderboard))
	})
}

func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
