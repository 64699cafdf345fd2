package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

func TestNonAdminCannotStart(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, fastSettings())

	service.Join(ctx, "Q1", "host", "host", true)
	service.Join(ctx, "Q1", "c1", "alice", false)

	err := service.StartQuiz(ctx, "Q1", "c1")
	if !errors.Is(err, domain.ErrNotAdmin) || !domain.IsSilent(err) {
		t.Fatalf("expected silent ErrNotAdmin, got %v", err)
	}

	snapshot, _ := service.Snapshot("Q1")
	if snapshot.State != domain.StateIdle || len(snapshot.Tally) != 0 {
		t.Fatalf("expected untouched idle room, got %+v", snapshot)
	}

	if err := service.StartQuiz(ctx, "unknown", "host"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestStartResetsTallyPerQuestion(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, frozenSettings())

	service.Join(ctx, "multi", "host", "host", true)
	if err := service.StartQuiz(ctx, "multi", "host"); err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	out.next(t, domain.EventQuizStarting)

	snapshot, _ := service.Snapshot("multi")
	if snapshot.State != domain.StateRunning {
		t.Fatalf("expected running, got %s", snapshot.State)
	}
	if want := [][]int{{0, 0}, {0, 0, 0}}; !reflect.DeepEqual(snapshot.Tally, want) {
		t.Fatalf("expected tally %v, got %v", want, snapshot.Tally)
	}
}

func TestSingleQuestionRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, fastSettings())

	service.Join(ctx, "Q1", "host", "host", true)
	service.Join(ctx, "Q1", "c1", "alice", false)
	if err := service.StartQuiz(ctx, "Q1", "host"); err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	out.next(t, domain.EventQuizStarting)
	question := out.next(t, domain.EventNewQuestion).event.Payload.(domain.QuestionPayload)
	want := domain.QuestionPayload{Question: "Pick the first letter", Options: []string{"A", "B"}, Index: 0}
	if !reflect.DeepEqual(question, want) {
		t.Fatalf("expected question %+v, got %+v", want, question)
	}

	submit(t, service, "Q1", 0, 0, "alice")

	if votes := out.next(t, domain.EventVoteStats).event.Payload.([]int); !reflect.DeepEqual(votes, []int{1, 0}) {
		t.Fatalf("expected votes [1 0], got %v", votes)
	}

	leaderboard := out.next(t, domain.EventQuizEnded).event.Payload.([]domain.LeaderboardEntry)
	if want := []domain.LeaderboardEntry{{Name: "alice", Score: 10}}; !reflect.DeepEqual(leaderboard, want) {
		t.Fatalf("expected leaderboard %+v, got %+v", want, leaderboard)
	}

	if snapshot, _ := service.Snapshot("Q1"); snapshot.State != domain.StateEnded {
		t.Fatalf("expected ended, got %s", snapshot.State)
	}
}

func TestVoteSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, fastSettings())

	service.Join(ctx, "Q1", "host", "host", true)
	if err := service.StartQuiz(ctx, "Q1", "host"); err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	votes := out.next(t, domain.EventVoteStats).event.Payload.([]int)

	// A late vote after the reveal must not change what was already delivered.
	submit(t, service, "Q1", 0, 1, "bob")
	if !reflect.DeepEqual(votes, []int{0, 0}) {
		t.Fatalf("delivered votes changed to %v", votes)
	}
}

func TestQuestionsRunInOrder(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, fastSettings())

	service.Join(ctx, "multi", "host", "host", true)
	if err := service.StartQuiz(ctx, "multi", "host"); err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	for i := 0; i < 2; i++ {
		question := out.next(t, domain.EventNewQuestion).event.Payload.(domain.QuestionPayload)
		if question.Index != i {
			t.Fatalf("expected question %d, got %d", i, question.Index)
		}
		out.next(t, domain.EventVoteStats)
	}
	out.next(t, domain.EventQuizEnded)
}

func TestSecondStartRejectedWhileRunning(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, fastSettings())

	service.Join(ctx, "Q1", "host", "host", true)
	if err := service.StartQuiz(ctx, "Q1", "host"); err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	err := service.StartQuiz(ctx, "Q1", "host")
	if !errors.Is(err, domain.ErrSessionActive) || domain.IsSilent(err) {
		t.Fatalf("expected surfaced ErrSessionActive, got %v", err)
	}

	out.next(t, domain.EventQuizEnded)
	out.none(t, domain.EventNewQuestion, 250*time.Millisecond)
}

func TestBackToBackRunsAccumulateScores(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, fastSettings())

	service.Join(ctx, "Q1", "host", "host", true)
	service.Join(ctx, "Q1", "c1", "alice", false)

	for run := 1; run <= 2; run++ {
		if err := service.StartQuiz(ctx, "Q1", "host"); err != nil {
			t.Fatalf("run %d: start quiz: %v", run, err)
		}
		out.next(t, domain.EventNewQuestion)
		submit(t, service, "Q1", 0, 0, "alice")
		if votes := out.next(t, domain.EventVoteStats).event.Payload.([]int); !reflect.DeepEqual(votes, []int{1, 0}) {
			t.Fatalf("run %d: expected tally reset to [1 0], got %v", run, votes)
		}

		leaderboard := out.next(t, domain.EventQuizEnded).event.Payload.([]domain.LeaderboardEntry)
		if want := []domain.LeaderboardEntry{{Name: "alice", Score: 10 * run}}; !reflect.DeepEqual(leaderboard, want) {
			t.Fatalf("run %d: expected leaderboard %+v, got %+v", run, want, leaderboard)
		}
	}
}

func TestAdminDisconnectMidSession(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, fastSettings())

	service.Join(ctx, "Q1", "host", "host", true)
	service.Join(ctx, "Q1", "c1", "alice", false)
	if err := service.StartQuiz(ctx, "Q1", "host"); err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	out.next(t, domain.EventNewQuestion)

	service.Leave(ctx, "Q1", "host")

	// The running quiz still completes.
	out.next(t, domain.EventQuizEnded)

	for _, connID := range []string{"c1", "host"} {
		if err := service.StartQuiz(ctx, "Q1", connID); !errors.Is(err, domain.ErrNotAdmin) {
			t.Fatalf("%s: expected ErrNotAdmin, got %v", connID, err)
		}
	}
}

func TestCloseCancelsPendingRun(t *testing.T) {
	ctx := context.Background()
	settings := fastSettings()
	settings.PreRoll = 300 * time.Millisecond
	service, out := newTestService(t, settings)

	service.Join(ctx, "Q1", "host", "host", true)
	if err := service.StartQuiz(ctx, "Q1", "host"); err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	out.next(t, domain.EventQuizStarting)

	service.Close()
	out.none(t, domain.EventNewQuestion, 500*time.Millisecond)

	if snapshot, _ := service.Snapshot("Q1"); snapshot.State != domain.StateIdle {
		t.Fatalf("expected idle after close, got %s", snapshot.State)
	}
}

func TestStartAfterCloseIsRejected(t *testing.T) {
	ctx := context.Background()
	service, out := newTestService(t, fastSettings())

	service.Join(ctx, "Q1", "host", "host", true)
	service.Close()

	err := service.StartQuiz(ctx, "Q1", "host")
	if !errors.Is(err, domain.ErrServiceClosed) || domain.IsSilent(err) {
		t.Fatalf("expected surfaced ErrServiceClosed, got %v", err)
	}
	out.none(t, domain.EventQuizStarting, 100*time.Millisecond)

	if snapshot, _ := service.Snapshot("Q1"); snapshot.State != domain.StateIdle || len(snapshot.Tally) != 0 {
		t.Fatalf("expected untouched idle room, got %+v", snapshot)
	}
}
