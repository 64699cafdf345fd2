package app

import (
	"context"

	"live-quiz-service/internal/domain"
)

// SubmitAnswer records a vote and scores it. Answers are accepted for any
// question of the last started run, including after its reveal.
func (s *QuizService) SubmitAnswer(_ context.Context, roomID string, questionIndex, optionIndex int, name string) (domain.AnswerResult, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.AnswerResult{}, domain.ErrStaleQuestion
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.quiz == nil || questionIndex < 0 || questionIndex >= len(room.tally) {
		return domain.AnswerResult{}, domain.ErrStaleQuestion
	}
	counts := room.tally[questionIndex]
	if optionIndex < 0 || optionIndex >= len(counts) {
		return domain.AnswerResult{}, domain.ErrOptionOutOfRange
	}

	counts[optionIndex]++

	result := domain.AnswerResult{QuestionIndex: questionIndex}
	if optionIndex == room.quiz.Questions[questionIndex].CorrectIndex {
		room.ledger[name] += s.settings.CorrectReward
		result.Correct = true
		result.Awarded = s.settings.CorrectReward
	}
	result.TotalScore = room.ledger[name]
	return result, nil
}
