package app

import (
	"sort"

	"live-quiz-service/internal/domain"
)

// BuildLeaderboard ranks every ledger entry by score, highest first, breaking
// ties by name so equal scores always come out in the same order.
func BuildLeaderboard(ledger map[string]int) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(ledger))
	for name, score := range ledger {
		entries = append(entries, domain.LeaderboardEntry{Name: name, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
