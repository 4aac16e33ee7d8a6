// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"

	"github.com/tsukkomi/tsukkomi/models"
)

// voteScore weights each vote by its level, so one level-3 vote
// outweighs two level-1 votes.
func voteScore(counts models.VoteCounts) int {
	score := 0
	for level, n := range counts {
		score += level * n
	}
	return score
}

// RankAnswers computes scores and assigns 1-indexed ranks. Ordering:
// score descending, then favorite count descending, then answer ID
// ascending for a stable, deterministic result.
func RankAnswers(stats []models.AnswerStats) []models.AnswerStats {
	ranked := make([]models.AnswerStats, len(stats))
	copy(ranked, stats)

	for i := range ranked {
		ranked[i].Score = voteScore(ranked[i].Counts)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].FavoriteCount != ranked[j].FavoriteCount {
			return ranked[i].FavoriteCount > ranked[j].FavoriteCount
		}
		return ranked[i].AnswerID < ranked[j].AnswerID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
