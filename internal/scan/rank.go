package scan

import (
	"sort"

	"github.com/oppscan/backend/internal/contracts"
)

// Rank sorts picks descending by score, assigns 1-based ranks and
// truncates to limit. The sort is stable, so ties keep their scan order.
func Rank(picks []contracts.CandidatePick, limit int) []contracts.CandidatePick {
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Score > picks[j].Score
	})

	if limit > 0 && len(picks) > limit {
		picks = picks[:limit]
	}

	for i := range picks {
		picks[i].Rank = i + 1
	}

	return picks
}
