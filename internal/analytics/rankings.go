package analytics

import (
	"sort"

	"github.com/lane-pulse/backend/internal/models"
)

// DefaultRankingSize is how many carriers each ranking view retains.
const DefaultRankingSize = 3

// BuildRankings derives the ranking views from an AvgDays-ascending carrier
// summary list. No new state: everything is computed from the summaries.
func BuildRankings(summaries []models.CarrierSummary, topN int) models.Rankings {
	if topN <= 0 {
		topN = DefaultRankingSize
	}

	rankings := models.Rankings{
		MostReliable:   mostReliable(summaries, topN),
		MostConsistent: mostConsistent(summaries, topN),
	}
	if len(summaries) > 0 {
		fastest := summaries[0]
		rankings.Fastest = &fastest
	}
	return rankings
}

// mostReliable ranks carriers by lane coverage, tie-broken by total volume.
func mostReliable(summaries []models.CarrierSummary, topN int) []models.CarrierSummary {
	ranked := make([]models.CarrierSummary, len(summaries))
	copy(ranked, summaries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].LaneCount != ranked[j].LaneCount {
			return ranked[i].LaneCount > ranked[j].LaneCount
		}
		return ranked[i].ShipmentCount > ranked[j].ShipmentCount
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// mostConsistent ranks multi-lane carriers by volume-weighted consistency.
// Single-lane carriers are excluded: one lane is not enough signal for this
// ranking.
func mostConsistent(summaries []models.CarrierSummary, topN int) []models.CarrierSummary {
	ranked := make([]models.CarrierSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.LaneCount > 1 {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightedConsistencyScore > ranked[j].WeightedConsistencyScore
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
