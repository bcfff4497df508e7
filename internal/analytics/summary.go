package analytics

import (
	"sort"

	"github.com/lane-pulse/backend/internal/models"
)

// SummarizeCarriers rolls per-lane carrier statistics up into cross-lane
// summaries. Lanes are walked in resolved order so each carrier's lane
// contributions come out in rank order. The result is sorted ascending by
// AvgDays: the first element is the fastest carrier.
func SummarizeCarriers(laneStats map[string]*models.LaneStat, orderedLanes []string) []models.CarrierSummary {
	contributions := make(map[string][]models.LaneContribution)
	for _, laneID := range orderedLanes {
		ls, ok := laneStats[laneID]
		if !ok {
			continue
		}
		for name, cs := range ls.Carriers {
			contributions[name] = append(contributions[name], models.LaneContribution{
				LaneID:           laneID,
				LaneRank:         ls.Rank,
				AvgTransitDays:   cs.AvgTransitDays,
				ConsistencyScore: cs.ConsistencyScore,
				ShipmentCount:    cs.ShipmentCount,
			})
		}
	}

	summaries := make([]models.CarrierSummary, 0, len(contributions))
	for name, lanes := range contributions {
		var daySum, scoreSum, weightedScoreSum float64
		var shipments int
		for _, lc := range lanes {
			daySum += lc.AvgTransitDays
			scoreSum += lc.ConsistencyScore
			weightedScoreSum += lc.ConsistencyScore * float64(lc.ShipmentCount)
			shipments += lc.ShipmentCount
		}

		n := float64(len(lanes))
		var weighted float64
		if shipments > 0 {
			weighted = weightedScoreSum / float64(shipments)
		}

		summaries = append(summaries, models.CarrierSummary{
			CarrierName:              name,
			AvgDays:                  round2(daySum / n),
			LaneCount:                len(lanes),
			ShipmentCount:            shipments,
			AvgConsistencyScore:      round1(scoreSum / n),
			WeightedConsistencyScore: round1(weighted),
			Lanes:                    lanes,
		})
	}

	// Name tie-break keeps the ordering deterministic across runs.
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AvgDays != summaries[j].AvgDays {
			return summaries[i].AvgDays < summaries[j].AvgDays
		}
		return summaries[i].CarrierName < summaries[j].CarrierName
	})
	return summaries
}
