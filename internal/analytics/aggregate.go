package analytics

import (
	"github.com/montanaflynn/stats"

	"github.com/lane-pulse/backend/internal/models"
)

// AggregateLanes computes per-lane statistics for the resolved lanes.
// Rank is the lane's 1-indexed position in the resolved (priority) order.
// Transit hours are converted to days here, exactly once.
func AggregateLanes(records []models.ShipmentRecord, orderedLanes []string) map[string]*models.LaneStat {
	byLane := make(map[string][]models.ShipmentRecord)
	for _, r := range records {
		byLane[r.LaneID] = append(byLane[r.LaneID], r)
	}

	laneStats := make(map[string]*models.LaneStat, len(orderedLanes))
	for i, laneID := range orderedLanes {
		laneRecords := byLane[laneID]
		if len(laneRecords) == 0 {
			// Resolved lanes always have records; guard anyway so an empty
			// lane is excluded rather than reported with zero stats.
			continue
		}

		laneDays := make([]float64, 0, len(laneRecords))
		byCarrier := make(map[string][]float64)
		for _, r := range laneRecords {
			days := r.TransitDays()
			laneDays = append(laneDays, days)
			byCarrier[r.CarrierName] = append(byCarrier[r.CarrierName], days)
		}

		carriers := make(map[string]*models.CarrierLaneStat, len(byCarrier))
		for name, days := range byCarrier {
			if cs := carrierLaneStat(days); cs != nil {
				carriers[name] = cs
			}
		}

		laneAvg, _ := stats.Mean(laneDays)
		laneStats[laneID] = &models.LaneStat{
			LaneID:             laneID,
			Rank:               i + 1,
			TotalShipments:     len(laneRecords),
			AverageTransitDays: round2(laneAvg),
			Carriers:           carriers,
		}
	}
	return laneStats
}

// carrierLaneStat computes a carrier's transit statistics within one lane.
// Standard deviation is the population form (mean of squared deviations,
// no Bessel correction). Returns nil for an empty sample.
func carrierLaneStat(days []float64) *models.CarrierLaneStat {
	if len(days) == 0 {
		return nil
	}

	mean, _ := stats.Mean(days)
	min, _ := stats.Min(days)
	max, _ := stats.Max(days)
	stdDev, _ := stats.StandardDeviationPopulation(days)

	absRange := max - min
	var normalizedRange, cov float64
	if mean != 0 {
		normalizedRange = absRange / mean
		cov = stdDev / mean
	}

	// A carrier whose range exceeds its own mean is penalized past zero;
	// the floor keeps the score in [0, 100]. normalizedRange >= 0, so no
	// upper clamp is needed.
	score := 100 - normalizedRange*100
	if score < 0 {
		score = 0
	}

	return &models.CarrierLaneStat{
		AvgTransitDays:         round2(mean),
		MinTransitDays:         round2(min),
		MaxTransitDays:         round2(max),
		ShipmentCount:          len(days),
		StandardDeviation:      round2(stdDev),
		AbsoluteRange:          round2(absRange),
		NormalizedRange:        round2(normalizedRange),
		CoefficientOfVariation: round2(cov),
		ConsistencyScore:       round1(score),
	}
}
