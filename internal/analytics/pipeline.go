package analytics

import "github.com/lane-pulse/backend/internal/models"

// Snapshot is the immutable result of one analysis pass. It is built once
// per session and never mutated; a fresh load replaces it wholesale.
type Snapshot struct {
	Lanes           []string                    `json:"lanes"` // resolved lane IDs in rank order
	LaneStats       map[string]*models.LaneStat `json:"laneStats"`
	Carriers        []models.CarrierSummary     `json:"carriers"` // sorted ascending by avgDays
	Rankings        models.Rankings             `json:"rankings"`
	RecordCount     int                         `json:"recordCount"`
	UnrankedRecords int                         `json:"unrankedRecords"`
}

// Run executes the full pipeline over an already-filtered record set:
// resolve lanes, aggregate, summarize, rank. Records on lanes outside the
// candidate list are excluded from every derived structure but counted in
// UnrankedRecords.
func Run(records []models.ShipmentRecord, rules *models.LanePriorityRules) *Snapshot {
	if rules == nil {
		rules = DefaultLanePriority()
	}

	ordered, counts := ResolveLanes(records, rules.Lanes)

	ranked := 0
	for _, n := range counts {
		ranked += n
	}

	laneStats := AggregateLanes(filterToLanes(records, counts), ordered)
	carriers := SummarizeCarriers(laneStats, ordered)

	return &Snapshot{
		Lanes:           ordered,
		LaneStats:       laneStats,
		Carriers:        carriers,
		Rankings:        BuildRankings(carriers, DefaultRankingSize),
		RecordCount:     len(records),
		UnrankedRecords: len(records) - ranked,
	}
}

// filterToLanes keeps only records whose lane survived resolution.
func filterToLanes(records []models.ShipmentRecord, retained map[string]int) []models.ShipmentRecord {
	out := make([]models.ShipmentRecord, 0, len(records))
	for _, r := range records {
		if _, ok := retained[r.LaneID]; ok {
			out = append(out, r)
		}
	}
	return out
}
