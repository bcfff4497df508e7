// Package analytics implements the transit-time aggregation pipeline:
// resolve lanes against the priority list, aggregate per-lane carrier
// statistics, summarize carriers across lanes, and derive rankings.
// The pipeline is a pure function of the record set: same input, same output.
package analytics

import "github.com/lane-pulse/backend/internal/models"

// DefaultLanePriority returns the compiled-in candidate lane ranking used
// when no rules file has been uploaded. List position is the rank.
func DefaultLanePriority() *models.LanePriorityRules {
	return &models.LanePriorityRules{
		Name: "default",
		Lanes: []models.LaneCandidate{
			{LaneID: "CNYTN--USSEA", Label: "Yantian → Seattle"},
			{LaneID: "CNSHA--USLAX", Label: "Shanghai → Los Angeles"},
			{LaneID: "CNYTN--USLGB", Label: "Yantian → Long Beach"},
			{LaneID: "CNNGB--USLAX", Label: "Ningbo → Los Angeles"},
			{LaneID: "SGSIN--NLRTM", Label: "Singapore → Rotterdam"},
			{LaneID: "CNSHA--DEHAM", Label: "Shanghai → Hamburg"},
			{LaneID: "KRPUS--USLAX", Label: "Busan → Los Angeles"},
			{LaneID: "CNYTN--NLRTM", Label: "Yantian → Rotterdam"},
			{LaneID: "JPTYO--USOAK", Label: "Tokyo → Oakland"},
			{LaneID: "THLCH--USLAX", Label: "Laem Chabang → Los Angeles"},
		},
	}
}

// ResolveLanes intersects the candidate lane ranking with the lanes present
// in the record set. The returned list preserves candidate order (the order
// IS the rank); candidates with zero matching records are absent. The count
// map holds matching record counts for the retained lanes only.
func ResolveLanes(records []models.ShipmentRecord, candidates []models.LaneCandidate) ([]string, map[string]int) {
	present := make(map[string]int)
	for _, r := range records {
		present[r.LaneID]++
	}

	ordered := make([]string, 0, len(candidates))
	counts := make(map[string]int, len(candidates))
	for _, cand := range candidates {
		if n := present[cand.LaneID]; n > 0 {
			ordered = append(ordered, cand.LaneID)
			counts[cand.LaneID] = n
		}
	}
	return ordered, counts
}
