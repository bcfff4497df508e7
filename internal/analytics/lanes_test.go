package analytics

import (
	"testing"

	"github.com/lane-pulse/backend/internal/models"
)

func TestResolveLanes_PreservesCandidateOrder(t *testing.T) {
	candidates := []models.LaneCandidate{
		{LaneID: "CNYTN--USSEA"},
		{LaneID: "CNSHA--USLAX"},
		{LaneID: "SGSIN--NLRTM"},
	}
	// Records arrive in a different order than the candidate ranking.
	records := []models.ShipmentRecord{
		rec("A", "SGSIN--NLRTM", 480),
		rec("A", "CNYTN--USSEA", 480),
		rec("B", "SGSIN--NLRTM", 480),
	}

	ordered, counts := ResolveLanes(records, candidates)

	want := []string{"CNYTN--USSEA", "SGSIN--NLRTM"}
	if len(ordered) != len(want) {
		t.Fatalf("expected %d lanes, got %d", len(want), len(ordered))
	}
	for i, laneID := range want {
		if ordered[i] != laneID {
			t.Errorf("position %d: expected %s, got %s", i, laneID, ordered[i])
		}
	}

	if counts["CNYTN--USSEA"] != 1 {
		t.Errorf("expected 1 record for CNYTN--USSEA, got %d", counts["CNYTN--USSEA"])
	}
	if counts["SGSIN--NLRTM"] != 2 {
		t.Errorf("expected 2 records for SGSIN--NLRTM, got %d", counts["SGSIN--NLRTM"])
	}
}

func TestResolveLanes_DropsZeroRecordCandidates(t *testing.T) {
	candidates := DefaultLanePriority().Lanes
	records := []models.ShipmentRecord{
		rec("A", "CNSHA--USLAX", 480),
	}

	ordered, counts := ResolveLanes(records, candidates)
	if len(ordered) != 1 || ordered[0] != "CNSHA--USLAX" {
		t.Fatalf("expected only CNSHA--USLAX, got %v", ordered)
	}
	if len(counts) != 1 {
		t.Errorf("counts must only cover retained lanes, got %v", counts)
	}
}

func TestResolveLanes_NoMatches(t *testing.T) {
	records := []models.ShipmentRecord{
		rec("A", "XXAAA--YYBBB", 480),
	}

	ordered, counts := ResolveLanes(records, DefaultLanePriority().Lanes)
	if len(ordered) != 0 {
		t.Errorf("expected no resolved lanes, got %v", ordered)
	}
	if len(counts) != 0 {
		t.Errorf("expected empty counts, got %v", counts)
	}
}

func TestDefaultLanePriority(t *testing.T) {
	rules := DefaultLanePriority()
	if len(rules.Lanes) != 10 {
		t.Fatalf("expected 10 default lanes, got %d", len(rules.Lanes))
	}
	if rules.Lanes[0].LaneID != "CNYTN--USSEA" {
		t.Errorf("expected CNYTN--USSEA at rank 1, got %s", rules.Lanes[0].LaneID)
	}

	seen := make(map[string]bool)
	for _, cand := range rules.Lanes {
		if seen[cand.LaneID] {
			t.Errorf("duplicate default lane: %s", cand.LaneID)
		}
		seen[cand.LaneID] = true
	}
}
