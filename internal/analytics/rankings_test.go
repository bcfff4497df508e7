package analytics

import (
	"testing"

	"github.com/lane-pulse/backend/internal/models"
)

func summary(name string, avgDays float64, lanes, shipments int, weighted float64) models.CarrierSummary {
	return models.CarrierSummary{
		CarrierName:              name,
		AvgDays:                  avgDays,
		LaneCount:                lanes,
		ShipmentCount:            shipments,
		WeightedConsistencyScore: weighted,
	}
}

func TestBuildRankings_Fastest(t *testing.T) {
	// The input is already AvgDays-ascending: fastest is the first element.
	summaries := []models.CarrierSummary{
		summary("Fast", 10.0, 1, 5, 90),
		summary("Slow", 30.0, 3, 50, 80),
	}

	rankings := BuildRankings(summaries, 3)
	if rankings.Fastest == nil {
		t.Fatal("expected a fastest carrier")
	}
	if rankings.Fastest.CarrierName != "Fast" {
		t.Errorf("expected Fast, got %s", rankings.Fastest.CarrierName)
	}
}

func TestBuildRankings_Empty(t *testing.T) {
	rankings := BuildRankings(nil, 3)
	if rankings.Fastest != nil {
		t.Error("expected no fastest carrier for empty input")
	}
	if len(rankings.MostReliable) != 0 {
		t.Errorf("expected empty most reliable, got %d", len(rankings.MostReliable))
	}
	if len(rankings.MostConsistent) != 0 {
		t.Errorf("expected empty most consistent, got %d", len(rankings.MostConsistent))
	}
}

func TestBuildRankings_MostReliable(t *testing.T) {
	summaries := []models.CarrierSummary{
		summary("OneLane", 10.0, 1, 500, 95),
		summary("FourLanes", 20.0, 4, 40, 70),
		summary("TwoLanesBig", 15.0, 2, 300, 80),
		summary("TwoLanesSmall", 12.0, 2, 30, 85),
		summary("ThreeLanes", 18.0, 3, 90, 75),
	}

	rankings := BuildRankings(summaries, 3)
	if len(rankings.MostReliable) != 3 {
		t.Fatalf("expected top 3, got %d", len(rankings.MostReliable))
	}

	// Lane coverage first, volume as tie-break.
	wantOrder := []string{"FourLanes", "ThreeLanes", "TwoLanesBig"}
	for i, name := range wantOrder {
		if rankings.MostReliable[i].CarrierName != name {
			t.Errorf("position %d: expected %s, got %s", i, name, rankings.MostReliable[i].CarrierName)
		}
	}
}

func TestBuildRankings_MostConsistentExcludesSingleLane(t *testing.T) {
	summaries := []models.CarrierSummary{
		summary("SingleLanePerfect", 10.0, 1, 100, 100.0),
		summary("MultiLaneGood", 20.0, 3, 60, 92.5),
		summary("MultiLaneBetter", 22.0, 2, 40, 97.0),
	}

	rankings := BuildRankings(summaries, 3)
	if len(rankings.MostConsistent) != 2 {
		t.Fatalf("expected 2 carriers (single-lane excluded), got %d", len(rankings.MostConsistent))
	}
	if rankings.MostConsistent[0].CarrierName != "MultiLaneBetter" {
		t.Errorf("expected MultiLaneBetter first, got %s", rankings.MostConsistent[0].CarrierName)
	}
	for _, s := range rankings.MostConsistent {
		if s.CarrierName == "SingleLanePerfect" {
			t.Error("single-lane carrier must not appear in the consistency ranking")
		}
	}
}

func TestBuildRankings_TopNDefault(t *testing.T) {
	summaries := []models.CarrierSummary{
		summary("A", 10, 2, 10, 90),
		summary("B", 11, 2, 10, 91),
		summary("C", 12, 2, 10, 92),
		summary("D", 13, 2, 10, 93),
	}

	rankings := BuildRankings(summaries, 0)
	if len(rankings.MostReliable) != DefaultRankingSize {
		t.Errorf("expected default size %d, got %d", DefaultRankingSize, len(rankings.MostReliable))
	}
	if len(rankings.MostConsistent) != DefaultRankingSize {
		t.Errorf("expected default size %d, got %d", DefaultRankingSize, len(rankings.MostConsistent))
	}
}
