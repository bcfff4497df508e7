package analytics

import (
	"testing"

	"github.com/lane-pulse/backend/internal/models"
)

func TestSummarizeCarriers_WeightedVsUnweighted(t *testing.T) {
	// Carrier X: 98 shipments on a perfectly consistent lane (score 100) and
	// 2 shipments on a wildly inconsistent lane (score 0). The unweighted
	// average treats both lanes equally; the weighted score follows volume.
	records := make([]models.ShipmentRecord, 0, 100)
	for i := 0; i < 98; i++ {
		records = append(records, rec("Carrier X", "CNYTN--USSEA", 480))
	}
	records = append(records,
		rec("Carrier X", "CNSHA--USLAX", 240),
		rec("Carrier X", "CNSHA--USLAX", 720),
	)

	ordered := []string{"CNYTN--USSEA", "CNSHA--USLAX"}
	laneStats := AggregateLanes(records, ordered)
	summaries := SummarizeCarriers(laneStats, ordered)

	if len(summaries) != 1 {
		t.Fatalf("expected 1 carrier summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.CarrierName != "Carrier X" {
		t.Errorf("unexpected carrier name: %s", s.CarrierName)
	}
	if s.LaneCount != 2 {
		t.Errorf("expected 2 lanes, got %d", s.LaneCount)
	}
	if s.ShipmentCount != 100 {
		t.Errorf("expected 100 shipments, got %d", s.ShipmentCount)
	}
	if s.AvgConsistencyScore != 50.0 {
		t.Errorf("expected unweighted score 50.0, got %v", s.AvgConsistencyScore)
	}
	// (100*98 + 0*2) / 100
	if s.WeightedConsistencyScore != 98.0 {
		t.Errorf("expected weighted score 98.0, got %v", s.WeightedConsistencyScore)
	}
}

func TestSummarizeCarriers_SortedByAvgDays(t *testing.T) {
	records := []models.ShipmentRecord{
		rec("Slow Carrier", "CNYTN--USSEA", 720), // 30 days
		rec("Fast Carrier", "CNYTN--USSEA", 240), // 10 days
		rec("Mid Carrier", "CNYTN--USSEA", 480),  // 20 days
	}

	ordered := []string{"CNYTN--USSEA"}
	summaries := SummarizeCarriers(AggregateLanes(records, ordered), ordered)

	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	wantOrder := []string{"Fast Carrier", "Mid Carrier", "Slow Carrier"}
	for i, name := range wantOrder {
		if summaries[i].CarrierName != name {
			t.Errorf("position %d: expected %s, got %s", i, name, summaries[i].CarrierName)
		}
	}
}

func TestSummarizeCarriers_LaneContributionsInRankOrder(t *testing.T) {
	records := []models.ShipmentRecord{
		rec("X", "CNSHA--USLAX", 480),
		rec("X", "CNYTN--USSEA", 480),
	}

	ordered := []string{"CNYTN--USSEA", "CNSHA--USLAX"}
	summaries := SummarizeCarriers(AggregateLanes(records, ordered), ordered)

	lanes := summaries[0].Lanes
	if len(lanes) != 2 {
		t.Fatalf("expected 2 lane contributions, got %d", len(lanes))
	}
	if lanes[0].LaneID != "CNYTN--USSEA" || lanes[0].LaneRank != 1 {
		t.Errorf("expected CNYTN--USSEA rank 1 first, got %s rank %d", lanes[0].LaneID, lanes[0].LaneRank)
	}
	if lanes[1].LaneID != "CNSHA--USLAX" || lanes[1].LaneRank != 2 {
		t.Errorf("expected CNSHA--USLAX rank 2 second, got %s rank %d", lanes[1].LaneID, lanes[1].LaneRank)
	}
}

func TestSummarizeCarriers_NameTieBreak(t *testing.T) {
	// Same average transit days: names break the tie deterministically.
	records := []models.ShipmentRecord{
		rec("Zeta", "CNYTN--USSEA", 480),
		rec("Alpha", "CNYTN--USSEA", 480),
	}

	ordered := []string{"CNYTN--USSEA"}
	summaries := SummarizeCarriers(AggregateLanes(records, ordered), ordered)
	if summaries[0].CarrierName != "Alpha" {
		t.Errorf("expected Alpha first on tie, got %s", summaries[0].CarrierName)
	}
}
