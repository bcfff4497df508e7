package export

import (
	"testing"

	"github.com/lane-pulse/backend/internal/analytics"
	"github.com/lane-pulse/backend/internal/models"
)

func TestBuildWorkbook(t *testing.T) {
	records := []models.ShipmentRecord{
		{CarrierName: "Alpha Lines", LaneID: "CNYTN--USSEA", TransitHours: 480},
		{CarrierName: "Alpha Lines", LaneID: "CNYTN--USSEA", TransitHours: 480},
		{CarrierName: "Beta Shipping", LaneID: "CNYTN--USSEA", TransitHours: 500},
	}
	snap := analytics.Run(records, nil)

	f, err := BuildWorkbook(snap)
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %v", sheets)
	}

	// Lanes sheet: header plus one row per lane/carrier pair.
	header, err := f.GetCellValue("Lanes", "B1")
	if err != nil || header != "Lane" {
		t.Errorf("unexpected Lanes header cell: %q (%v)", header, err)
	}
	lane, _ := f.GetCellValue("Lanes", "B2")
	if lane != "CNYTN--USSEA" {
		t.Errorf("expected CNYTN--USSEA in first data row, got %q", lane)
	}
	// Carriers within a lane are written alphabetically.
	carrier, _ := f.GetCellValue("Lanes", "C2")
	if carrier != "Alpha Lines" {
		t.Errorf("expected Alpha Lines first, got %q", carrier)
	}

	// Carriers sheet: summaries in fastest-first order.
	name, _ := f.GetCellValue("Carriers", "A2")
	if name != "Alpha Lines" {
		t.Errorf("expected Alpha Lines in carriers sheet, got %q", name)
	}
}
