package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShipmentCSVParser_ParseReader(t *testing.T) {
	csvData := `carrier_name,port_2_port_id,transit_time
Alpha Lines,CNYTN--USSEA,480
Beta Shipping,CNSHA--USLAX,523.5
Alpha Lines,CNYTN--USSEA,495
`

	p := NewShipmentCSVParser()
	ds, err := p.ParseReader(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}
	if len(ds.Dropped) != 0 {
		t.Errorf("expected no dropped rows, got %d", len(ds.Dropped))
	}

	first := ds.Records[0]
	if first.CarrierName != "Alpha Lines" {
		t.Errorf("expected carrier Alpha Lines, got %s", first.CarrierName)
	}
	if first.LaneID != "CNYTN--USSEA" {
		t.Errorf("expected lane CNYTN--USSEA, got %s", first.LaneID)
	}
	if first.TransitHours != 480 {
		t.Errorf("expected 480 hours, got %v", first.TransitHours)
	}
	if first.TransitDays() != 20.0 {
		t.Errorf("expected 20.0 days, got %v", first.TransitDays())
	}

	if len(ds.Lanes) != 2 {
		t.Errorf("expected 2 distinct lanes, got %d", len(ds.Lanes))
	}
	if len(ds.Carriers) != 2 {
		t.Errorf("expected 2 distinct carriers, got %d", len(ds.Carriers))
	}
}

func TestShipmentCSVParser_HeaderAliases(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"canonical", "carrier_name,port_2_port_id,transit_time"},
		{"short aliases", "carrier,lane,transit_hours"},
		{"lane_id alias", "carrier_name,lane_id,transit_time_hours"},
		{"mixed case", "Carrier_Name,PORT_2_PORT_ID,Transit_Time"},
	}

	p := NewShipmentCSVParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := p.ParseReader(strings.NewReader(tt.header + "\nAlpha,CNYTN--USSEA,480\n"))
			if err != nil {
				t.Fatalf("ParseReader failed: %v", err)
			}
			if len(ds.Records) != 1 {
				t.Errorf("expected 1 record, got %d", len(ds.Records))
			}
		})
	}
}

func TestShipmentCSVParser_RecordFilter(t *testing.T) {
	tests := []struct {
		name       string
		row        string
		wantReason string
	}{
		{"missing carrier", ",CNYTN--USSEA,480", "missing carrier name"},
		{"missing lane", "Alpha,,480", "missing lane identifier"},
		{"missing transit", "Alpha,CNYTN--USSEA,", "missing transit time"},
		{"non-numeric transit", "Alpha,CNYTN--USSEA,abc", "invalid transit time"},
		{"NaN transit", "Alpha,CNYTN--USSEA,NaN", "invalid transit time"},
		{"too few columns", "Alpha", "row has too few columns"},
	}

	p := NewShipmentCSVParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "carrier_name,port_2_port_id,transit_time\n" + tt.row + "\n"
			ds, err := p.ParseReader(strings.NewReader(data))
			if err != nil {
				t.Fatalf("dropping a row must not fail the parse: %v", err)
			}
			if len(ds.Records) != 0 {
				t.Fatalf("expected 0 records, got %d", len(ds.Records))
			}
			if len(ds.Dropped) != 1 {
				t.Fatalf("expected 1 dropped row, got %d", len(ds.Dropped))
			}
			if ds.Dropped[0].Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, ds.Dropped[0].Reason)
			}
			if ds.Dropped[0].Line != 2 {
				t.Errorf("expected line 2, got %d", ds.Dropped[0].Line)
			}
		})
	}
}

func TestShipmentCSVParser_DropsMixedWithKept(t *testing.T) {
	csvData := `carrier_name,port_2_port_id,transit_time
Alpha,CNYTN--USSEA,480
,CNYTN--USSEA,500
Beta,CNSHA--USLAX,not-a-number
Gamma,CNSHA--USLAX,360
`

	p := NewShipmentCSVParser()
	ds, err := p.ParseReader(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Errorf("expected 2 kept records, got %d", len(ds.Records))
	}
	if len(ds.Dropped) != 2 {
		t.Errorf("expected 2 dropped rows, got %d", len(ds.Dropped))
	}
	// Order of survivors is preserved.
	if ds.Records[0].CarrierName != "Alpha" || ds.Records[1].CarrierName != "Gamma" {
		t.Errorf("unexpected record order: %v", ds.Records)
	}
}

func TestShipmentCSVParser_MissingColumns(t *testing.T) {
	p := NewShipmentCSVParser()

	_, err := p.ParseReader(strings.NewReader("carrier_name,transit_time\nAlpha,480\n"))
	if err == nil {
		t.Error("expected error for missing lane column")
	}

	_, err = p.ParseReader(strings.NewReader(""))
	if err == nil {
		t.Error("expected error for empty input")
	}
}

func TestShipmentCSVParser_CanParse(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.csv")
	os.WriteFile(good, []byte("carrier_name,port_2_port_id,transit_time\n"), 0644)

	bad := filepath.Join(dir, "bad.csv")
	os.WriteFile(bad, []byte("timestamp,device,signal\n"), 0644)

	p := NewShipmentCSVParser()

	ok, err := p.CanParse(good)
	if err != nil || !ok {
		t.Errorf("expected CanParse true for shipment header, got %v/%v", ok, err)
	}

	ok, err = p.CanParse(bad)
	if err != nil || ok {
		t.Errorf("expected CanParse false for foreign header, got %v/%v", ok, err)
	}
}

func TestShipmentCSVParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shipments.csv")
	os.WriteFile(path, []byte("carrier,lane,transit_hours\nAlpha,CNYTN--USSEA,480\n"), 0644)

	p := NewShipmentCSVParser()
	ds, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ds.Records) != 1 {
		t.Errorf("expected 1 record, got %d", len(ds.Records))
	}
}
