// Package parser handles shipment CSV ingestion. The CSV boundary is the
// only place where loosely-typed rows exist: everything downstream works on
// validated ShipmentRecord values.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lane-pulse/backend/internal/models"
)

// Required column headers. Aliases cover the common export variants.
var (
	carrierAliases = []string{"carrier_name", "carrier"}
	laneAliases    = []string{"port_2_port_id", "lane_id", "lane"}
	transitAliases = []string{"transit_time", "transit_time_hours", "transit_hours"}
)

// ShipmentCSVParser parses shipment CSVs with a header row.
// Expected columns: carrier_name, port_2_port_id, transit_time (hours).
type ShipmentCSVParser struct{}

func NewShipmentCSVParser() *ShipmentCSVParser {
	return &ShipmentCSVParser{}
}

func (p *ShipmentCSVParser) Name() string {
	return "shipment_csv"
}

// CanParse reports whether the file's header row carries the required columns.
func (p *ShipmentCSVParser) CanParse(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return false, nil
	}

	cols := headerIndex(header)
	_, hasCarrier := findColumn(cols, carrierAliases)
	_, hasLane := findColumn(cols, laneAliases)
	_, hasTransit := findColumn(cols, transitAliases)
	return hasCarrier && hasLane && hasTransit, nil
}

// Parse reads and filters a shipment CSV from disk.
func (p *ShipmentCSVParser) Parse(filePath string) (*models.ShipmentDataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseReader(file)
}

// ParseReader reads and filters shipment rows. Rows failing the record
// filter are dropped with a reason; dropping is expected data noise, never
// an error. Record order is preserved.
func (p *ShipmentCSVParser) ParseReader(reader io.Reader) (*models.ShipmentDataset, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := headerIndex(header)
	carrierCol, ok := findColumn(cols, carrierAliases)
	if !ok {
		return nil, fmt.Errorf("missing carrier column (expected one of %v)", carrierAliases)
	}
	laneCol, ok := findColumn(cols, laneAliases)
	if !ok {
		return nil, fmt.Errorf("missing lane column (expected one of %v)", laneAliases)
	}
	transitCol, ok := findColumn(cols, transitAliases)
	if !ok {
		return nil, fmt.Errorf("missing transit time column (expected one of %v)", transitAliases)
	}

	ds := models.NewShipmentDataset()
	line := 1
	for {
		line++
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ds.Dropped = append(ds.Dropped, models.RowError{Line: line, Reason: "malformed CSV row"})
			continue
		}

		rec, reason := filterRow(row, carrierCol, laneCol, transitCol)
		if reason != "" {
			ds.Dropped = append(ds.Dropped, models.RowError{
				Line:    line,
				Content: strings.Join(row, ","),
				Reason:  reason,
			})
			continue
		}

		ds.Records = append(ds.Records, rec)
		ds.Lanes[rec.LaneID] = struct{}{}
		ds.Carriers[rec.CarrierName] = struct{}{}
	}

	return ds, nil
}

// filterRow is the record filter: it turns one raw row into a validated
// ShipmentRecord, or returns the reason it was rejected.
func filterRow(row []string, carrierCol, laneCol, transitCol int) (models.ShipmentRecord, string) {
	var rec models.ShipmentRecord

	if transitCol >= len(row) || carrierCol >= len(row) || laneCol >= len(row) {
		return rec, "row has too few columns"
	}

	carrier := strings.TrimSpace(row[carrierCol])
	if carrier == "" {
		return rec, "missing carrier name"
	}

	lane := strings.TrimSpace(row[laneCol])
	if lane == "" {
		return rec, "missing lane identifier"
	}

	transitStr := strings.TrimSpace(row[transitCol])
	if transitStr == "" {
		return rec, "missing transit time"
	}
	hours, err := strconv.ParseFloat(transitStr, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return rec, "invalid transit time"
	}

	return models.ShipmentRecord{
		CarrierName:  carrier,
		LaneID:       lane,
		TransitHours: hours,
	}, ""
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func findColumn(cols map[string]int, aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := cols[a]; ok {
			return i, true
		}
	}
	return 0, false
}
