// Package models contains domain types for the Lane Pulse shipment dashboard.
package models

// ShipmentRecord is a single validated shipment row.
// Transit time is kept in hours as ingested; the analytics layer converts
// to days exactly once when it builds per-lane samples.
type ShipmentRecord struct {
	CarrierName  string  `json:"carrierName"`
	LaneID       string  `json:"laneId"`
	TransitHours float64 `json:"transitHours"`
}

// TransitDays returns the transit time in days.
func (r ShipmentRecord) TransitDays() float64 {
	return r.TransitHours / 24
}

// RowError describes a source row that was rejected by the record filter.
// Rejected rows are expected data noise, not an error condition.
type RowError struct {
	Line    int    `json:"line"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason"`
}

// ShipmentDataset is the result of parsing and filtering a shipment CSV.
type ShipmentDataset struct {
	Records  []ShipmentRecord    `json:"records"`
	Lanes    map[string]struct{} `json:"lanes"`
	Carriers map[string]struct{} `json:"carriers"`
	Dropped  []RowError          `json:"dropped,omitempty"`
}

// NewShipmentDataset creates an empty dataset.
func NewShipmentDataset() *ShipmentDataset {
	return &ShipmentDataset{
		Records:  make([]ShipmentRecord, 0),
		Lanes:    make(map[string]struct{}),
		Carriers: make(map[string]struct{}),
	}
}
