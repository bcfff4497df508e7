package models

// CarrierLaneStat holds per-carrier transit statistics within a single lane.
// All values are in days and rounded to 2 decimal places, except
// ConsistencyScore which is rounded to 1.
type CarrierLaneStat struct {
	AvgTransitDays         float64 `json:"avgTransitDays"`
	MinTransitDays         float64 `json:"minTransitDays"`
	MaxTransitDays         float64 `json:"maxTransitDays"`
	ShipmentCount          int     `json:"shipmentCount"`
	StandardDeviation      float64 `json:"standardDeviation"`
	AbsoluteRange          float64 `json:"absoluteRange"`
	NormalizedRange        float64 `json:"normalizedRange"`
	CoefficientOfVariation float64 `json:"coefficientOfVariation"`
	ConsistencyScore       float64 `json:"consistencyScore"` // 0-100
}

// LaneStat holds aggregated statistics for one shipping lane.
// Rank is the lane's 1-indexed position in the priority list.
type LaneStat struct {
	LaneID             string                      `json:"laneId"`
	Rank               int                         `json:"rank"`
	TotalShipments     int                         `json:"totalShipments"`
	AverageTransitDays float64                     `json:"averageTransitDays"`
	Carriers           map[string]*CarrierLaneStat `json:"carriers"`
}

// LaneContribution is one lane's contribution to a carrier's cross-lane
// summary, retained for detail views.
type LaneContribution struct {
	LaneID           string  `json:"laneId"`
	LaneRank         int     `json:"laneRank"`
	AvgTransitDays   float64 `json:"avgTransitDays"`
	ConsistencyScore float64 `json:"consistencyScore"`
	ShipmentCount    int     `json:"shipmentCount"`
}

// CarrierSummary rolls a carrier's per-lane statistics up across lanes.
// AvgDays and AvgConsistencyScore weight each lane equally;
// WeightedConsistencyScore weights lanes by shipment volume.
type CarrierSummary struct {
	CarrierName              string             `json:"carrierName"`
	AvgDays                  float64            `json:"avgDays"`
	LaneCount                int                `json:"laneCount"`
	ShipmentCount            int                `json:"shipmentCount"`
	AvgConsistencyScore      float64            `json:"avgConsistencyScore"`
	WeightedConsistencyScore float64            `json:"weightedConsistencyScore"`
	Lanes                    []LaneContribution `json:"lanes"`
}

// Rankings are pure derivations over the carrier summary list.
type Rankings struct {
	Fastest        *CarrierSummary  `json:"fastest,omitempty"`
	MostReliable   []CarrierSummary `json:"mostReliable"`
	MostConsistent []CarrierSummary `json:"mostConsistent"`
}
