package models

// LanePriorityRules defines the YAML configuration for the ordered candidate
// lane list. List position is the lane's rank: the first entry is rank 1.
type LanePriorityRules struct {
	Name  string          `json:"name" yaml:"name"`
	Lanes []LaneCandidate `json:"lanes" yaml:"lanes"`
}

// LaneCandidate is a single candidate lane in the priority ranking.
// LaneID has the form "ORIGIN--DEST" with 5-character port codes
// (2-letter country + 3-letter port); it is treated as an opaque key.
type LaneCandidate struct {
	LaneID string `json:"laneId" yaml:"lane_id"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// RulesInfo contains metadata about an uploaded lane priority file.
type RulesInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UploadedAt string `json:"uploadedAt"`
	LaneCount  int    `json:"laneCount"`
}
