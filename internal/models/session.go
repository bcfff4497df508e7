package models

// SessionStatus represents the status of an analysis session.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusAnalyzing SessionStatus = "analyzing"
	SessionStatusComplete  SessionStatus = "complete"
	SessionStatusError     SessionStatus = "error"
)

// AnalysisSession represents one full load of a shipment dataset.
// Derived structures are rebuilt from scratch per session; a new upload
// simply starts a new session.
type AnalysisSession struct {
	ID               string        `json:"id"`
	FileID           string        `json:"fileId"`
	Status           SessionStatus `json:"status"`
	Progress         float64       `json:"progress"` // 0-100
	RecordCount      int           `json:"recordCount,omitempty"`
	DroppedCount     int           `json:"droppedCount,omitempty"`
	UnrankedRecords  int           `json:"unrankedRecords,omitempty"` // valid records on lanes outside the priority list
	LaneCount        int           `json:"laneCount,omitempty"`
	CarrierCount     int           `json:"carrierCount,omitempty"`
	ProcessingTimeMs int64         `json:"processingTimeMs,omitempty"`
	Error            string        `json:"error,omitempty"`
	Dropped          []RowError    `json:"droppedRows,omitempty"`
}

// NewAnalysisSession creates a new AnalysisSession in pending status.
func NewAnalysisSession(id, fileID string) *AnalysisSession {
	return &AnalysisSession{
		ID:       id,
		FileID:   fileID,
		Status:   SessionStatusPending,
		Progress: 0,
		Dropped:  make([]RowError, 0),
	}
}
