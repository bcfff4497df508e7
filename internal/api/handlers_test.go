// handlers_test.go - Shared test fixtures for the API package
package api

import (
	"context"
	"sort"

	"github.com/lane-pulse/backend/internal/analytics"
	"github.com/lane-pulse/backend/internal/models"
	"github.com/lane-pulse/backend/internal/parser"
)

// mockSessionManager implements SessionManager with canned state.
type mockSessionManager struct {
	sessions  map[string]*models.AnalysisSession
	snapshots map[string]*analytics.Snapshot
	records   map[string][]models.ShipmentRecord
	rules     *models.LanePriorityRules
	dropped   []string
	started   []string
}

func newMockSessionManager() *mockSessionManager {
	return &mockSessionManager{
		sessions:  make(map[string]*models.AnalysisSession),
		snapshots: make(map[string]*analytics.Snapshot),
		records:   make(map[string][]models.ShipmentRecord),
		rules:     analytics.DefaultLanePriority(),
	}
}

func (m *mockSessionManager) StartAnalysis(fileID, filePath string) (*models.AnalysisSession, error) {
	sess := models.NewAnalysisSession("session-"+fileID, fileID)
	sess.Status = models.SessionStatusAnalyzing
	m.sessions[sess.ID] = sess
	m.started = append(m.started, fileID)
	return sess, nil
}

func (m *mockSessionManager) GetSession(id string) (*models.AnalysisSession, bool) {
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *mockSessionManager) TouchSession(id string) bool {
	_, ok := m.sessions[id]
	return ok
}

func (m *mockSessionManager) Snapshot(id string) (*analytics.Snapshot, bool) {
	sess, ok := m.sessions[id]
	if !ok || sess.Status != models.SessionStatusComplete {
		return nil, false
	}
	snap, ok := m.snapshots[id]
	return snap, ok
}

func (m *mockSessionManager) QueryRecords(ctx context.Context, id string, q parser.RecordQuery, page, pageSize int) ([]models.ShipmentRecord, int, bool) {
	all, ok := m.records[id]
	if !ok {
		return nil, 0, false
	}

	var matched []models.ShipmentRecord
	for _, r := range all {
		if q.LaneID != "" && r.LaneID != q.LaneID {
			continue
		}
		if q.Carrier != "" && r.CarrierName != q.Carrier {
			continue
		}
		matched = append(matched, r)
	}

	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return []models.ShipmentRecord{}, total, true
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, true
}

func (m *mockSessionManager) RecordFacets(ctx context.Context, id string) ([]string, []string, bool) {
	all, ok := m.records[id]
	if !ok {
		return nil, nil, false
	}

	laneSet := make(map[string]struct{})
	carrierSet := make(map[string]struct{})
	for _, r := range all {
		laneSet[r.LaneID] = struct{}{}
		carrierSet[r.CarrierName] = struct{}{}
	}

	lanes := make([]string, 0, len(laneSet))
	for l := range laneSet {
		lanes = append(lanes, l)
	}
	carriers := make([]string, 0, len(carrierSet))
	for c := range carrierSet {
		carriers = append(carriers, c)
	}
	sort.Strings(lanes)
	sort.Strings(carriers)
	return lanes, carriers, true
}

func (m *mockSessionManager) DropFileSessions(fileID string) {
	m.dropped = append(m.dropped, fileID)
	for id, sess := range m.sessions {
		if sess.FileID == fileID {
			delete(m.sessions, id)
		}
	}
}

func (m *mockSessionManager) LanePriority() *models.LanePriorityRules {
	return m.rules
}

func (m *mockSessionManager) SetLanePriority(rules *models.LanePriorityRules) {
	m.rules = rules
}

var _ SessionManager = (*mockSessionManager)(nil)

// addCompleteSession installs a completed session with a snapshot derived
// from the given records.
func (m *mockSessionManager) addCompleteSession(id string, records []models.ShipmentRecord) *analytics.Snapshot {
	sess := models.NewAnalysisSession(id, "file-"+id)
	sess.Status = models.SessionStatusComplete
	sess.Progress = 100
	sess.RecordCount = len(records)
	m.sessions[id] = sess

	snap := analytics.Run(records, m.rules)
	m.snapshots[id] = snap
	m.records[id] = records
	return snap
}

// addAnalyzingSession installs a session that is still running.
func (m *mockSessionManager) addAnalyzingSession(id string) {
	sess := models.NewAnalysisSession(id, "file-"+id)
	sess.Status = models.SessionStatusAnalyzing
	sess.Progress = 40
	m.sessions[id] = sess
}
