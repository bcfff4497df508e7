package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lane-pulse/backend/internal/analytics"
	"github.com/lane-pulse/backend/internal/models"
	"github.com/lane-pulse/backend/internal/parser"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion
const MaxSessions = 10

// SessionMaxAge is how long to keep completed sessions before cleanup
const SessionMaxAge = 30 * time.Minute

// maxDroppedRetained caps how many rejected rows a session keeps for display.
// The full count is always reported in DroppedCount.
const maxDroppedRetained = 50

// Manager handles active analysis sessions. Each session is one full load:
// parse, filter, store raw records, run the aggregation pipeline. The
// derived Snapshot is immutable once the session completes.
type Manager struct {
	sessions map[string]*SessionState
	mu       sync.RWMutex
	parser   *parser.ShipmentCSVParser
	tempDir  string

	rules   *models.LanePriorityRules
	rulesMu sync.RWMutex
}

// SessionState holds session metadata, the derived snapshot, and the
// DuckDB-backed raw record store.
type SessionState struct {
	Session      *models.AnalysisSession
	Snapshot     *analytics.Snapshot
	Records      *parser.RecordStore
	LastAccessed time.Time
}

// NewManager creates a session manager using LANEPULSE_TEMP_DIR for the
// record store temp directory, defaulting to ./data/temp.
func NewManager() *Manager {
	tempDir := os.Getenv("LANEPULSE_TEMP_DIR")
	if tempDir == "" {
		tempDir = "./data/temp"
	}
	os.MkdirAll(tempDir, 0755)
	return NewManagerWithTempDir(tempDir)
}

// NewManagerWithTempDir creates a session manager with a specific temp directory.
func NewManagerWithTempDir(tempDir string) *Manager {
	return &Manager{
		sessions: make(map[string]*SessionState),
		parser:   parser.NewShipmentCSVParser(),
		tempDir:  tempDir,
		rules:    analytics.DefaultLanePriority(),
	}
}

// LanePriority returns the current candidate lane ranking.
func (m *Manager) LanePriority() *models.LanePriorityRules {
	m.rulesMu.RLock()
	defer m.rulesMu.RUnlock()
	return m.rules
}

// SetLanePriority replaces the candidate lane ranking. Existing sessions
// keep the ranking they were computed with; only new loads see the change.
func (m *Manager) SetLanePriority(rules *models.LanePriorityRules) {
	m.rulesMu.Lock()
	defer m.rulesMu.Unlock()
	m.rules = rules
}

// StartAnalysis begins a full analysis pass over an uploaded file.
func (m *Manager) StartAnalysis(fileID, filePath string) (*models.AnalysisSession, error) {
	m.cleanupOldSessionsIfNeeded()

	sessionID := uuid.New().String()

	sess := models.NewAnalysisSession(sessionID, fileID)
	sess.Status = models.SessionStatusAnalyzing

	state := &SessionState{
		Session:      sess,
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = state
	m.mu.Unlock()

	go m.runAnalysis(sessionID, filePath)

	return sess, nil
}

func (m *Manager) runAnalysis(sessionID, filePath string) {
	// Recover from panics to prevent backend crash
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Analyze %s] PANIC recovered: %v\n", sessionID[:8], r)
			m.updateSessionError(sessionID, fmt.Sprintf("analysis panicked: %v", r))
		}
	}()

	start := time.Now()
	fmt.Printf("[Analyze %s] Starting analysis of %s\n", sessionID[:8], filePath)

	dataset, err := m.parser.Parse(filePath)
	if err != nil {
		fmt.Printf("[Analyze %s] ERROR: parse failed: %v\n", sessionID[:8], err)
		m.updateSessionError(sessionID, fmt.Sprintf("parse failed: %v", err))
		return
	}

	m.updateProgress(sessionID, 40)
	fmt.Printf("[Analyze %s] Parsed %d records, dropped %d rows\n",
		sessionID[:8], len(dataset.Records), len(dataset.Dropped))

	store, err := m.buildRecordStore(sessionID, dataset.Records)
	if err != nil {
		fmt.Printf("[Analyze %s] ERROR: record store failed: %v\n", sessionID[:8], err)
		m.updateSessionError(sessionID, fmt.Sprintf("record storage failed: %v", err))
		return
	}

	m.updateProgress(sessionID, 80)

	snapshot := analytics.Run(dataset.Records, m.LanePriority())

	elapsed := time.Since(start).Milliseconds()
	fmt.Printf("[Analyze %s] Complete: %d lanes, %d carriers, %dms\n",
		sessionID[:8], len(snapshot.Lanes), len(snapshot.Carriers), elapsed)

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		store.Close()
		return
	}

	dropped := dataset.Dropped
	if len(dropped) > maxDroppedRetained {
		dropped = dropped[:maxDroppedRetained]
	}

	state.Snapshot = snapshot
	state.Records = store
	state.Session.Status = models.SessionStatusComplete
	state.Session.Progress = 100
	state.Session.RecordCount = len(dataset.Records)
	state.Session.DroppedCount = len(dataset.Dropped)
	state.Session.UnrankedRecords = snapshot.UnrankedRecords
	state.Session.LaneCount = len(snapshot.Lanes)
	state.Session.CarrierCount = len(snapshot.Carriers)
	state.Session.ProcessingTimeMs = elapsed
	state.Session.Dropped = dropped
}

func (m *Manager) buildRecordStore(sessionID string, records []models.ShipmentRecord) (*parser.RecordStore, error) {
	store, err := parser.NewRecordStore(m.tempDir, sessionID)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if err := store.Add(rec); err != nil {
			store.Close()
			return nil, err
		}
	}
	if err := store.Finalize(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// GetSession returns the session metadata for an ID.
func (m *Manager) GetSession(id string) (*models.AnalysisSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Session, true
}

// TouchSession extends a session's lifetime for active viewing.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// Snapshot returns the derived structures for a completed session.
// No partial results: nothing is exposed until the session completes.
func (m *Manager) Snapshot(id string) (*analytics.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok || state.Session.Status != models.SessionStatusComplete {
		return nil, false
	}
	return state.Snapshot, true
}

// QueryRecords returns one page of raw records matching the query, with the
// total match count.
func (m *Manager) QueryRecords(ctx context.Context, id string, q parser.RecordQuery, page, pageSize int) ([]models.ShipmentRecord, int, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || state.Records == nil {
		return nil, 0, false
	}

	total, err := state.Records.Count(ctx, q)
	if err != nil {
		fmt.Printf("[Analyze %s] record count error: %v\n", id[:8], err)
		return nil, 0, false
	}

	records, err := state.Records.Query(ctx, q, page, pageSize)
	if err != nil {
		fmt.Printf("[Analyze %s] record query error: %v\n", id[:8], err)
		return nil, 0, false
	}
	return records, total, true
}

// RecordFacets returns the distinct lanes and carriers present in a
// session's raw record store, for drill-down filter menus.
func (m *Manager) RecordFacets(ctx context.Context, id string) ([]string, []string, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || state.Records == nil {
		return nil, nil, false
	}

	lanes, err := state.Records.Lanes(ctx)
	if err != nil {
		return nil, nil, false
	}
	carriers, err := state.Records.Carriers(ctx)
	if err != nil {
		return nil, nil, false
	}
	return lanes, carriers, true
}

// DropFileSessions removes all sessions derived from a deleted file.
func (m *Manager) DropFileSessions(fileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, state := range m.sessions {
		if state.Session.FileID == fileID {
			if state.Records != nil {
				state.Records.Close()
			}
			delete(m.sessions, id)
		}
	}
}

// CleanupOldSessions removes sessions idle longer than maxAge.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) {
			if state.Records != nil {
				state.Records.Close()
			}
			delete(m.sessions, id)
			fmt.Printf("[Session %s] Cleaned up (idle since %s)\n", id[:8], state.LastAccessed.Format(time.RFC3339))
		}
	}
}

// cleanupOldSessionsIfNeeded evicts the oldest sessions when at the limit.
func (m *Manager) cleanupOldSessionsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.sessions) >= MaxSessions {
		oldestID := ""
		var oldest time.Time
		for id, state := range m.sessions {
			if oldestID == "" || state.LastAccessed.Before(oldest) {
				oldestID = id
				oldest = state.LastAccessed
			}
		}
		if oldestID == "" {
			return
		}
		if state := m.sessions[oldestID]; state.Records != nil {
			state.Records.Close()
		}
		delete(m.sessions, oldestID)
	}
}

func (m *Manager) updateProgress(sessionID string, progress float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.sessions[sessionID]; ok {
		state.Session.Progress = progress
	}
}

func (m *Manager) updateSessionError(sessionID, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.sessions[sessionID]; ok {
		state.Session.Status = models.SessionStatusError
		state.Session.Error = msg
	}
}
