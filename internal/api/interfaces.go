// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/lane-pulse/backend/internal/analytics"
	"github.com/lane-pulse/backend/internal/models"
	"github.com/lane-pulse/backend/internal/parser"
)

// UploadHandler handles shipment file upload operations
type UploadHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleUploadJSON(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
}

// AnalyzeHandler handles analysis session operations
type AnalyzeHandler interface {
	HandleStartAnalysis(c echo.Context) error
	HandleAnalysisStatus(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
	HandleProgressStream(c echo.Context) error
}

// StatsHandler serves the derived structures of a completed session
type StatsHandler interface {
	HandleGetLanes(c echo.Context) error
	HandleGetLane(c echo.Context) error
	HandleGetCarriers(c echo.Context) error
	HandleGetRankings(c echo.Context) error
	HandleGetRecords(c echo.Context) error
	HandleGetRecordsMsgpack(c echo.Context) error
	HandleGetRecordFacets(c echo.Context) error
	HandleExport(c echo.Context) error
}

// RulesHandler handles the candidate lane priority list
type RulesHandler interface {
	HandleGetLanePriority(c echo.Context) error
	HandleUpdateLanePriority(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionManager defines the interface for analysis session management.
// This allows mocking in tests.
type SessionManager interface {
	StartAnalysis(fileID, filePath string) (*models.AnalysisSession, error)
	GetSession(id string) (*models.AnalysisSession, bool)
	TouchSession(id string) bool
	Snapshot(id string) (*analytics.Snapshot, bool)
	QueryRecords(ctx context.Context, id string, q parser.RecordQuery, page, pageSize int) ([]models.ShipmentRecord, int, bool)
	RecordFacets(ctx context.Context, id string) ([]string, []string, bool)
	DropFileSessions(fileID string)
	LanePriority() *models.LanePriorityRules
	SetLanePriority(rules *models.LanePriorityRules)
}
