// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/lane-pulse/backend/internal/session"
	"github.com/lane-pulse/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store         storage.Store
	SessionMgr    *session.Manager
	AllowedTypes  string
	AllowDeletion bool
	Version       string
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Upload    UploadHandler
	Analyze   AnalyzeHandler
	Stats     StatsHandler
	Rules     RulesHandler
	WebSocket *WebSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version),
		Upload:    NewUploadHandler(deps.Store, deps.SessionMgr, deps.AllowedTypes, deps.AllowDeletion),
		Analyze:   NewAnalyzeHandler(deps.Store, deps.SessionMgr),
		Stats:     NewStatsHandler(deps.SessionMgr),
		Rules:     NewRulesHandler(deps.SessionMgr),
		WebSocket: NewWebSocketHandler(deps.Store, deps.SessionMgr),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// File upload routes
	uploadGroup := e.Group("/api/files")
	uploadGroup.POST("/upload", handlers.Upload.HandleUploadFile)
	uploadGroup.POST("/upload/json", handlers.Upload.HandleUploadJSON)
	uploadGroup.GET("/recent", handlers.Upload.HandleGetRecentFiles)
	uploadGroup.GET("/:id", handlers.Upload.HandleGetFile)
	uploadGroup.DELETE("/:id", handlers.Upload.HandleDeleteFile)
	uploadGroup.PUT("/:id", handlers.Upload.HandleRenameFile)

	// Analysis session routes
	analyzeGroup := e.Group("/api/analyze")
	analyzeGroup.POST("", handlers.Analyze.HandleStartAnalysis)
	analyzeGroup.GET("/:sessionId/status", handlers.Analyze.HandleAnalysisStatus)
	analyzeGroup.POST("/:sessionId/keepalive", handlers.Analyze.HandleSessionKeepAlive)
	analyzeGroup.GET("/:sessionId/progress", handlers.Analyze.HandleProgressStream)
	analyzeGroup.GET("/:sessionId/lanes", handlers.Stats.HandleGetLanes)
	analyzeGroup.GET("/:sessionId/lanes/:laneId", handlers.Stats.HandleGetLane)
	analyzeGroup.GET("/:sessionId/carriers", handlers.Stats.HandleGetCarriers)
	analyzeGroup.GET("/:sessionId/rankings", handlers.Stats.HandleGetRankings)
	analyzeGroup.GET("/:sessionId/records", handlers.Stats.HandleGetRecords)
	analyzeGroup.GET("/:sessionId/records/msgpack", handlers.Stats.HandleGetRecordsMsgpack)
	analyzeGroup.GET("/:sessionId/records/facets", handlers.Stats.HandleGetRecordFacets)
	analyzeGroup.GET("/:sessionId/export", handlers.Stats.HandleExport)

	// Lane priority routes
	rulesGroup := e.Group("/api/rules")
	rulesGroup.GET("/lanes", handlers.Rules.HandleGetLanePriority)
	rulesGroup.POST("/lanes", handlers.Rules.HandleUpdateLanePriority)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/ws", handlers.WebSocket.HandleWebSocket)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
