// handlers_stats.go - Derived statistics handlers for completed sessions
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lane-pulse/backend/internal/analytics"
	"github.com/lane-pulse/backend/internal/export"
	"github.com/lane-pulse/backend/internal/models"
)

// StatsHandlerImpl implements the StatsHandler interface
type StatsHandlerImpl struct {
	sessionMgr SessionManager
}

// NewStatsHandler creates a new stats handler instance
func NewStatsHandler(sessionMgr SessionManager) StatsHandler {
	return &StatsHandlerImpl{
		sessionMgr: sessionMgr,
	}
}

// snapshot resolves a completed session's derived structures. Sessions that
// are still analyzing return 409 so clients keep polling; no partial results.
func (h *StatsHandlerImpl) snapshot(c echo.Context) (*analytics.Snapshot, error) {
	id := c.Param("sessionId")

	sess, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return nil, NewNotFoundError("session", id)
	}

	switch sess.Status {
	case models.SessionStatusComplete:
	case models.SessionStatusError:
		return nil, NewConflictError(fmt.Sprintf("analysis failed: %s", sess.Error))
	default:
		return nil, NewConflictError("analysis still in progress")
	}

	snap, ok := h.sessionMgr.Snapshot(id)
	if !ok {
		return nil, NewNotFoundError("session", id)
	}

	h.sessionMgr.TouchSession(id)
	return snap, nil
}

// HandleGetLanes returns per-lane statistics for all resolved lanes, in
// priority rank order.
func (h *StatsHandlerImpl) HandleGetLanes(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}

	lanes := make([]*models.LaneStat, 0, len(snap.Lanes))
	for _, laneID := range snap.Lanes {
		if ls := snap.LaneStats[laneID]; ls != nil {
			lanes = append(lanes, ls)
		}
	}

	return c.JSON(http.StatusOK, laneListResponse{
		Lanes:           lanes,
		RecordCount:     snap.RecordCount,
		UnrankedRecords: snap.UnrankedRecords,
	})
}

// HandleGetLane returns statistics for a single lane.
func (h *StatsHandlerImpl) HandleGetLane(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}

	laneID := c.Param("laneId")
	ls, ok := snap.LaneStats[laneID]
	if !ok {
		return NewNotFoundError("lane", laneID)
	}

	return c.JSON(http.StatusOK, ls)
}

// HandleGetCarriers returns cross-lane carrier summaries, sorted fastest
// first.
func (h *StatsHandlerImpl) HandleGetCarriers(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, snap.Carriers)
}

// HandleGetRankings returns the fastest/most-reliable/most-consistent
// carrier rankings.
func (h *StatsHandlerImpl) HandleGetRankings(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, snap.Rankings)
}

// HandleExport renders the session's statistics as an XLSX workbook.
func (h *StatsHandlerImpl) HandleExport(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}

	f, err := export.BuildWorkbook(snap)
	if err != nil {
		return NewInternalError("failed to build workbook", err)
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="lane-pulse-export.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)

	return f.Write(c.Response())
}

// Response types

type laneListResponse struct {
	Lanes           []*models.LaneStat `json:"lanes"`
	RecordCount     int                `json:"recordCount"`
	UnrankedRecords int                `json:"unrankedRecords"`
}
