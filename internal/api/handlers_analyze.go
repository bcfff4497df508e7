// handlers_analyze.go - Analysis session lifecycle handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lane-pulse/backend/internal/models"
	"github.com/lane-pulse/backend/internal/storage"
)

// AnalyzeHandlerImpl implements the AnalyzeHandler interface
type AnalyzeHandlerImpl struct {
	store      storage.Store
	sessionMgr SessionManager
}

// NewAnalyzeHandler creates a new analyze handler instance
func NewAnalyzeHandler(store storage.Store, sessionMgr SessionManager) AnalyzeHandler {
	return &AnalyzeHandlerImpl{
		store:      store,
		sessionMgr: sessionMgr,
	}
}

// HandleStartAnalysis starts a full analysis pass for an uploaded file.
// Returns 202 with the pending session; results are polled separately.
func (h *AnalyzeHandlerImpl) HandleStartAnalysis(c echo.Context) error {
	var req startAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if req.FileID == "" {
		return NewValidationError("fileId")
	}

	info, err := h.store.Get(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	path, err := h.store.GetFilePath(info.ID)
	if err != nil {
		return NewInternalError(fmt.Sprintf("failed to resolve file path for: %s", info.ID), err)
	}

	sess, err := h.sessionMgr.StartAnalysis(info.ID, path)
	if err != nil {
		return NewInternalError("failed to start analysis", err)
	}

	h.store.SetStatus(info.ID, "analyzing")

	return c.JSON(http.StatusAccepted, sess)
}

// HandleAnalysisStatus returns the status of an analysis session.
func (h *AnalyzeHandlerImpl) HandleAnalysisStatus(c echo.Context) error {
	id := c.Param("sessionId")
	sess, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	// Touch session to prevent cleanup while being viewed
	h.sessionMgr.TouchSession(id)
	return c.JSON(http.StatusOK, sess)
}

// HandleSessionKeepAlive extends a session's lifetime while a dashboard
// tab stays open on it.
func (h *AnalyzeHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessionMgr.TouchSession(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleProgressStream streams analysis progress via SSE for real-time updates.
func (h *AnalyzeHandlerImpl) HandleProgressStream(c echo.Context) error {
	id := c.Param("sessionId")

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	// Send an error event immediately if the session is unknown
	if _, ok := h.sessionMgr.GetSession(id); !ok {
		data, _ := json.Marshal(map[string]string{"error": "session not found"})
		fmt.Fprintf(c.Response(), "data: %s\n\n", data)
		c.Response().Flush()
		return nil
	}

	// Stream progress updates until analysis completes or errors
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(5 * time.Minute)
	defer timeout.Stop()

	lastProgress := -1.0
	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-timeout.C:
			return nil
		case <-ticker.C:
			sess, ok := h.sessionMgr.GetSession(id)
			if !ok {
				data, _ := json.Marshal(map[string]string{"error": "session not found"})
				fmt.Fprintf(c.Response(), "data: %s\n\n", data)
				c.Response().Flush()
				return nil
			}

			// Only send update if progress changed
			if sess.Progress != lastProgress {
				lastProgress = sess.Progress

				data, err := json.Marshal(map[string]interface{}{
					"status":       sess.Status,
					"progress":     sess.Progress,
					"recordCount":  sess.RecordCount,
					"droppedCount": sess.DroppedCount,
					"error":        sess.Error,
				})
				if err != nil {
					continue
				}

				fmt.Fprintf(c.Response(), "data: %s\n\n", data)
				c.Response().Flush()
			}

			// Stop if complete or error
			if sess.Status == models.SessionStatusComplete || sess.Status == models.SessionStatusError {
				return nil
			}
		}
	}
}

// Request types

type startAnalysisRequest struct {
	FileID string `json:"fileId"`
}
