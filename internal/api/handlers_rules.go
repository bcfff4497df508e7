// handlers_rules.go - Candidate lane priority list handlers
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lane-pulse/backend/internal/models"
	"github.com/lane-pulse/backend/internal/parser"
)

// RulesHandlerImpl implements the RulesHandler interface
type RulesHandlerImpl struct {
	sessionMgr SessionManager
}

// NewRulesHandler creates a new rules handler instance
func NewRulesHandler(sessionMgr SessionManager) RulesHandler {
	return &RulesHandlerImpl{
		sessionMgr: sessionMgr,
	}
}

// HandleGetLanePriority returns the active candidate lane ranking.
func (h *RulesHandlerImpl) HandleGetLanePriority(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessionMgr.LanePriority())
}

// HandleUpdateLanePriority replaces the candidate lane ranking. Accepts
// either a JSON body or an uploaded YAML file. Only analyses started after
// the update see the new ranking.
func (h *RulesHandlerImpl) HandleUpdateLanePriority(c echo.Context) error {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	var rules *models.LanePriorityRules

	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var req models.LanePriorityRules
		if err := c.Bind(&req); err != nil {
			return NewBadRequestError("invalid JSON body", err)
		}
		rules = &req
	} else {
		file, err := c.FormFile("file")
		if err != nil {
			return NewBadRequestError("no rules file provided", err)
		}
		src, err := file.Open()
		if err != nil {
			return NewInternalError("failed to open uploaded file", err)
		}
		defer src.Close()

		rules, err = parser.ParseLanePriorityFromReader(src)
		if err != nil {
			return NewBadRequestError("invalid lane priority file", err)
		}
	}

	if err := parser.ValidateLanePriority(rules); err != nil {
		return NewBadRequestError("invalid lane priority rules", err)
	}

	h.sessionMgr.SetLanePriority(rules)

	return c.JSON(http.StatusOK, rules)
}
