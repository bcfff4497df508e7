// handlers_records.go - Raw record drill-down handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lane-pulse/backend/internal/models"
	"github.com/lane-pulse/backend/internal/parser"
)

// HandleGetRecords returns one page of raw shipment records for a session,
// optionally filtered by lane and carrier.
func (h *StatsHandlerImpl) HandleGetRecords(c echo.Context) error {
	id := c.Param("sessionId")
	page, pageSize := paginationParams(c)

	q := parser.RecordQuery{
		LaneID:  c.QueryParam("lane"),
		Carrier: c.QueryParam("carrier"),
	}

	records, total, ok := h.sessionMgr.QueryRecords(c.Request().Context(), id, q, page, pageSize)
	if !ok {
		return NewNotFoundError("session", id)
	}
	if records == nil {
		records = []models.ShipmentRecord{}
	}

	return c.JSON(http.StatusOK, recordPageResponse{
		Records:  records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// HandleGetRecordsMsgpack returns the same page in MessagePack format,
// noticeably smaller than JSON for large record tables.
func (h *StatsHandlerImpl) HandleGetRecordsMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	page, pageSize := paginationParams(c)

	q := parser.RecordQuery{
		LaneID:  c.QueryParam("lane"),
		Carrier: c.QueryParam("carrier"),
	}

	records, total, ok := h.sessionMgr.QueryRecords(c.Request().Context(), id, q, page, pageSize)
	if !ok {
		return NewNotFoundError("session", id)
	}

	data, err := msgpack.Marshal(map[string]interface{}{
		"records":  records,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetRecordFacets returns the distinct lanes and carriers present in
// a session's raw records, for filter menus.
func (h *StatsHandlerImpl) HandleGetRecordFacets(c echo.Context) error {
	id := c.Param("sessionId")

	lanes, carriers, ok := h.sessionMgr.RecordFacets(c.Request().Context(), id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	if lanes == nil {
		lanes = []string{}
	}
	if carriers == nil {
		carriers = []string{}
	}

	return c.JSON(http.StatusOK, recordFacetsResponse{
		Lanes:    lanes,
		Carriers: carriers,
	})
}

// paginationParams extracts page/pageSize query parameters with the usual
// defaults. Page size is capped to prevent excessive memory usage.
func paginationParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	return page, pageSize
}

// Response types

type recordPageResponse struct {
	Records  []models.ShipmentRecord `json:"records"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}

type recordFacetsResponse struct {
	Lanes    []string `json:"lanes"`
	Carriers []string `json:"carriers"`
}
