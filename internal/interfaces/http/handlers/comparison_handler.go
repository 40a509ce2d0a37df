package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/comparison"
	"github.com/turtacn/AgriMat-Platform/internal/application/reporting"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
)

// ComparisonHandler serves the session's comparison selection, its table and
// scores, and the comparison exports.
type ComparisonHandler struct {
	comparison   *comparison.Service
	reports      *reporting.Service
	maxSelection int
	logger       logging.Logger
}

func NewComparisonHandler(cmp *comparison.Service, reports *reporting.Service, maxSelection int, logger logging.Logger) *ComparisonHandler {
	return &ComparisonHandler{comparison: cmp, reports: reports, maxSelection: maxSelection, logger: logger}
}

func (h *ComparisonHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/comparison", h.Current)
	rg.DELETE("/comparison", h.Clear)
	rg.POST("/comparison/items", h.Add)
	rg.PUT("/comparison/items", h.Replace)
	rg.POST("/comparison/items/:id/toggle", h.Toggle)
	rg.DELETE("/comparison/items/:id", h.Remove)
	rg.GET("/comparison/export.xlsx", h.ExportWorkbook)
	rg.GET("/comparison/report.txt", h.ExportReport)
}

// AddItemRequest is the body of POST /comparison/items.
type AddItemRequest struct {
	MaterialID string `json:"materialId" binding:"required"`
}

// ReplaceItemsRequest is the body of PUT /comparison/items.
type ReplaceItemsRequest struct {
	MaterialIDs []string `json:"materialIds"`
}

// Current handles GET /api/v1/comparison. With ?ids=A,B the view is computed
// for those ids and the session is left alone.
func (h *ComparisonHandler) Current(c *gin.Context) {
	h.respond(c, func(ctx context.Context) (*comparison.View, error) {
		return h.resolve(c)
	})
}

// Add handles POST /api/v1/comparison/items. A full selection answers 422
// with the limit notice as message.
func (h *ComparisonHandler) Add(c *gin.Context) {
	var req AddItemRequest
	if err := bindJSON(c, &req); err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	h.respond(c, func(ctx context.Context) (*comparison.View, error) {
		return h.comparison.Add(ctx, sessionID(c), req.MaterialID)
	})
}

// Replace handles PUT /api/v1/comparison/items.
func (h *ComparisonHandler) Replace(c *gin.Context) {
	var req ReplaceItemsRequest
	if err := bindJSON(c, &req); err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	h.respond(c, func(ctx context.Context) (*comparison.View, error) {
		return h.comparison.Replace(ctx, sessionID(c), req.MaterialIDs)
	})
}

// Toggle handles POST /api/v1/comparison/items/:id/toggle.
func (h *ComparisonHandler) Toggle(c *gin.Context) {
	h.respond(c, func(ctx context.Context) (*comparison.View, error) {
		return h.comparison.Toggle(ctx, sessionID(c), c.Param("id"))
	})
}

// Remove handles DELETE /api/v1/comparison/items/:id.
func (h *ComparisonHandler) Remove(c *gin.Context) {
	h.respond(c, func(ctx context.Context) (*comparison.View, error) {
		return h.comparison.Remove(ctx, sessionID(c), c.Param("id"))
	})
}

// Clear handles DELETE /api/v1/comparison.
func (h *ComparisonHandler) Clear(c *gin.Context) {
	h.respond(c, func(ctx context.Context) (*comparison.View, error) {
		return h.comparison.Clear(ctx, sessionID(c))
	})
}

// ExportWorkbook handles GET /api/v1/comparison/export.xlsx.
func (h *ComparisonHandler) ExportWorkbook(c *gin.Context) {
	h.export(c, h.reports.ComparisonWorkbook)
}

// ExportReport handles GET /api/v1/comparison/report.txt.
func (h *ComparisonHandler) ExportReport(c *gin.Context) {
	h.export(c, h.reports.ComparisonReport)
}

func (h *ComparisonHandler) export(c *gin.Context, render func(context.Context, *comparison.View) (*reporting.Artifact, error)) {
	view, err := h.resolve(c)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	a, err := render(c.Request.Context(), view)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	sendArtifact(c, a)
}

// resolve returns the view of ?ids= when given, else of the session.
func (h *ComparisonHandler) resolve(c *gin.Context) (*comparison.View, error) {
	if raw, ok := c.GetQuery("ids"); ok {
		return h.comparison.Compare(c.Request.Context(), splitIDs(raw), h.maxSelection)
	}
	return h.comparison.Current(c.Request.Context(), sessionID(c))
}

func (h *ComparisonHandler) respond(c *gin.Context, fn func(context.Context) (*comparison.View, error)) {
	view, err := fn(c.Request.Context())
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
