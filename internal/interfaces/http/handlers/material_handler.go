package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/application/reporting"
	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// MaterialHandler serves the material browser, detail sheets and their
// exports.
type MaterialHandler struct {
	catalog *catalog.Service
	reports *reporting.Service
	logger  logging.Logger
}

func NewMaterialHandler(cat *catalog.Service, reports *reporting.Service, logger logging.Logger) *MaterialHandler {
	return &MaterialHandler{catalog: cat, reports: reports, logger: logger}
}

func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/materials", h.Search)
	rg.GET("/materials/facets", h.Facets)
	rg.GET("/materials/:id", h.Get)
	rg.GET("/materials/:id/export.csv", h.ExportCSV)
	rg.GET("/materials/:id/report.txt", h.ExportReport)
}

// SearchResponse is a page of materials plus the list columns of the
// requested category.
type SearchResponse struct {
	*common.PageResult[*domain.Material]
	Columns []domain.ListColumn `json:"columns,omitempty"`
}

// Search handles GET /api/v1/materials.
//
//	?category=钢材&q=40Cr&f.grade=40Cr,42CrMo&sort=grade&order=desc&page=1&page_size=12
func (h *MaterialHandler) Search(c *gin.Context) {
	page, err := parsePagination(c)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	req := catalog.SearchRequest{
		Category: domain.Category(c.Query("category")),
		Query:    c.Query("q"),
		Filters:  catalog.ParseFilters(c.Request.URL.Query()),
		SortBy:   c.Query("sort"),
		Order:    common.ParseSortOrder(c.Query("order")),
		Page:     page,
	}
	result, err := h.catalog.SearchMaterials(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	resp := SearchResponse{PageResult: result}
	if req.Category != "" {
		_, resp.Columns, _ = h.catalog.Facets(req.Category)
	}
	c.JSON(http.StatusOK, resp)
}

// FacetsResponse lists the filter options of one category.
type FacetsResponse struct {
	Category domain.Category      `json:"category"`
	Facets   []domain.FacetConfig `json:"facets"`
	Columns  []domain.ListColumn  `json:"columns"`
}

// Facets handles GET /api/v1/materials/facets?category=.
func (h *MaterialHandler) Facets(c *gin.Context) {
	category := domain.Category(c.Query("category"))
	facets, columns, err := h.catalog.Facets(category)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, FacetsResponse{Category: category, Facets: facets, Columns: columns})
}

// Get handles GET /api/v1/materials/:id.
func (h *MaterialHandler) Get(c *gin.Context) {
	detail, err := h.catalog.Material(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ExportCSV handles GET /api/v1/materials/:id/export.csv.
func (h *MaterialHandler) ExportCSV(c *gin.Context) {
	a, err := h.reports.MaterialCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	sendArtifact(c, a)
}

// ExportReport handles GET /api/v1/materials/:id/report.txt.
func (h *MaterialHandler) ExportReport(c *gin.Context) {
	a, err := h.reports.MaterialReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	sendArtifact(c, a)
}
