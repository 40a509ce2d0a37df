package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/catalog"
	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
)

// EquipmentHandler serves equipment models and the flattened parts list.
type EquipmentHandler struct {
	catalog *catalog.Service
	logger  logging.Logger
}

func NewEquipmentHandler(cat *catalog.Service, logger logging.Logger) *EquipmentHandler {
	return &EquipmentHandler{catalog: cat, logger: logger}
}

func (h *EquipmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/equipment", h.List)
	rg.GET("/equipment/categories", h.Categories)
	rg.GET("/equipment/:id", h.Get)
	rg.GET("/parts", h.Parts)
}

// EquipmentListResponse wraps the equipment of one (sub)category.
type EquipmentListResponse struct {
	Items []*domain.Equipment `json:"items"`
	Total int                 `json:"total"`
}

// List handles GET /api/v1/equipment?major=&sub=&q=.
func (h *EquipmentHandler) List(c *gin.Context) {
	items := h.catalog.ListEquipment(c.Request.Context(), c.Query("major"), c.Query("sub"), c.Query("q"))
	if items == nil {
		items = []*domain.Equipment{}
	}
	c.JSON(http.StatusOK, EquipmentListResponse{Items: items, Total: len(items)})
}

// Categories handles GET /api/v1/equipment/categories.
func (h *EquipmentHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.catalog.EquipmentCategories()})
}

// Get handles GET /api/v1/equipment/:id.
func (h *EquipmentHandler) Get(c *gin.Context) {
	detail, err := h.catalog.Equipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// PartsResponse is the parts list with the category filter options.
type PartsResponse struct {
	Items      []catalog.PartRow `json:"items"`
	Total      int               `json:"total"`
	Categories []string          `json:"categories"`
}

// Parts handles GET /api/v1/parts?category=&q=.
func (h *EquipmentHandler) Parts(c *gin.Context) {
	rows := h.catalog.ListParts(c.Request.Context(), c.Query("category"), c.Query("q"))
	if rows == nil {
		rows = []catalog.PartRow{}
	}
	c.JSON(http.StatusOK, PartsResponse{Items: rows, Total: len(rows), Categories: h.catalog.PartCategories()})
}
