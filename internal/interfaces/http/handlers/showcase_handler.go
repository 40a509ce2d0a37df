package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/catalog"
	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
)

// ShowcaseHandler serves experiments, simulation cases and case studies.
type ShowcaseHandler struct {
	catalog *catalog.Service
	logger  logging.Logger
}

func NewShowcaseHandler(cat *catalog.Service, logger logging.Logger) *ShowcaseHandler {
	return &ShowcaseHandler{catalog: cat, logger: logger}
}

func (h *ShowcaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/experiments", h.ListExperiments)
	rg.GET("/experiments/:id", h.GetExperiment)
	rg.GET("/simulations", h.ListSimulations)
	rg.GET("/simulations/:id", h.GetSimulation)
	rg.GET("/cases", h.ListCaseStudies)
	rg.GET("/cases/:id", h.GetCaseStudy)
}

// ListExperiments handles GET /api/v1/experiments?type=&q=. Status counts
// always cover the whole catalog.
func (h *ShowcaseHandler) ListExperiments(c *gin.Context) {
	list := h.catalog.ListExperiments(c.Request.Context(), domain.ExperimentType(c.Query("type")), c.Query("q"))
	if list.Items == nil {
		list.Items = []*domain.Experiment{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShowcaseHandler) GetExperiment(c *gin.Context) {
	exp, err := h.catalog.Experiment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ShowcaseHandler) ListSimulations(c *gin.Context) {
	items := h.catalog.ListSimulations(c.Request.Context())
	if items == nil {
		items = []*domain.SimulationModel{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ShowcaseHandler) GetSimulation(c *gin.Context) {
	sim, err := h.catalog.Simulation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sim)
}

// ListCaseStudies handles GET /api/v1/cases?tag=.
func (h *ShowcaseHandler) ListCaseStudies(c *gin.Context) {
	items := h.catalog.ListCaseStudies(c.Request.Context(), c.Query("tag"))
	if items == nil {
		items = []*domain.CaseStudy{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ShowcaseHandler) GetCaseStudy(c *gin.Context) {
	cs, err := h.catalog.CaseStudy(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}
