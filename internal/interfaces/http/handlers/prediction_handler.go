package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/prediction"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/intelligence/estimator"
)

// PredictionHandler serves the AI performance estimate.
type PredictionHandler struct {
	predictions *prediction.Service
	logger      logging.Logger
}

func NewPredictionHandler(svc *prediction.Service, logger logging.Logger) *PredictionHandler {
	return &PredictionHandler{predictions: svc, logger: logger}
}

// RegisterRoutes registers the form options and, behind limit, the estimate
// itself.
func (h *PredictionHandler) RegisterRoutes(rg *gin.RouterGroup, limit ...gin.HandlerFunc) {
	rg.GET("/predictions/options", h.Options)
	rg.POST("/predictions", append(limit, h.Predict)...)
}

// OptionsResponse lists the prediction form choices.
type OptionsResponse struct {
	MaterialTypes []string `json:"materialTypes"`
	Environments  []string `json:"environments"`
}

func (h *PredictionHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		MaterialTypes: estimator.MaterialTypes,
		Environments:  estimator.Environments,
	})
}

// Predict handles POST /api/v1/predictions. Anonymous sessions get 401 with
// the login prompt; backend failures still answer 200 with the fallback.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req estimator.Request
	if err := bindJSON(c, &req); err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	res, err := h.predictions.Predict(c.Request.Context(), sessionID(c), req)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
