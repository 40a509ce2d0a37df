package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// HeaderExportURL carries the presigned download link of an archived export.
const HeaderExportURL = "X-Export-URL"

// Recovery turns a panic into a 500 with the standard error body.
func Recovery(logger logging.Logger, metrics *prometheus.AppMetrics) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.String("request_id", GetRequestID(c)),
			logging.String("panic", fmt.Sprint(recovered)))
		metrics.RecordError("http", "panic")
		abort(c, http.StatusInternalServerError, errors.ErrCodeInternal, errors.DefaultMessageForCode(errors.ErrCodeInternal))
	})
}

func abort(c *gin.Context, status int, code errors.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, common.ErrorResponse{Code: code.String(), Message: message})
}
