// Package handlers implements the gin handlers of the /api/v1 surface.
package handlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/turtacn/AgriMat-Platform/internal/application/reporting"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/interfaces/http/middleware"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// sessionID returns the id resolved by the session middleware.
func sessionID(c *gin.Context) string {
	return middleware.GetSessionID(c)
}

// parsePagination reads page and page_size. Missing values are zero and
// normalized by the service; non-numeric values are rejected.
func parsePagination(c *gin.Context) (common.PageRequest, error) {
	var req common.PageRequest
	params := []struct {
		name string
		dst  *int
	}{{"page", &req.Page}, {"page_size", &req.PageSize}}
	for _, p := range params {
		name, dst := p.name, p.dst
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := cast.ToIntE(raw)
		if err != nil || n < 0 {
			return req, errors.InvalidParam("invalid " + name).WithDetail(raw)
		}
		*dst = n
	}
	return req, nil
}

// bindJSON decodes the request body into dst.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.InvalidParam("invalid request body").WithDetail(err.Error())
	}
	return nil
}

// writeAppError maps err to its HTTP status. Client errors keep their message
// and detail; server errors are logged and masked.
func writeAppError(c *gin.Context, logger logging.Logger, err error) {
	_ = c.Error(err)

	var ae *errors.AppError
	if !errors.As(err, &ae) {
		logger.Error("unhandled error",
			logging.String("path", c.FullPath()),
			logging.String("request_id", middleware.GetRequestID(c)),
			logging.Err(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	status := errors.HTTPStatusForCode(ae.Code)
	resp := common.ErrorResponse{Code: ae.Code.String(), Message: ae.Message, Detail: ae.Detail}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			logging.String("path", c.FullPath()),
			logging.String("code", ae.Code.String()),
			logging.String("request_id", middleware.GetRequestID(c)),
			logging.Err(err))
		resp.Message = errors.DefaultMessageForCode(ae.Code)
		resp.Detail = ""
	}
	c.AbortWithStatusJSON(status, resp)
}

// sendArtifact streams an export as an attachment. An archived export also
// carries its presigned URL.
func sendArtifact(c *gin.Context, a *reporting.Artifact) {
	c.Header("Content-Disposition", contentDisposition(a.Filename))
	if a.Archive != nil && a.Archive.URL != "" {
		c.Header(middleware.HeaderExportURL, a.Archive.URL)
	}
	c.Data(http.StatusOK, a.ContentType, a.Data)
}

func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return `attachment; filename="` + strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename) + `"`
}
