package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeRateLimited        ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Aliases used by call sites that prefer the short form.
const (
	CodeUnknown      = ErrorCode("")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
)

// Catalog Module Error Codes
const (
	ErrCodeMaterialNotFound   ErrorCode = "CATALOG_001"
	ErrCodeEquipmentNotFound  ErrorCode = "CATALOG_002"
	ErrCodeExperimentNotFound ErrorCode = "CATALOG_003"
	ErrCodeSimulationNotFound ErrorCode = "CATALOG_004"
	ErrCodeCaseStudyNotFound  ErrorCode = "CATALOG_005"
	ErrCodeCatalogInvalid     ErrorCode = "CATALOG_006"
)

// Comparison Module Error Codes
const (
	ErrCodeInvalidSelection ErrorCode = "SELECTION_001"
	ErrCodeSessionNotFound  ErrorCode = "SELECTION_002"
)

// Prediction Module Error Codes
const (
	ErrCodePredictionFailed ErrorCode = "PREDICTION_001"
	ErrCodePredictionParse  ErrorCode = "PREDICTION_002"
)

// Export Module Error Codes
const (
	ErrCodeExportFailed  ErrorCode = "EXPORT_001"
	ErrCodeArchiveFailed ErrorCode = "EXPORT_002"
)

var codeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusServiceUnavailable,

	ErrCodeMaterialNotFound:   http.StatusNotFound,
	ErrCodeEquipmentNotFound:  http.StatusNotFound,
	ErrCodeExperimentNotFound: http.StatusNotFound,
	ErrCodeSimulationNotFound: http.StatusNotFound,
	ErrCodeCaseStudyNotFound:  http.StatusNotFound,
	ErrCodeCatalogInvalid:     http.StatusInternalServerError,

	ErrCodeInvalidSelection: http.StatusUnprocessableEntity,
	ErrCodeSessionNotFound:  http.StatusNotFound,

	ErrCodePredictionFailed: http.StatusBadGateway,
	ErrCodePredictionParse:  http.StatusBadGateway,

	ErrCodeExportFailed:  http.StatusInternalServerError,
	ErrCodeArchiveFailed: http.StatusBadGateway,
}

var codeMessages = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "login required",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeValidation:         "validation failed",
	ErrCodeRateLimited:        "too many requests",
	ErrCodeMaterialNotFound:   "material not found",
	ErrCodeEquipmentNotFound:  "equipment not found",
	ErrCodeExperimentNotFound: "experiment not found",
	ErrCodeSimulationNotFound: "simulation not found",
	ErrCodeCaseStudyNotFound:  "case study not found",
	ErrCodeInvalidSelection:   "invalid comparison selection",
	ErrCodeSessionNotFound:    "session not found",
	ErrCodePredictionFailed:   "performance prediction failed",
	ErrCodeExportFailed:       "export failed",
}

// HTTPStatusForCode maps an error code to an HTTP status. Unknown codes map to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if s, ok := codeHTTPStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the canned message for code, or "unknown error".
func DefaultMessageForCode(code ErrorCode) string {
	if m, ok := codeMessages[code]; ok {
		return m
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	s := HTTPStatusForCode(code)
	return s >= 400 && s < 500
}

// ModuleForCode returns the module prefix of code, e.g. "CATALOG" for "CATALOG_001".
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return ""
}
