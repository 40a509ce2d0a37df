package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"material not found", errors.ErrCodeMaterialNotFound, "material AL-99 not found"},
		{"invalid param", errors.CodeInvalidParam, "page must be positive"},
		{"invalid selection", errors.ErrCodeInvalidSelection, "at most 6 materials"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeMaterialNotFound, "material %s not found", "NI-10")
	assert.Equal(t, "material NI-10 not found", ae.Message)
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("dial tcp: refused")
	ae := errors.Wrap(root, errors.ErrCodeArchiveFailed, "upload export")

	require.NotNil(t, ae)
	assert.Same(t, root, ae.Unwrap())
	assert.True(t, stderrors.Is(ae, root))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	inner := errors.New(errors.ErrCodeInvalidSelection, "full")
	outer := errors.Wrap(inner, errors.CodeUnknown, "add to comparison")

	assert.Equal(t, errors.ErrCodeInvalidSelection, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	inner := errors.New(errors.ErrCodeInvalidSelection, "full")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected")

	assert.Equal(t, errors.CodeInternal, outer.Code)
	assert.True(t, errors.IsInvalidSelection(outer))
}

// ─────────────────────────────────────────────────────────────────────────────
// Error formatting
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithoutDetail(t *testing.T) {
	ae := errors.New(errors.ErrCodeMaterialNotFound, "material not found")
	assert.Equal(t, "[CATALOG_001] material not found", ae.Error())
}

func TestError_FormatWithDetail(t *testing.T) {
	ae := errors.New(errors.ErrCodeMaterialNotFound, "material not found").WithDetail("id=AL-99")
	assert.Equal(t, "[CATALOG_001] material not found: id=AL-99", ae.Error())
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	orig := errors.NotFound("x")
	cp := orig.WithDetail("d")

	assert.Empty(t, orig.Detail)
	assert.Equal(t, "d", cp.Detail)
}

func TestWithDetail_NilReceiverReturnsNil(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("d"))
	assert.Nil(t, ae.WithCause(stderrors.New("c")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsNotFound_CoversDomainCodes(t *testing.T) {
	for _, code := range []errors.ErrorCode{
		errors.CodeNotFound,
		errors.ErrCodeMaterialNotFound,
		errors.ErrCodeEquipmentNotFound,
		errors.ErrCodeExperimentNotFound,
		errors.ErrCodeSimulationNotFound,
		errors.ErrCodeCaseStudyNotFound,
		errors.ErrCodeSessionNotFound,
	} {
		assert.True(t, errors.IsNotFound(errors.New(code, "x")), code)
	}
	assert.False(t, errors.IsNotFound(errors.New(errors.CodeInternal, "x")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestIsCode_ThroughFmtWrap(t *testing.T) {
	ae := errors.InvalidSelection("full")
	wrapped := fmt.Errorf("handler: %w", ae)

	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeInvalidSelection))
	assert.True(t, errors.IsInvalidSelection(wrapped))
	assert.False(t, errors.IsCode(wrapped, errors.CodeInternal))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.ErrorCode("OK"), errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(fmt.Errorf("x: %w", errors.Unauthorized("login"))))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errors.IsValidation(errors.InvalidParam("bad")))
	assert.True(t, errors.IsValidation(errors.New(errors.ErrCodeValidation, "bad")))
	assert.False(t, errors.IsValidation(errors.Internal("boom")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Code tables
// ─────────────────────────────────────────────────────────────────────────────

func TestHTTPStatusForCode(t *testing.T) {
	cases := map[errors.ErrorCode]int{
		errors.ErrCodeMaterialNotFound: http.StatusNotFound,
		errors.ErrCodeInvalidSelection: http.StatusUnprocessableEntity,
		errors.CodeInvalidParam:        http.StatusBadRequest,
		errors.CodeUnauthorized:        http.StatusUnauthorized,
		errors.ErrorCode("NOPE_999"):   http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, errors.HTTPStatusForCode(code), code)
	}
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CATALOG", errors.ModuleForCode(errors.ErrCodeMaterialNotFound))
	assert.Equal(t, "SELECTION", errors.ModuleForCode(errors.ErrCodeInvalidSelection))
	assert.Equal(t, "", errors.ModuleForCode(errors.ErrorCode("plain")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, errors.IsClientError(errors.ErrCodeInvalidSelection))
	assert.False(t, errors.IsClientError(errors.CodeInternal))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "material not found", errors.DefaultMessageForCode(errors.ErrCodeMaterialNotFound))
	assert.Equal(t, "unknown error", errors.DefaultMessageForCode(errors.ErrorCode("X_1")))
}
