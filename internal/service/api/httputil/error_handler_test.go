package httputil_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/notify-relay/internal/service/api/httputil"
	"github.com/darkkaiser/notify-relay/internal/service/api/model/response"
)

func handleError(t *testing.T, err error, method string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/api/v1/relay", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	httputil.ErrorHandler(err, c)

	return rec
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("http error with structured message", func(t *testing.T) {
		t.Parallel()

		rec := handleError(t, httputil.NewBadRequestError("잘못된 요청입니다"), http.MethodPost)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, http.StatusBadRequest, resp.ResultCode)
		assert.Equal(t, "잘못된 요청입니다", resp.Message)
	})

	t.Run("http error with plain string message", func(t *testing.T) {
		t.Parallel()

		rec := handleError(t, echo.NewHTTPError(http.StatusUnauthorized, "인증 실패"), http.MethodPost)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, http.StatusUnauthorized, resp.ResultCode)
		assert.Equal(t, "인증 실패", resp.Message)
	})

	t.Run("generic error becomes internal server error", func(t *testing.T) {
		t.Parallel()

		rec := handleError(t, errors.New("boom"), http.MethodPost)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, http.StatusInternalServerError, resp.ResultCode)
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("not found message is normalized", func(t *testing.T) {
		t.Parallel()

		rec := handleError(t, echo.NewHTTPError(http.StatusNotFound, "raw internal detail"), http.MethodGet)

		require.Equal(t, http.StatusNotFound, rec.Code)

		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "요청한 리소스를 찾을 수 없습니다", resp.Message)
	})

	t.Run("head request returns no body", func(t *testing.T) {
		t.Parallel()

		rec := handleError(t, httputil.NewNotFoundError("not found"), http.MethodHead)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, c.String(http.StatusOK, "already written"))

	httputil.ErrorHandler(errors.New("boom"), c)

	// The original response must stay untouched.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "already written", rec.Body.String())
}
