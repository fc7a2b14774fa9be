package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/notify-relay/internal/service/api/middleware"
)

func TestValidateContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int // 0 means the request must pass
	}{
		{
			name:        "exact media type",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"conversation":"hello"}`,
		},
		{
			name:        "media type with charset",
			contentType: "application/json; charset=utf-8",
			body:        `{"conversation":"hello"}`,
		},
		{
			name:        "case insensitive media type",
			contentType: "Application/JSON",
			body:        `{"conversation":"hello"}`,
		},
		{
			name: "empty body skips validation",
			body: "",
		},
		{
			name:        "unsupported media type",
			contentType: echo.MIMETextPlain,
			body:        "conversation=hello",
			wantCode:    http.StatusUnsupportedMediaType,
		},
		{
			name:        "missing content type with body",
			contentType: "",
			body:        `{"conversation":"hello"}`,
			wantCode:    http.StatusUnsupportedMediaType,
		},
	}

	validate := middleware.ValidateContentType(echo.MIMEApplicationJSON)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/relay", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := validate(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)

			if tt.wantCode != 0 {
				require.Error(t, err)
				var httpErr *echo.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.wantCode, httpErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
