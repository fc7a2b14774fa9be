package system_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/notify-relay/internal/pkg/version"
	"github.com/darkkaiser/notify-relay/internal/service/api/handler/system"
	modelsystem "github.com/darkkaiser/notify-relay/internal/service/api/model/system"
)

// stubHealthChecker reports a fixed health state.
type stubHealthChecker struct {
	err error
}

func (s *stubHealthChecker) Health() error {
	return s.err
}

func doSystemRequest(t *testing.T, handler echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))

	return rec
}

func TestHandler_HealthCheckHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		healthChecker system.HealthChecker
		wantStatus    string
		wantDepStatus string
	}{
		{
			name:          "relay service healthy",
			healthChecker: &stubHealthChecker{},
			wantStatus:    "healthy",
			wantDepStatus: "healthy",
		},
		{
			name:          "relay service stopped",
			healthChecker: &stubHealthChecker{err: errors.New("service stopped")},
			wantStatus:    "unhealthy",
			wantDepStatus: "unhealthy",
		},
		{
			name:          "health checker not wired",
			healthChecker: nil,
			wantStatus:    "unhealthy",
			wantDepStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := system.NewHandler(tt.healthChecker, version.Get())
			rec := doSystemRequest(t, h.HealthCheckHandler, "/health")

			require.Equal(t, http.StatusOK, rec.Code)

			var resp modelsystem.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.GreaterOrEqual(t, resp.Uptime, int64(0))

			dep, ok := resp.Dependencies["relay_service"]
			require.True(t, ok)
			assert.Equal(t, tt.wantDepStatus, dep.Status)
			assert.NotEmpty(t, dep.Message)
		})
	}
}

func TestHandler_VersionHandler(t *testing.T) {
	t.Parallel()

	buildInfo := version.Info{
		Version:     "v1.2.3",
		Commit:      "abc1234",
		BuildDate:   "2026-08-01T14:00:00Z",
		BuildNumber: "42",
	}

	h := system.NewHandler(&stubHealthChecker{}, buildInfo)
	rec := doSystemRequest(t, h.VersionHandler, "/version")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp modelsystem.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "v1.2.3", resp.Version)
	assert.Equal(t, "abc1234", resp.Commit)
	assert.Equal(t, "2026-08-01T14:00:00Z", resp.BuildDate)
	assert.Equal(t, "42", resp.BuildNumber)
	assert.Equal(t, runtime.Version(), resp.GoVersion)
}
