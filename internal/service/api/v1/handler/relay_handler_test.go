package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/internal/service/api/auth"
	"github.com/darkkaiser/notify-relay/internal/service/api/model/domain"
	"github.com/darkkaiser/notify-relay/internal/service/api/v1/handler"
	"github.com/darkkaiser/notify-relay/internal/service/api/v1/model/response"
	"github.com/darkkaiser/notify-relay/internal/service/contract"
	"github.com/darkkaiser/notify-relay/internal/service/relay"
)

// stubRelayer records the request passed to Relay and returns canned results.
type stubRelayer struct {
	gotRequest relay.Request
	delivery   *contract.Delivery
	err        error
}

func (s *stubRelayer) Relay(_ context.Context, req relay.Request) (*contract.Delivery, error) {
	s.gotRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return s.delivery, nil
}

func sentDelivery() *contract.Delivery {
	return &contract.Delivery{
		ID:    contract.DeliveryID("0001relaytest1"),
		State: contract.DeliveryStateSent,
		Payload: contract.NotificationPayload{
			Recipient: "devops@company.com",
			Message:   "Urgent: Meeting at 10 AM tomorrow for DevOps",
			Channel:   "email",
			IsDraft:   false,
		},
		Response: map[string]any{"status": "accepted"},
	}
}

// newRelayContext builds an authenticated request context, mirroring the state
// after the authentication middleware has run.
func newRelayContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/relay", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	auth.SetApplication(c, &domain.Application{ID: "my-app", Title: "My App"})

	return c, rec
}

func TestHandler_NewHandler_NilRelayer(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		handler.NewHandler(nil)
	})
}

func TestHandler_RelayHandler_Success(t *testing.T) {
	t.Parallel()

	relayer := &stubRelayer{delivery: sentDelivery()}
	h := handler.NewHandler(relayer)

	c, rec := newRelayContext(t, `{
		"application_id": "my-app",
		"conversation": "Human: Notify DevOps about the urgent meeting tomorrow at 10 AM.",
		"template_id": "default"
	}`)

	require.NoError(t, h.RelayHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response.RelayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "0001relaytest1", resp.DeliveryID)
	assert.Equal(t, "sent", resp.State)
	assert.Equal(t, "devops@company.com", resp.Payload.Recipient)
	assert.Equal(t, "email", resp.Payload.Channel)
	assert.False(t, resp.Payload.IsDraft)
	assert.Equal(t, map[string]any{"status": "accepted"}, resp.Response)

	assert.Equal(t, "Human: Notify DevOps about the urgent meeting tomorrow at 10 AM.", relayer.gotRequest.Conversation)
	assert.Equal(t, "default", relayer.gotRequest.TemplateID)
}

func TestHandler_RelayHandler_ParamsAndDraftForwarded(t *testing.T) {
	t.Parallel()

	relayer := &stubRelayer{delivery: sentDelivery()}
	h := handler.NewHandler(relayer)

	// Numeric params are accepted and converted to strings.
	c, _ := newRelayContext(t, `{
		"conversation": "Deploy tonight",
		"params": {"time": 10, "team": "Platform"},
		"draft": false
	}`)

	require.NoError(t, h.RelayHandler(c))

	assert.Equal(t, map[string]string{"time": "10", "team": "Platform"}, relayer.gotRequest.Params)
	require.NotNil(t, relayer.gotRequest.Draft)
	assert.False(t, *relayer.gotRequest.Draft)
}

func TestHandler_RelayHandler_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "malformed json body",
			body: `{"conversation":`,
		},
		{
			name: "missing conversation",
			body: `{"template_id":"default"}`,
		},
		{
			name: "conversation too long",
			body: `{"conversation":"` + strings.Repeat("a", 8193) + `"}`,
		},
		{
			name: "application id mismatch",
			body: `{"application_id":"another-app","conversation":"hello"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			relayer := &stubRelayer{delivery: sentDelivery()}
			h := handler.NewHandler(relayer)

			c, _ := newRelayContext(t, tt.body)

			err := h.RelayHandler(c)
			require.Error(t, err)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)

			// The relayer must not be called for rejected requests.
			assert.Empty(t, relayer.gotRequest.Conversation)
		})
	}
}

func TestHandler_RelayHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		relayErr error
		wantCode int
	}{
		{
			name:     "relay service stopped",
			relayErr: contract.ErrServiceStopped,
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "template not found",
			relayErr: apperrors.New(apperrors.NotFound, "템플릿('missing')을 찾을 수 없습니다"),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "rendering failed",
			relayErr: apperrors.New(apperrors.InvalidInput, "플레이스홀더('time')에 대응하는 값이 없습니다"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "endpoint unavailable",
			relayErr: apperrors.New(apperrors.Unavailable, "알림 엔드포인트 요청에 실패했습니다"),
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "unexpected internal error",
			relayErr: apperrors.New(apperrors.Internal, "알 수 없는 오류"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handler.NewHandler(&stubRelayer{err: tt.relayErr})

			c, _ := newRelayContext(t, `{"conversation":"hello"}`)

			err := h.RelayHandler(c)
			require.Error(t, err)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	err := handler.ValidateRequest(struct {
		Conversation string `validate:"required" korean:"대화 내용"`
	}{})
	require.Error(t, err)

	assert.Equal(t, "대화 내용는 필수입니다", handler.FormatValidationError(err))
	assert.Empty(t, handler.FormatValidationError(nil))
}
