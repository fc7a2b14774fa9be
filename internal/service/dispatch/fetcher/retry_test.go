package fetcher_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/internal/service/dispatch/fetcher"
)

// stubFetcher records invocations and serves canned responses in order.
type stubFetcher struct {
	calls   atomic.Int32
	doFuncs []func(req *http.Request) (*http.Response, error)
}

func (s *stubFetcher) Do(req *http.Request) (*http.Response, error) {
	n := int(s.calls.Add(1)) - 1
	if n >= len(s.doFuncs) {
		n = len(s.doFuncs) - 1
	}
	return s.doFuncs[n](req)
}

func newResponse(statusCode int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newRequest(t *testing.T, ctx context.Context, method string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, method, "http://upstream.example.com/hook", nil)
	require.NoError(t, err)
	return req
}

func TestRetryFetcher_Do(t *testing.T) {
	t.Parallel()

	t.Run("returns first successful response", func(t *testing.T) {
		t.Parallel()

		stub := &stubFetcher{doFuncs: []func(*http.Request) (*http.Response, error){
			func(*http.Request) (*http.Response, error) { return newResponse(http.StatusOK, nil, "ok"), nil },
		}}

		f := fetcher.NewRetryFetcher(stub, 3, time.Second, 0)

		resp, err := f.Do(newRequest(t, context.Background(), http.MethodGet))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(1), stub.calls.Load())
	})

	t.Run("post is never retried", func(t *testing.T) {
		t.Parallel()

		stub := &stubFetcher{doFuncs: []func(*http.Request) (*http.Response, error){
			func(*http.Request) (*http.Response, error) {
				return newResponse(http.StatusInternalServerError, nil, "boom"), nil
			},
		}}

		f := fetcher.NewRetryFetcher(stub, 3, time.Second, 0)

		_, err := f.Do(newRequest(t, context.Background(), http.MethodPost))
		require.Error(t, err)

		var statusErr *fetcher.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))

		assert.Equal(t, int32(1), stub.calls.Load(), "non-idempotent request must hit the transport exactly once")
	})

	t.Run("get is retried after server error", func(t *testing.T) {
		t.Parallel()

		// Retry-After: 0 keeps the test fast by skipping the backoff wait.
		retryNow := http.Header{"Retry-After": []string{"0"}}

		stub := &stubFetcher{doFuncs: []func(*http.Request) (*http.Response, error){
			func(*http.Request) (*http.Response, error) {
				return newResponse(http.StatusServiceUnavailable, retryNow, "busy"), nil
			},
			func(*http.Request) (*http.Response, error) { return newResponse(http.StatusOK, nil, "ok"), nil },
		}}

		f := fetcher.NewRetryFetcher(stub, 3, time.Second, 0)

		resp, err := f.Do(newRequest(t, context.Background(), http.MethodGet))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), stub.calls.Load())
	})

	t.Run("retries are exhausted", func(t *testing.T) {
		t.Parallel()

		retryNow := http.Header{"Retry-After": []string{"0"}}

		stub := &stubFetcher{doFuncs: []func(*http.Request) (*http.Response, error){
			func(*http.Request) (*http.Response, error) {
				return newResponse(http.StatusBadGateway, retryNow, "bad gateway"), nil
			},
		}}

		f := fetcher.NewRetryFetcher(stub, 1, time.Second, 0)

		_, err := f.Do(newRequest(t, context.Background(), http.MethodGet))
		require.Error(t, err)

		var statusErr *fetcher.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.ErrorIs(t, err, fetcher.ErrMaxRetriesExceeded)

		assert.Equal(t, int32(2), stub.calls.Load())
	})

	t.Run("excessive retry after aborts immediately", func(t *testing.T) {
		t.Parallel()

		stub := &stubFetcher{doFuncs: []func(*http.Request) (*http.Response, error){
			func(*http.Request) (*http.Response, error) {
				return newResponse(http.StatusServiceUnavailable, http.Header{"Retry-After": []string{"3600"}}, "busy"), nil
			},
		}}

		f := fetcher.NewRetryFetcher(stub, 3, time.Second, 2*time.Second)

		start := time.Now()
		_, err := f.Do(newRequest(t, context.Background(), http.MethodGet))
		require.Error(t, err)

		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, int32(1), stub.calls.Load())
	})

	t.Run("context cancellation stops the backoff wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)

		stub := &stubFetcher{doFuncs: []func(*http.Request) (*http.Response, error){
			func(*http.Request) (*http.Response, error) {
				// A long Retry-After forces the fetcher into its wait state.
				return newResponse(http.StatusServiceUnavailable, http.Header{"Retry-After": []string{"30"}}, "busy"), nil
			},
		}}

		f := fetcher.NewRetryFetcher(stub, 3, time.Second, time.Minute)

		start := time.Now()
		_, err := f.Do(newRequest(t, ctx, http.MethodGet))
		require.Error(t, err)

		assert.True(t, errors.Is(err, context.Canceled))
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, int32(1), stub.calls.Load())
	})

	t.Run("non retriable error is returned as is", func(t *testing.T) {
		t.Parallel()

		inputErr := apperrors.New(apperrors.InvalidInput, "rejected")

		stub := &stubFetcher{doFuncs: []func(*http.Request) (*http.Response, error){
			func(*http.Request) (*http.Response, error) { return nil, inputErr },
		}}

		f := fetcher.NewRetryFetcher(stub, 3, time.Second, 0)

		_, err := f.Do(newRequest(t, context.Background(), http.MethodGet))
		require.Error(t, err)

		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		assert.Equal(t, int32(1), stub.calls.Load())
	})
}
