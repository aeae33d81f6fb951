package acl

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozend/earnings-proxy/internal/adapters/clients"
	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/platform/config"
)

// testConfig returns a minimal config for testing.
func testConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "test-service",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

// --- Error Mapping Tests ---

func TestMapHTTPError_NotFound(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"code":"NOT_FOUND","message":"no data"}}`)),
	}

	err := MapHTTPError(resp, nil, "transcript-provider", "fetch transcript")

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "expected NotFoundError")
}

func TestMapHTTPError_ValidationWithDetails(t *testing.T) {
	body := `{
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "validation failed",
			"details": {
				"symbol": "invalid format"
			}
		}
	}`
	resp := &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(strings.NewReader(body)),
	}

	err := MapHTTPError(resp, nil, "transcript-provider", "fetch transcript")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err), "expected ValidationError")

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "symbol", validationErr.Field)
}

func TestMapHTTPError_TooManyRequests(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}

	err := MapHTTPError(resp, nil, "transcript-provider", "fetch transcript")

	require.Error(t, err)
	assert.True(t, domain.IsProviderThrottled(err), "expected soft failure for 429")
}

func TestMapHTTPError_ServerError(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Body:       io.NopCloser(strings.NewReader(`{"message":"maintenance window"}`)),
	}

	err := MapHTTPError(resp, nil, "transcript-provider", "fetch transcript")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err), "expected UnavailableError")
	assert.Contains(t, err.Error(), "maintenance window")
}

func TestMapHTTPError_ClientErrors(t *testing.T) {
	tests := []struct {
		name      string
		clientErr error
	}{
		{"circuit open", clients.ErrCircuitOpen},
		{"retries exhausted", clients.ErrMaxRetriesExceeded},
		{"transport failure", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(nil, tt.clientErr, "transcript-provider", "fetch transcript")

			require.Error(t, err)
			assert.True(t, domain.IsUnavailable(err), "expected UnavailableError")
		})
	}
}

func TestMapHTTPError_NilResponse(t *testing.T) {
	err := MapHTTPError(nil, nil, "transcript-provider", "fetch transcript")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

// --- ParseErrorResponse Tests ---

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantNil     bool
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nested format",
			body:        `{"error":{"code":"RATE_LIMIT","message":"slow down"}}`,
			wantCode:    "RATE_LIMIT",
			wantMessage: "slow down",
		},
		{
			name:        "flat format",
			body:        `{"code":"RATE_LIMIT","message":"slow down"}`,
			wantCode:    "RATE_LIMIT",
			wantMessage: "slow down",
		},
		{
			name:    "empty object",
			body:    `{}`,
			wantNil: true,
		},
		{
			name:    "not json",
			body:    `<html>nope</html>`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseErrorResponse(strings.NewReader(tt.body))

			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.GetCode())
			assert.Equal(t, tt.wantMessage, got.GetMessage())
		})
	}
}

// --- BaseAdapter Tests ---

func TestBaseAdapter_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	adapter := NewBaseAdapter(client, "test-service")

	body, err := adapter.Get(context.Background(), "/resource", "get resource")
	require.NoError(t, err)

	decoded, err := DecodeResponse[map[string]string](body)
	require.NoError(t, err)
	assert.Equal(t, "ok", (*decoded)["value"])
}

func TestBaseAdapter_Get_MapsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no such resource"}`))
	}))
	defer server.Close()

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	adapter := NewBaseAdapter(client, "test-service")

	_, err = adapter.Get(context.Background(), "/missing", "get resource")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestDecodeResponse_NilBody(t *testing.T) {
	_, err := DecodeResponse[map[string]any](nil)
	require.Error(t, err)
}

func TestDecodeResponse_InvalidJSON(t *testing.T) {
	body := io.NopCloser(strings.NewReader("not json"))

	_, err := DecodeResponse[map[string]any](body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}
