package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozend/earnings-proxy/internal/adapters/http/dto"
	"github.com/ozend/earnings-proxy/internal/platform/config"
)

func newAuthRouter(cfg *config.AuthConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequireActionKey(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

func TestRequireActionKey(t *testing.T) {
	t.Parallel()

	cfg := &config.AuthConfig{
		Enabled:    true,
		ActionKeys: []string{"key-one", "key-two"},
	}

	tests := []struct {
		name           string
		header         string
		value          string
		expectedStatus int
	}{
		{
			name:           "accepts first configured key",
			header:         DefaultActionKeyHeader,
			value:          "key-one",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "accepts second configured key",
			header:         DefaultActionKeyHeader,
			value:          "key-two",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejects wrong key",
			header:         DefaultActionKeyHeader,
			value:          "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "rejects missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "rejects key prefix",
			header:         DefaultActionKeyHeader,
			value:          "key-on",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "rejects key with trailing garbage",
			header:         DefaultActionKeyHeader,
			value:          "key-one-extra",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newAuthRouter(cfg)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}

			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireActionKey_UnauthorizedBody(t *testing.T) {
	t.Parallel()

	cfg := &config.AuthConfig{
		Enabled:    true,
		ActionKeys: []string{"secret"},
	}

	router := newAuthRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, dto.ErrorCodeUnauthorized, resp.Error.Code)
	assert.Equal(t, "missing action key", resp.Error.Message)
}

func TestRequireActionKey_CustomHeader(t *testing.T) {
	t.Parallel()

	cfg := &config.AuthConfig{
		Enabled:    true,
		Header:     "x-internal-key",
		ActionKeys: []string{"secret"},
	}

	router := newAuthRouter(cfg)

	t.Run("custom header accepted", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("x-internal-key", "secret")

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("default header ignored when custom configured", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(DefaultActionKeyHeader, "secret")

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireActionKey_Disabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.AuthConfig
	}{
		{
			name: "disabled config passes through",
			cfg:  &config.AuthConfig{Enabled: false, ActionKeys: []string{"secret"}},
		},
		{
			name: "nil config passes through",
			cfg:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newAuthRouter(tt.cfg)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRequireActionKey_HeaderNameCaseInsensitive(t *testing.T) {
	t.Parallel()

	cfg := &config.AuthConfig{
		Enabled:    true,
		ActionKeys: []string{"secret"},
	}

	router := newAuthRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Action-Key", "secret")

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMatchesAnyKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		presented string
		keys      []string
		expected  bool
	}{
		{"match", "a", []string{"a"}, true},
		{"match among several", "b", []string{"a", "b", "c"}, true},
		{"no match", "d", []string{"a", "b"}, false},
		{"empty key list", "a", nil, false},
		{"empty configured key never matches", "", []string{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, matchesAnyKey(tt.presented, tt.keys))
		})
	}
}
