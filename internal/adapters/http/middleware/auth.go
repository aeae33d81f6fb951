package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/ozend/earnings-proxy/internal/adapters/http/dto"
	"github.com/ozend/earnings-proxy/internal/platform/config"
)

// DefaultActionKeyHeader is the header checked when none is configured.
const DefaultActionKeyHeader = "x-action-key"

// RequireActionKey returns middleware that authenticates requests with a
// shared action key header. The configured keys are compared in constant
// time. When auth is disabled in config the middleware is a no-op, which
// keeps local development friction-free.
func RequireActionKey(cfg *config.AuthConfig) gin.HandlerFunc {
	header := DefaultActionKeyHeader
	if cfg != nil && cfg.Header != "" {
		header = cfg.Header
	}

	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		presented := c.GetHeader(header)
		if presented == "" {
			abortWithUnauthorized(c, "missing action key")
			return
		}

		if !matchesAnyKey(presented, cfg.ActionKeys) {
			abortWithUnauthorized(c, "invalid action key")
			return
		}

		c.Next()
	}
}

// matchesAnyKey compares the presented key against each configured key in
// constant time. Every configured key is checked even after a match so the
// comparison count does not leak which key matched.
func matchesAnyKey(presented string, keys []string) bool {
	matched := false

	for _, key := range keys {
		if key == "" {
			continue
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
			matched = true
		}
	}

	return matched
}

// abortWithUnauthorized aborts with a 401 Unauthorized response.
func abortWithUnauthorized(c *gin.Context, message string) {
	errResp := dto.NewErrorResponse(dto.ErrorCodeUnauthorized, message)

	// Add trace ID if available
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		errResp.TraceID = span.SpanContext().TraceID().String()
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, errResp)
}
