// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNoTranscript, ErrUnavailable, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/ozend/earnings-proxy/internal/domain"
)

// TranscriptProvider is the primary transcript data source, queried by
// ticker and quarter.
type TranscriptProvider interface {
	// FetchTranscript issues one provider call and returns the raw payload.
	// The payload shape is not normalized at this layer.
	// Returns domain.ErrProviderThrottled when the provider embeds a
	// soft-failure marker in an otherwise successful response, and
	// domain.ErrUnavailable for transport-level failures.
	FetchTranscript(ctx context.Context, ticker, quarter string) (domain.ProviderPayload, error)
}

// FallbackLocator finds the downloadable transcript document for a
// quarter on the investor-relations listing page.
type FallbackLocator interface {
	// LocateDocument returns the absolute document URL and true, or
	// ("", false) when no candidate on the page yields a link. A quarter
	// string that fails the YYYYQ[1-4] pattern returns ("", false)
	// without any network call.
	LocateDocument(ctx context.Context, ticker, quarter string) (string, bool, error)
}

// DocumentFetcher downloads a located document and extracts its plain text.
type DocumentFetcher interface {
	// FetchText downloads the document at url and returns its trimmed
	// text. Extraction yielding nothing returns "" with a nil error;
	// a non-success HTTP status returns domain.ErrDownloadFailed.
	FetchText(ctx context.Context, url string) (string, error)
}

// FallbackEligibility decides whether a ticker is enrolled in fallback
// coverage. Implementations must be safe for concurrent use.
type FallbackEligibility interface {
	// Eligible reports whether the fallback path may be attempted for ticker.
	Eligible(ticker string) bool
}

// EligibilityFunc adapts a plain predicate to FallbackEligibility.
type EligibilityFunc func(ticker string) bool

// Eligible implements FallbackEligibility.
func (f EligibilityFunc) Eligible(ticker string) bool {
	return f(ticker)
}

// Summarizer turns resolved transcript text into a validated structured summary.
type Summarizer interface {
	// Summarize produces a CallSummary for the request from the resolved
	// transcript. Output failing schema validation returns
	// domain.ErrUnavailable, never a partially-populated summary.
	Summarize(ctx context.Context, req domain.TranscriptRequest, transcript domain.ResolvedTranscript) (*domain.CallSummary, error)
}

// Cache defines the contract for caching operations.
// Implementations may use Redis, Memcached, or in-memory caches.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
