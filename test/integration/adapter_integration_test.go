//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozend/earnings-proxy/internal/adapters/clients"
	"github.com/ozend/earnings-proxy/internal/adapters/clients/acl"
	"github.com/ozend/earnings-proxy/internal/adapters/clients/ir"
	"github.com/ozend/earnings-proxy/internal/app"
	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/platform/config"
)

// testAdapterConfig returns a config suitable for adapter integration testing.
func testAdapterConfig(serviceName, baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: serviceName,
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 2,
		},
	}
}

func newTranscriptClient(t *testing.T, baseURL string) *acl.TranscriptClient {
	t.Helper()

	client, err := clients.New(testAdapterConfig("transcript-provider", baseURL))
	require.NoError(t, err)

	return acl.NewTranscriptClient(acl.TranscriptClientConfig{
		Client: client,
		APIKey: "integration-key",
	})
}

// TestTranscriptClient_FetchTranscript_Integration verifies the full flow
// of fetching a transcript through the instrumented client stack.
func TestTranscriptClient_FetchTranscript_Integration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "EARNINGS_CALL_TRANSCRIPT", r.URL.Query().Get("function"))
		assert.Equal(t, "OZN", r.URL.Query().Get("symbol"))
		assert.Equal(t, "2024Q1", r.URL.Query().Get("quarter"))
		assert.Equal(t, "integration-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transcript": "Operator: Welcome to the call."}`))
	}))
	defer server.Close()

	adapter := newTranscriptClient(t, server.URL)

	payload, err := adapter.FetchTranscript(context.Background(), "OZN", "2024Q1")

	require.NoError(t, err)
	assert.Equal(t, "Operator: Welcome to the call.", domain.ExtractTranscriptText(payload))
}

// TestTranscriptClient_SoftFailure_Integration verifies that in-band throttle
// markers in 200 responses surface as throttling errors.
func TestTranscriptClient_SoftFailure_Integration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Note": "API call frequency exceeded"}`))
	}))
	defer server.Close()

	adapter := newTranscriptClient(t, server.URL)

	_, err := adapter.FetchTranscript(context.Background(), "OZN", "2024Q1")

	require.Error(t, err)
	assert.True(t, domain.IsProviderThrottled(err), "expected throttling error")

	var softErr *domain.ProviderSoftFailureError
	require.ErrorAs(t, err, &softErr)
	assert.Equal(t, "API call frequency exceeded", softErr.Message)
}

// TestTranscriptClient_HTTPThrottle_Integration verifies that transport-level
// 429 responses map to the same throttling error as in-band markers.
func TestTranscriptClient_HTTPThrottle_Integration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter := newTranscriptClient(t, server.URL)

	_, err := adapter.FetchTranscript(context.Background(), "OZN", "2024Q1")

	require.Error(t, err)
	assert.True(t, domain.IsProviderThrottled(err), "expected throttling error")
}

// TestTranscriptClient_CircuitOpen_Integration verifies that circuit breaker
// open state is correctly mapped to domain UnavailableError.
func TestTranscriptClient_CircuitOpen_Integration(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testAdapterConfig("transcript-provider", server.URL)
	cfg.Retry.MaxAttempts = 1
	cfg.Circuit.MaxFailures = 2

	client, err := clients.New(cfg)
	require.NoError(t, err)

	adapter := acl.NewTranscriptClient(acl.TranscriptClientConfig{Client: client})

	// Trip the circuit breaker
	_, _ = adapter.FetchTranscript(context.Background(), "OZN", "2024Q1")
	_, _ = adapter.FetchTranscript(context.Background(), "OZN", "2024Q2")

	// This call should fail fast with circuit open
	callsBefore := atomic.LoadInt32(&calls)
	_, err = adapter.FetchTranscript(context.Background(), "OZN", "2024Q3")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err), "expected UnavailableError")
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, callsBefore, atomic.LoadInt32(&calls), "no server call when circuit is open")
}

// TestResolver_FallbackPipeline_Integration runs the resolver against live
// httptest servers for both the provider and the investor-relations site.
func TestResolver_FallbackPipeline_Integration(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer provider.Close()

	mux := http.NewServeMux()
	irSite := httptest.NewServer(mux)
	defer irSite.Close()

	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<section><h2>2024</h2>
				<ul>
					<li><div>Q1</div><div>Transcript: <a href="/docs/q1.pdf">PDF</a></div></li>
				</ul>
			</section>
		</body></html>`))
	})
	mux.HandleFunc("/docs/q1.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	providerHTTP, err := clients.New(testAdapterConfig("transcript-provider", provider.URL))
	require.NoError(t, err)

	irHTTP, err := clients.New(testAdapterConfig("ir-site", irSite.URL))
	require.NoError(t, err)

	resolver := app.NewResolver(app.ResolverConfig{
		Provider: acl.NewTranscriptClient(acl.TranscriptClientConfig{Client: providerHTTP}),
		Locator: ir.NewPageLocator(ir.LocatorConfig{
			Client:  irHTTP,
			PageURL: irSite.URL + "/events",
		}),
		Fetcher:     ir.NewDocumentClient(ir.FetcherConfig{Client: irHTTP}),
		Eligibility: app.AllowList([]string{"OZN"}),
	})

	// The provider returns no transcript and the located document download
	// fails, so the pipeline surfaces the download failure.
	_, err = resolver.Resolve(context.Background(), domain.NewTranscriptRequest("OZN", "2024Q1"))

	require.Error(t, err)
	assert.True(t, domain.IsDownloadFailed(err), "expected DownloadError")

	var dlErr *domain.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, http.StatusForbidden, dlErr.StatusCode)
	assert.Contains(t, dlErr.URL, "/docs/q1.pdf")
}

// TestResolver_IneligibleTicker_Integration verifies that the IR site is
// never contacted for tickers outside the allow list.
func TestResolver_IneligibleTicker_Integration(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer provider.Close()

	var irCalls int32

	irSite := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&irCalls, 1)
	}))
	defer irSite.Close()

	providerHTTP, err := clients.New(testAdapterConfig("transcript-provider", provider.URL))
	require.NoError(t, err)

	irHTTP, err := clients.New(testAdapterConfig("ir-site", irSite.URL))
	require.NoError(t, err)

	resolver := app.NewResolver(app.ResolverConfig{
		Provider: acl.NewTranscriptClient(acl.TranscriptClientConfig{Client: providerHTTP}),
		Locator: ir.NewPageLocator(ir.LocatorConfig{
			Client:  irHTTP,
			PageURL: irSite.URL + "/events",
		}),
		Fetcher:     ir.NewDocumentClient(ir.FetcherConfig{Client: irHTTP}),
		Eligibility: app.AllowList([]string{"OZN"}),
	})

	_, err = resolver.Resolve(context.Background(), domain.NewTranscriptRequest("OTHER", "2024Q1"))

	require.Error(t, err)
	assert.True(t, domain.IsNoTranscript(err), "expected NoTranscriptError")
	assert.Zero(t, atomic.LoadInt32(&irCalls), "IR site must not be contacted")
}
