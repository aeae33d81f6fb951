package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ozend/earnings-proxy/internal/adapters/clients"
	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/platform/logging"
)

// defaultTranscriptFunction is the provider's function identifier for
// call-transcript retrieval.
const defaultTranscriptFunction = "EARNINGS_CALL_TRANSCRIPT"

// softFailureKeys are the top-level fields the provider uses to embed
// errors and throttling notices inside HTTP-200 bodies. Their presence
// means "call failed", not "no data". Keys are compared case-insensitively
// because the provider's casing has been observed to drift.
var softFailureKeys = []string{"note", "information", "error", "error message"}

// TranscriptClientConfig contains configuration for the transcript provider client.
type TranscriptClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the provider endpoint.
	Client *clients.Client

	// APIKey authenticates the provider query.
	APIKey string

	// Function overrides the provider function identifier. Defaults to
	// the call-transcript function when empty.
	Function string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// TranscriptClient implements ports.TranscriptProvider against the
// provider's query-parameter API. The provider's response schema is
// treated as unstable: the body is decoded into an untyped payload and
// only soft-failure markers are interpreted here.
type TranscriptClient struct {
	BaseAdapter
	apiKey   string
	function string
	logger   *slog.Logger
}

// NewTranscriptClient creates a new provider client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewTranscriptClient(cfg TranscriptClientConfig) *TranscriptClient {
	if cfg.Client == nil {
		panic("TranscriptClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	function := cfg.Function
	if function == "" {
		function = defaultTranscriptFunction
	}

	return &TranscriptClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, "transcript-provider"),
		apiKey:      cfg.APIKey,
		function:    function,
		logger:      logger,
	}
}

// FetchTranscript fetches the raw transcript payload for a ticker/quarter.
// Implements ports.TranscriptProvider.
func (c *TranscriptClient) FetchTranscript(ctx context.Context, ticker, quarter string) (domain.ProviderPayload, error) {
	query := url.Values{}
	query.Set("function", c.function)
	query.Set("symbol", ticker)
	query.Set("quarter", quarter)
	query.Set("apikey", c.apiKey)

	path := "/query?" + query.Encode()

	c.logger.Log(ctx, logging.LevelTrace, "starting provider request",
		slog.String("ticker", ticker),
		slog.String("quarter", quarter))

	body, err := c.Get(ctx, path, "fetch transcript")
	if err != nil {
		return nil, err // Already a domain error
	}

	payload, err := DecodeResponse[map[string]any](body)
	if err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	// Soft-failure markers take priority over any transcript fields that
	// may also be present in the same body.
	if key, msg, ok := softFailure(*payload); ok {
		c.logger.WarnContext(ctx, "provider soft failure",
			slog.String("ticker", ticker),
			slog.String("quarter", quarter),
			slog.String("marker", key),
		)

		return nil, domain.NewProviderSoftFailureError(c.ServiceName(), msg)
	}

	return domain.ProviderPayload(*payload), nil
}

// softFailure scans the payload's top-level keys for the provider's
// in-band failure markers. Returns the matched key, its message, and
// whether a marker was found.
func softFailure(payload map[string]any) (string, string, bool) {
	for key, value := range payload {
		normalized := strings.ToLower(strings.TrimSpace(key))

		for _, marker := range softFailureKeys {
			if normalized != marker {
				continue
			}

			msg, _ := value.(string)
			if msg == "" {
				msg = fmt.Sprintf("provider returned %q marker", key)
			}

			return key, msg, true
		}
	}

	return "", "", false
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *TranscriptClient) Name() string {
	return c.ServiceName()
}

// Check performs a health check by verifying the provider endpoint answers.
// Any response below 500 counts as reachable; a full transcript query is
// deliberately avoided to preserve the provider quota.
// Implements ports.HealthChecker.
func (c *TranscriptClient) Check(ctx context.Context) error {
	resp, err := c.Client().Get(ctx, "/query")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return nil
}
