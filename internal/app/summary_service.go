package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/ports"
)

// TranscriptResolver is the acquisition entry point the summary service
// depends on. Implemented by Resolver; declared as an interface so the
// service can be tested with a stub.
type TranscriptResolver interface {
	Resolve(ctx context.Context, req domain.TranscriptRequest) (*domain.ResolvedTranscript, error)
}

// SummaryResult is the outcome of a summary use case: the validated
// structured summary and its Markdown rendering.
type SummaryResult struct {
	Summary  *domain.CallSummary
	Markdown string

	// Cached reports whether the result was served from cache.
	Cached bool
}

// SummaryService orchestrates the summary use case: validate the request,
// serve from cache when possible, otherwise resolve the transcript,
// summarize it, and cache the outcome.
type SummaryService struct {
	resolver   TranscriptResolver
	summarizer ports.Summarizer
	cache      ports.Cache
	ttlSeconds int
	logger     *slog.Logger
}

// SummaryServiceConfig contains configuration for the summary service.
type SummaryServiceConfig struct {
	Resolver   TranscriptResolver
	Summarizer ports.Summarizer

	// Cache is optional; a nil cache disables caching.
	Cache ports.Cache

	// TTLSeconds is the cache lifetime for a summary. 0 means no expiry.
	TTLSeconds int

	Logger *slog.Logger
}

// NewSummaryService creates a new summary service with the provided dependencies.
func NewSummaryService(cfg SummaryServiceConfig) *SummaryService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SummaryService{
		resolver:   cfg.Resolver,
		summarizer: cfg.Summarizer,
		cache:      cfg.Cache,
		ttlSeconds: cfg.TTLSeconds,
		logger:     logger,
	}
}

// GetSummary returns the summary for a ticker and quarter.
// Validation failures return domain.ErrValidation before any network call.
func (s *SummaryService) GetSummary(ctx context.Context, ticker, quarter string) (*SummaryResult, error) {
	req := domain.NewTranscriptRequest(ticker, quarter)

	if req.Ticker == "" {
		return nil, domain.NewValidationError("symbol", "is required")
	}

	if !domain.ValidQuarter(req.Quarter) {
		return nil, domain.NewValidationErrorWithValue("quarter", "must match YYYYQ[1-4]", quarter)
	}

	logger := s.logger.With(
		slog.String("ticker", req.Ticker),
		slog.String("quarter", req.Quarter),
	)

	if result, ok := s.fromCache(ctx, req, logger); ok {
		return result, nil
	}

	resolved, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.Summarize(ctx, req, *resolved)
	if err != nil {
		logger.ErrorContext(ctx, "summarization failed", slog.Any("error", err))

		return nil, err
	}

	s.toCache(ctx, req, summary, logger)

	return &SummaryResult{
		Summary:  summary,
		Markdown: summary.Markdown(),
	}, nil
}

// fromCache attempts to serve the request from cache. Any cache trouble
// is a miss, never a user-facing failure.
func (s *SummaryService) fromCache(ctx context.Context, req domain.TranscriptRequest, logger *slog.Logger) (*SummaryResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, req.Key())
	if err != nil {
		if !domain.IsNotFound(err) {
			logger.WarnContext(ctx, "cache read failed", slog.Any("error", err))
		}

		return nil, false
	}

	var summary domain.CallSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		logger.WarnContext(ctx, "dropping undecodable cache entry", slog.Any("error", err))
		_ = s.cache.Delete(ctx, req.Key())

		return nil, false
	}

	logger.InfoContext(ctx, "summary served from cache")

	return &SummaryResult{
		Summary:  &summary,
		Markdown: summary.Markdown(),
		Cached:   true,
	}, true
}

// toCache stores a fresh summary. Failures are logged and swallowed; the
// response is already in hand.
func (s *SummaryService) toCache(ctx context.Context, req domain.TranscriptRequest, summary *domain.CallSummary, logger *slog.Logger) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		logger.WarnContext(ctx, "encoding summary for cache failed", slog.Any("error", err))

		return
	}

	if err := s.cache.Set(ctx, req.Key(), data, s.ttlSeconds); err != nil {
		logger.WarnContext(ctx, "cache write failed", slog.Any("error", err))
	}
}
