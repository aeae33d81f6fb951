// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/ports"
)

// AllowList builds a fallback-eligibility predicate from a fixed set of
// tickers. Matching is case-insensitive; the set never changes after
// construction, so the predicate is safe for concurrent use.
func AllowList(tickers []string) ports.FallbackEligibility {
	set := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		set[strings.ToUpper(strings.TrimSpace(t))] = struct{}{}
	}

	return ports.EligibilityFunc(func(ticker string) bool {
		_, ok := set[strings.ToUpper(strings.TrimSpace(ticker))]
		return ok
	})
}

// Resolver orchestrates transcript acquisition: primary provider first,
// investor-relations document scrape second, for eligible tickers only.
// It depends on port interfaces, not concrete implementations.
type Resolver struct {
	provider    ports.TranscriptProvider
	locator     ports.FallbackLocator
	fetcher     ports.DocumentFetcher
	eligibility ports.FallbackEligibility
	logger      *slog.Logger
}

// ResolverConfig contains configuration for the resolver.
type ResolverConfig struct {
	Provider    ports.TranscriptProvider
	Locator     ports.FallbackLocator
	Fetcher     ports.DocumentFetcher
	Eligibility ports.FallbackEligibility
	Logger      *slog.Logger
}

// NewResolver creates a new transcript resolver with the provided dependencies.
func NewResolver(cfg ResolverConfig) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	eligibility := cfg.Eligibility
	if eligibility == nil {
		eligibility = ports.EligibilityFunc(func(string) bool { return false })
	}

	return &Resolver{
		provider:    cfg.Provider,
		locator:     cfg.Locator,
		fetcher:     cfg.Fetcher,
		eligibility: eligibility,
		logger:      logger,
	}
}

// Resolve acquires transcript text for a request. The steps are strictly
// ordered because each depends on the previous outcome:
//
//  1. Primary provider. A soft failure propagates as-is so the caller can
//     tell "try later" from "not covered".
//  2. Extract text from the payload. Non-empty text is returned with the
//     primary provenance tag; the fallback is never attempted.
//  3. For eligible tickers only, locate and download the IR document.
//  4. Nothing yielded text: terminal NoTranscriptError.
func (r *Resolver) Resolve(ctx context.Context, req domain.TranscriptRequest) (*domain.ResolvedTranscript, error) {
	logger := r.logger.With(
		slog.String("ticker", req.Ticker),
		slog.String("quarter", req.Quarter),
	)

	payload, err := r.provider.FetchTranscript(ctx, req.Ticker, req.Quarter)
	if err != nil {
		if domain.IsProviderThrottled(err) {
			logger.WarnContext(ctx, "provider throttled", slog.Any("error", err))

			return nil, err
		}

		return nil, err
	}

	if text := domain.ExtractTranscriptText(payload); text != "" {
		logger.InfoContext(ctx, "transcript resolved",
			slog.String("source", string(domain.SourcePrimary)),
			slog.Int("chars", len(text)),
		)

		return &domain.ResolvedTranscript{Text: text, Source: domain.SourcePrimary}, nil
	}

	if r.eligibility.Eligible(req.Ticker) {
		resolved, err := r.resolveFallback(ctx, req, logger)
		if err != nil || resolved != nil {
			return resolved, err
		}
	}

	logger.InfoContext(ctx, "no transcript from any path")

	return nil, domain.NewNoTranscriptError(req.Ticker, req.Quarter)
}

// resolveFallback runs the scrape path. (nil, nil) means the path was
// exhausted without text and the caller should fail terminally.
func (r *Resolver) resolveFallback(ctx context.Context, req domain.TranscriptRequest, logger *slog.Logger) (*domain.ResolvedTranscript, error) {
	url, found, err := r.locator.LocateDocument(ctx, req.Ticker, req.Quarter)
	if err != nil {
		return nil, err
	}

	if !found {
		logger.InfoContext(ctx, "no fallback document on listing page")

		return nil, nil
	}

	text, err := r.fetcher.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}

	if text == "" {
		logger.InfoContext(ctx, "fallback document yielded no text",
			slog.String("url", url))

		return nil, nil
	}

	logger.InfoContext(ctx, "transcript resolved",
		slog.String("source", string(domain.SourceFallback)),
		slog.Int("chars", len(text)),
	)

	return &domain.ResolvedTranscript{Text: text, Source: domain.SourceFallback}, nil
}
