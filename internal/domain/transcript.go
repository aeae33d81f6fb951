// Package domain contains core business entities and rules.
package domain

import (
	"regexp"
	"strings"
)

// quarterPattern is the only accepted quarter format, e.g. "2026Q1".
var quarterPattern = regexp.MustCompile(`^\d{4}Q[1-4]$`)

// TranscriptSource records which acquisition path produced a transcript.
type TranscriptSource string

const (
	// SourcePrimary means the transcript came from the primary data provider.
	SourcePrimary TranscriptSource = "primary"

	// SourceFallback means the transcript was scraped from an investor-relations document.
	SourceFallback TranscriptSource = "fallback"
)

// TranscriptRequest identifies a single earnings call.
// Construct it with NewTranscriptRequest so the ticker is normalized
// before it is used as a cache or lookup key.
type TranscriptRequest struct {
	// Ticker is the stock symbol, trimmed and upper-cased.
	Ticker string

	// Quarter is the fiscal quarter in YYYYQ[1-4] form.
	Quarter string
}

// NewTranscriptRequest normalizes the ticker and returns the request.
// The quarter is kept verbatim; validate it with ValidQuarter before
// issuing any network call.
func NewTranscriptRequest(ticker, quarter string) TranscriptRequest {
	return TranscriptRequest{
		Ticker:  strings.ToUpper(strings.TrimSpace(ticker)),
		Quarter: strings.ToUpper(strings.TrimSpace(quarter)),
	}
}

// Key returns the canonical cache key for this request.
func (r TranscriptRequest) Key() string {
	return r.Ticker + ":" + r.Quarter
}

// ValidQuarter reports whether q matches the YYYYQ[1-4] pattern.
func ValidQuarter(q string) bool {
	return quarterPattern.MatchString(q)
}

// QuarterLabel is the decomposition of a quarter string into the pieces
// the investor-relations page is organized by.
type QuarterLabel struct {
	// Year is the 4-digit year, e.g. "2026".
	Year string

	// Tag is "Q" plus the quarter digit, e.g. "Q1".
	Tag string
}

// ParseQuarter decomposes a quarter string into a QuarterLabel.
// Returns false if q does not match the YYYYQ[1-4] pattern.
func ParseQuarter(q string) (QuarterLabel, bool) {
	if !ValidQuarter(q) {
		return QuarterLabel{}, false
	}

	return QuarterLabel{
		Year: q[:4],
		Tag:  q[4:],
	}, true
}

// ResolvedTranscript is the outcome of transcript resolution.
// It is immutable once constructed and scoped to the request that
// produced it.
type ResolvedTranscript struct {
	// Text is the canonicalized transcript text. Never empty.
	Text string

	// Source tags which path produced the text.
	Source TranscriptSource
}
