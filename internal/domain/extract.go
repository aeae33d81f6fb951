package domain

import "strings"

// ProviderPayload is the untyped JSON document returned by the primary
// provider. Its shape is not contractually fixed; the documented schema
// and observed responses diverge, so extraction goes through an ordered
// list of candidate strategies instead of a struct.
type ProviderPayload map[string]any

// extractStrategy attempts to pull transcript text from one plausible
// payload location. Strategies are pure and return "" when the location
// is absent or not a string.
type extractStrategy struct {
	name string
	fn   func(ProviderPayload) string
}

// extractStrategies are tried in priority order; the first non-empty
// result wins. Adding a newly observed payload shape is a one-entry change.
var extractStrategies = []extractStrategy{
	{"transcript", func(p ProviderPayload) string {
		return stringField(p, "transcript")
	}},
	{"transcript_segments", func(p ProviderPayload) string {
		return joinSegments(p["transcript"])
	}},
	{"data.transcript", func(p ProviderPayload) string {
		nested, ok := p["data"].(map[string]any)
		if !ok {
			return ""
		}
		return stringField(nested, "transcript")
	}},
	{"content", func(p ProviderPayload) string {
		return stringField(p, "content")
	}},
	{"text", func(p ProviderPayload) string {
		return stringField(p, "text")
	}},
}

// ExtractTranscriptText returns the first non-empty transcript text found
// in the payload, or "" when no candidate location holds one. It is pure,
// performs no I/O, and never fails: an empty result is the signal that
// drives fallback progression.
func ExtractTranscriptText(p ProviderPayload) string {
	if p == nil {
		return ""
	}

	for _, s := range extractStrategies {
		if text := strings.TrimSpace(s.fn(p)); text != "" {
			return text
		}
	}

	return ""
}

// stringField returns m[key] if it is a non-empty string.
func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}

// joinSegments flattens the provider's segmented transcript shape:
// a list of {speaker, title, content} objects. Speaker names are kept
// as prefixes so the resulting blob still reads as a call transcript.
func joinSegments(v any) string {
	segments, ok := v.([]any)
	if !ok || len(segments) == 0 {
		return ""
	}

	var b strings.Builder

	for _, seg := range segments {
		m, ok := seg.(map[string]any)
		if !ok {
			continue
		}

		content := strings.TrimSpace(stringField(m, "content"))
		if content == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}

		if speaker := strings.TrimSpace(stringField(m, "speaker")); speaker != "" {
			b.WriteString(speaker)
			b.WriteString(": ")
		}

		b.WriteString(content)
	}

	return b.String()
}
