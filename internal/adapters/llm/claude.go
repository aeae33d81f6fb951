// Package llm implements the summarization port against the Anthropic
// Messages API. Model output is repaired and schema-validated before it
// is allowed to become a domain summary.
package llm

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/platform/logging"
)

const (
	serviceName = "summarizer"

	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096

	// maxTranscriptChars caps the transcript slice sent to the model so a
	// pathological document cannot blow the context window.
	maxTranscriptChars = 300_000

	systemPrompt = `You are a sell-side research assistant summarizing earnings-call transcripts.
Respond with a single JSON object and nothing else: no prose, no code fences.
The object must have exactly these keys:
"overview" (string, 2-4 sentences),
"kpis" (array of {"name","value","context"}),
"guidance" (array of {"metric","outlook"}),
"themes" (array of strings),
"qa" (array of {"analyst","question","answer"}),
"risks" (array of strings).
Report only figures stated in the transcript. Use empty arrays when a
section has no content.`
)

//go:embed call_summary_schema.json
var callSummarySchemaJSON string

// callSummarySchema validates every model response before it is trusted.
var callSummarySchema = mustCompileSchema(callSummarySchemaJSON, "call_summary.schema.json")

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("parsing embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("adding %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compiling %s: %v", name, err))
	}

	return sch
}

// messagesAPI is the slice of the Anthropic client the summarizer uses.
type messagesAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Config contains configuration for the Claude summarizer.
type Config struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string

	// Model is the model identifier. Defaults to defaultModel.
	Model string

	// MaxTokens bounds the response size. Defaults to defaultMaxTokens.
	MaxTokens int

	// Logger is the structured logger.
	Logger *slog.Logger
}

// ClaudeSummarizer implements ports.Summarizer on the Anthropic Messages API.
type ClaudeSummarizer struct {
	messages  messagesAPI
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewClaudeSummarizer creates a new summarizer.
func NewClaudeSummarizer(cfg Config) *ClaudeSummarizer {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	return &ClaudeSummarizer{
		messages:  &client.Messages,
		model:     model,
		maxTokens: int64(maxTokens),
		logger:    logger,
	}
}

// Summarize produces a schema-validated CallSummary from resolved
// transcript text. Implements ports.Summarizer.
func (s *ClaudeSummarizer) Summarize(ctx context.Context, req domain.TranscriptRequest, transcript domain.ResolvedTranscript) (*domain.CallSummary, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("component", "llm.ClaudeSummarizer"),
		slog.String("ticker", req.Ticker),
		slog.String("quarter", req.Quarter),
	)

	text := transcript.Text
	if len(text) > maxTranscriptChars {
		logger.Warn("transcript truncated for summarization",
			slog.Int("original_chars", len(text)))
		text = text[:maxTranscriptChars]
	}

	prompt := fmt.Sprintf("Summarize the %s earnings call for %s.\n\nTranscript:\n%s",
		req.Quarter, req.Ticker, text)

	resp, err := s.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, domain.NewUnavailableError(serviceName, err.Error())
	}

	var raw strings.Builder

	for _, block := range resp.Content {
		if block.Type == "text" {
			raw.WriteString(block.Text)
		}
	}

	if raw.Len() == 0 {
		return nil, domain.NewUnavailableError(serviceName, "model returned no text")
	}

	summary, err := parseSummary(raw.String())
	if err != nil {
		logger.Warn("model output rejected", slog.Any("error", err))

		return nil, domain.NewUnavailableError(serviceName, err.Error())
	}

	summary.Ticker = req.Ticker
	summary.Quarter = req.Quarter
	summary.Source = transcript.Source

	return summary, nil
}

// parseSummary repairs, validates, and decodes one model response.
// Models wrap JSON in fences or emit trailing commas often enough that
// repair-then-validate is cheaper than reprompting.
func parseSummary(raw string) (*domain.CallSummary, error) {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("repairing model output: %w", err)
	}

	var doc any
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, fmt.Errorf("decoding model output: %w", err)
	}

	if err := callSummarySchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("model output failed schema validation: %w", err)
	}

	var summary domain.CallSummary
	if err := json.Unmarshal([]byte(repaired), &summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}

	return &summary, nil
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (s *ClaudeSummarizer) Name() string {
	return serviceName
}

// Check verifies the summarizer is configured. A live model call is too
// expensive for a readiness probe, so this only confirms construction.
// Implements ports.HealthChecker.
func (s *ClaudeSummarizer) Check(_ context.Context) error {
	if s.messages == nil {
		return fmt.Errorf("summarizer not configured")
	}

	return nil
}
