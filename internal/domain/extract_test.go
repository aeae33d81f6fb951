package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTranscriptText(t *testing.T) {
	tests := []struct {
		name    string
		payload ProviderPayload
		want    string
	}{
		{
			name:    "top-level transcript string",
			payload: ProviderPayload{"transcript": "X"},
			want:    "X",
		},
		{
			name:    "nested data.transcript when top level absent",
			payload: ProviderPayload{"data": map[string]any{"transcript": "Y"}},
			want:    "Y",
		},
		{
			name:    "top level wins over nested",
			payload: ProviderPayload{"transcript": "X", "data": map[string]any{"transcript": "Y"}},
			want:    "X",
		},
		{
			name:    "content field",
			payload: ProviderPayload{"content": "C"},
			want:    "C",
		},
		{
			name:    "text field last",
			payload: ProviderPayload{"text": "T"},
			want:    "T",
		},
		{
			name:    "content preferred over text",
			payload: ProviderPayload{"text": "T", "content": "C"},
			want:    "C",
		},
		{
			name:    "empty payload",
			payload: ProviderPayload{},
			want:    "",
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
		{
			name:    "whitespace-only candidate skipped",
			payload: ProviderPayload{"transcript": "   ", "content": "C"},
			want:    "C",
		},
		{
			name:    "non-string candidate skipped",
			payload: ProviderPayload{"content": 42, "text": "T"},
			want:    "T",
		},
		{
			name: "segmented transcript joined with speakers",
			payload: ProviderPayload{"transcript": []any{
				map[string]any{"speaker": "Operator", "content": "Welcome."},
				map[string]any{"speaker": "CEO", "content": "Thank you."},
			}},
			want: "Operator: Welcome.\n\nCEO: Thank you.",
		},
		{
			name: "segment without speaker keeps content",
			payload: ProviderPayload{"transcript": []any{
				map[string]any{"content": "Unattributed remark."},
			}},
			want: "Unattributed remark.",
		},
		{
			name: "empty segments yield empty",
			payload: ProviderPayload{"transcript": []any{
				map[string]any{"speaker": "Operator", "content": "  "},
				"not a segment",
			}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTranscriptText(tt.payload))
		})
	}
}

func TestExtractTranscriptText_Pure(t *testing.T) {
	payload := ProviderPayload{"transcript": "X", "data": map[string]any{"transcript": "Y"}}

	first := ExtractTranscriptText(payload)
	second := ExtractTranscriptText(payload)

	assert.Equal(t, first, second)
	assert.Equal(t, "X", payload["transcript"], "payload is not mutated")
}
