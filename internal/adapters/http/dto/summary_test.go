package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozend/earnings-proxy/internal/domain"
)

func TestValidateQuarter(t *testing.T) {
	type form struct {
		Quarter string `json:"quarter" validate:"quarter"`
	}

	valid := []string{"2024Q1", "2026Q4", "1999Q2", "2024q1", " 2024Q1 ", ""}
	for _, q := range valid {
		t.Run("valid "+q, func(t *testing.T) {
			assert.NoError(t, Validate(&form{Quarter: q}))
		})
	}

	invalid := []string{"2024-Q1", "Q1 2024", "2024Q5", "24Q1", "2024"}
	for _, q := range invalid {
		t.Run("invalid "+q, func(t *testing.T) {
			err := Validate(&form{Quarter: q})
			require.Error(t, err)

			fieldErrors := ValidationErrors(err)
			assert.Contains(t, fieldErrors, "quarter")
			assert.Equal(t, "must be a fiscal quarter like 2026Q1", fieldErrors["quarter"])
		})
	}
}

func TestSummaryRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     SummaryRequest
		wantErr bool
		field   string
	}{
		{
			name: "valid request",
			req:  SummaryRequest{Symbol: "OZN", Quarter: "2024Q1"},
		},
		{
			name:    "missing symbol",
			req:     SummaryRequest{Quarter: "2024Q1"},
			wantErr: true,
			field:   "symbol",
		},
		{
			name:    "blank symbol",
			req:     SummaryRequest{Symbol: "   ", Quarter: "2024Q1"},
			wantErr: true,
			field:   "symbol",
		},
		{
			name:    "missing quarter",
			req:     SummaryRequest{Symbol: "OZN"},
			wantErr: true,
			field:   "quarter",
		},
		{
			name:    "malformed quarter",
			req:     SummaryRequest{Symbol: "OZN", Quarter: "2024-Q1"},
			wantErr: true,
			field:   "quarter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, ValidationErrors(err), tt.field)
		})
	}
}

func TestNewSummaryResponse(t *testing.T) {
	summary := &domain.CallSummary{
		Ticker:   "OZN",
		Quarter:  "2024Q1",
		Source:   domain.SourceFallback,
		Overview: "Overview text.",
		KPIs:     []domain.KPI{{Name: "Revenue", Value: "$1B", Context: "flat YoY"}},
		Guidance: []domain.GuidanceItem{{Metric: "FY EPS", Outlook: "unchanged"}},
		Themes:   []string{"pricing"},
		QA:       []domain.Exchange{{Question: "Capex?", Answer: "Stable."}},
		Risks:    []string{"supply chain"},
	}

	resp := NewSummaryResponse(summary, "# markdown", true)

	assert.Equal(t, "OZN", resp.Ticker)
	assert.Equal(t, "2024Q1", resp.Quarter)
	assert.Equal(t, "fallback", resp.Source)
	assert.True(t, resp.Cached)
	assert.Equal(t, "# markdown", resp.Markdown)
	assert.Equal(t, "Overview text.", resp.Summary.Overview)

	require.Len(t, resp.Summary.KPIs, 1)
	assert.Equal(t, KPIItem{Name: "Revenue", Value: "$1B", Context: "flat YoY"}, resp.Summary.KPIs[0])

	require.Len(t, resp.Summary.Guidance, 1)
	assert.Equal(t, GuidanceItem{Metric: "FY EPS", Outlook: "unchanged"}, resp.Summary.Guidance[0])

	require.Len(t, resp.Summary.QA, 1)
	assert.Empty(t, resp.Summary.QA[0].Analyst)
	assert.Equal(t, "Capex?", resp.Summary.QA[0].Question)

	assert.Equal(t, []string{"pricing"}, resp.Summary.Themes)
	assert.Equal(t, []string{"supply chain"}, resp.Summary.Risks)
}
