package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscriptRequest_Normalizes(t *testing.T) {
	tests := []struct {
		name        string
		ticker      string
		quarter     string
		wantTicker  string
		wantQuarter string
	}{
		{"lowercase ticker", "ozn", "2024Q1", "OZN", "2024Q1"},
		{"padded ticker", "  ozn  ", "2024Q1", "OZN", "2024Q1"},
		{"lowercase quarter tag", "OZN", "2024q1", "OZN", "2024Q1"},
		{"already normalized", "OZN", "2024Q1", "OZN", "2024Q1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewTranscriptRequest(tt.ticker, tt.quarter)

			assert.Equal(t, tt.wantTicker, req.Ticker)
			assert.Equal(t, tt.wantQuarter, req.Quarter)
		})
	}
}

func TestTranscriptRequest_Key(t *testing.T) {
	req := NewTranscriptRequest("ozn", "2024Q1")

	assert.Equal(t, "OZN:2024Q1", req.Key())
}

func TestValidQuarter(t *testing.T) {
	valid := []string{"2024Q1", "2024Q2", "2024Q3", "2024Q4", "1999Q1", "2100Q4"}
	for _, q := range valid {
		assert.True(t, ValidQuarter(q), "expected %q valid", q)
	}

	invalid := []string{"", "2024Q5", "2024Q0", "2024-Q1", "Q1 2024", "24Q1", "2024q1", "20240Q1", " 2024Q1"}
	for _, q := range invalid {
		assert.False(t, ValidQuarter(q), "expected %q invalid", q)
	}
}

func TestParseQuarter(t *testing.T) {
	tests := []struct {
		quarter  string
		wantYear string
		wantTag  string
	}{
		{"2026Q1", "2026", "Q1"},
		{"2024Q4", "2024", "Q4"},
		{"1999Q2", "1999", "Q2"},
	}

	for _, tt := range tests {
		t.Run(tt.quarter, func(t *testing.T) {
			label, ok := ParseQuarter(tt.quarter)

			require.True(t, ok)
			assert.Equal(t, tt.wantYear, label.Year)
			assert.Equal(t, tt.wantTag, label.Tag)

			// Decomposition is exactly reversible.
			assert.Equal(t, tt.quarter, label.Year+label.Tag)
		})
	}
}

func TestParseQuarter_RoundTripAllQuarters(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		for q := 1; q <= 4; q++ {
			quarter := fmt.Sprintf("%dQ%d", year, q)

			label, ok := ParseQuarter(quarter)
			require.True(t, ok, quarter)
			assert.Equal(t, quarter, label.Year+label.Tag)
		}
	}
}

func TestParseQuarter_Invalid(t *testing.T) {
	for _, q := range []string{"2026-Q1", "Q1 2026", "", "2026Q9"} {
		_, ok := ParseQuarter(q)
		assert.False(t, ok, q)
	}
}
