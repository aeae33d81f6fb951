package dto

import "github.com/ozend/earnings-proxy/internal/domain"

// SummaryRequest carries the query parameters of the summary endpoint.
type SummaryRequest struct {
	// Symbol is the stock ticker, e.g. "OZN". Case-insensitive.
	Symbol string `form:"symbol" json:"symbol" validate:"required,notempty"`

	// Quarter is the fiscal quarter in YYYYQ[1-4] form, e.g. "2026Q1".
	Quarter string `form:"quarter" json:"quarter" validate:"required,quarter"`
}

// SummaryResponse is the response body of the summary endpoint.
type SummaryResponse struct {
	Ticker   string          `json:"ticker"`
	Quarter  string          `json:"quarter"`
	Source   string          `json:"source"`
	Cached   bool            `json:"cached"`
	Summary  SummaryDocument `json:"summary"`
	Markdown string          `json:"markdown"`
}

// SummaryDocument is the structured summary body.
type SummaryDocument struct {
	Overview string         `json:"overview"`
	KPIs     []KPIItem      `json:"kpis"`
	Guidance []GuidanceItem `json:"guidance"`
	Themes   []string       `json:"themes"`
	QA       []ExchangeItem `json:"qa"`
	Risks    []string       `json:"risks"`
}

// KPIItem is one reported metric.
type KPIItem struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Context string `json:"context,omitempty"`
}

// GuidanceItem is one forward-looking statement.
type GuidanceItem struct {
	Metric  string `json:"metric"`
	Outlook string `json:"outlook"`
}

// ExchangeItem is one analyst question and management's answer.
type ExchangeItem struct {
	Analyst  string `json:"analyst,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NewSummaryResponse maps a domain summary to the response DTO.
func NewSummaryResponse(summary *domain.CallSummary, markdown string, cached bool) *SummaryResponse {
	doc := SummaryDocument{
		Overview: summary.Overview,
		Themes:   summary.Themes,
		Risks:    summary.Risks,
	}

	for _, k := range summary.KPIs {
		doc.KPIs = append(doc.KPIs, KPIItem{
			Name:    k.Name,
			Value:   k.Value,
			Context: k.Context,
		})
	}

	for _, g := range summary.Guidance {
		doc.Guidance = append(doc.Guidance, GuidanceItem{
			Metric:  g.Metric,
			Outlook: g.Outlook,
		})
	}

	for _, qa := range summary.QA {
		doc.QA = append(doc.QA, ExchangeItem{
			Analyst:  qa.Analyst,
			Question: qa.Question,
			Answer:   qa.Answer,
		})
	}

	return &SummaryResponse{
		Ticker:   summary.Ticker,
		Quarter:  summary.Quarter,
		Source:   string(summary.Source),
		Cached:   cached,
		Summary:  doc,
		Markdown: markdown,
	}
}
