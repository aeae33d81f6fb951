package domain

import (
	"fmt"
	"strings"
)

// CallSummary is the structured summary of an earnings call.
// It is produced by the summarization collaborator from resolved
// transcript text and validated against a JSON Schema before use.
type CallSummary struct {
	Ticker   string           `json:"ticker"`
	Quarter  string           `json:"quarter"`
	Source   TranscriptSource `json:"source"`
	Overview string           `json:"overview"`
	KPIs     []KPI            `json:"kpis"`
	Guidance []GuidanceItem   `json:"guidance"`
	Themes   []string         `json:"themes"`
	QA       []Exchange       `json:"qa"`
	Risks    []string         `json:"risks"`
}

// KPI is a single reported metric with the context it was given in.
type KPI struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Context string `json:"context,omitempty"`
}

// GuidanceItem is a forward-looking statement for one metric or area.
type GuidanceItem struct {
	Metric  string `json:"metric"`
	Outlook string `json:"outlook"`
}

// Exchange is one analyst question and management's answer.
type Exchange struct {
	Analyst  string `json:"analyst,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Markdown renders the summary as a Markdown document. The rendering is
// pure and deterministic: the same summary always yields the same bytes.
func (s *CallSummary) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s — %s Earnings Call Summary\n\n", s.Ticker, s.Quarter)

	if s.Overview != "" {
		b.WriteString(s.Overview)
		b.WriteString("\n\n")
	}

	if len(s.KPIs) > 0 {
		b.WriteString("## Key Metrics\n\n")

		for _, k := range s.KPIs {
			if k.Context != "" {
				fmt.Fprintf(&b, "- **%s**: %s (%s)\n", k.Name, k.Value, k.Context)
			} else {
				fmt.Fprintf(&b, "- **%s**: %s\n", k.Name, k.Value)
			}
		}

		b.WriteString("\n")
	}

	if len(s.Guidance) > 0 {
		b.WriteString("## Guidance\n\n")

		for _, g := range s.Guidance {
			fmt.Fprintf(&b, "- **%s**: %s\n", g.Metric, g.Outlook)
		}

		b.WriteString("\n")
	}

	if len(s.Themes) > 0 {
		b.WriteString("## Themes\n\n")

		for _, t := range s.Themes {
			fmt.Fprintf(&b, "- %s\n", t)
		}

		b.WriteString("\n")
	}

	if len(s.QA) > 0 {
		b.WriteString("## Q&A Highlights\n\n")

		for _, qa := range s.QA {
			if qa.Analyst != "" {
				fmt.Fprintf(&b, "**Q (%s):** %s\n\n", qa.Analyst, qa.Question)
			} else {
				fmt.Fprintf(&b, "**Q:** %s\n\n", qa.Question)
			}

			fmt.Fprintf(&b, "**A:** %s\n\n", qa.Answer)
		}
	}

	if len(s.Risks) > 0 {
		b.WriteString("## Risks\n\n")

		for _, r := range s.Risks {
			fmt.Fprintf(&b, "- %s\n", r)
		}

		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n_Source: %s transcript._\n", s.Source)

	return b.String()
}
