// Package ir scrapes an investor-relations listing page for earnings
// documents. The page is unstructured marketing markup, not an API: the
// locator is a heuristic over parsed HTML and is expected to degrade to
// "not found" rather than fail when the page shape drifts.
package ir

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ozend/earnings-proxy/internal/adapters/clients"
	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/platform/logging"
)

// transcriptLabel anchors link discovery on the visible label text.
// The link element itself often carries no text or alt content, so the
// label is the only stable thing to search for.
const transcriptLabel = "Transcript:"

// LocatorConfig contains configuration for the listing-page locator.
type LocatorConfig struct {
	// Client is the instrumented HTTP client used to fetch the page.
	Client *clients.Client

	// PageURL is the absolute URL of the listing page. Relative document
	// links are resolved against it.
	PageURL string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// PageLocator implements ports.FallbackLocator against a single
// investor-relations listing page.
type PageLocator struct {
	client  *clients.Client
	pageURL string
	logger  *slog.Logger
}

// NewPageLocator creates a new listing-page locator.
// Panics if Client is nil or PageURL is empty.
func NewPageLocator(cfg LocatorConfig) *PageLocator {
	if cfg.Client == nil {
		panic("PageLocator: Client is required")
	}

	if cfg.PageURL == "" {
		panic("PageLocator: PageURL is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PageLocator{
		client:  cfg.Client,
		pageURL: cfg.PageURL,
		logger:  logger,
	}
}

// LocateDocument finds the transcript document URL for a quarter.
// Returns ("", false, nil) when the page holds no matching document.
// Implements ports.FallbackLocator.
//
// Search order: year section, then quarter tag within it, then the
// "Transcript:" label near the quarter, then the first link under the
// label's parent. The first resolved link wins.
func (l *PageLocator) LocateDocument(ctx context.Context, ticker, quarter string) (string, bool, error) {
	label, ok := domain.ParseQuarter(quarter)
	if !ok {
		// Malformed quarter never reaches the network.
		return "", false, nil
	}

	logger := logging.FromContext(ctx).With(
		slog.String("component", "ir.PageLocator"),
		slog.String("ticker", ticker),
		slog.String("quarter", quarter),
	)

	doc, err := l.fetchPage(ctx)
	if err != nil {
		return "", false, err
	}

	if doc == nil {
		logger.Debug("listing page unparsable, treating as no candidate")

		return "", false, nil
	}

	for _, region := range yearRegions(doc, label.Year) {
		if href, found := searchRegion(region, label.Tag); found {
			resolved := l.resolveLink(href)
			logger.Debug("fallback document located", slog.String("url", resolved))

			return resolved, true, nil
		}
	}

	logger.Debug("no fallback document on listing page")

	return "", false, nil
}

// fetchPage downloads and parses the listing page. A body that cannot
// be parsed yields a nil document with no error.
func (l *PageLocator) fetchPage(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.pageURL, http.NoBody)
	if err != nil {
		return nil, domain.NewValidationError("page_url", err.Error())
	}

	resp, err := l.client.Do(ctx, req)
	if err != nil {
		return nil, domain.NewUnavailableError("ir-site", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.NewDownloadError(l.pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		// A page we cannot parse holds no candidates.
		return nil, nil
	}

	return doc, nil
}

// yearRegions returns the regions of the document to search for the
// quarter tag: the containing ancestor of each node whose trimmed text
// exactly equals the year, or the whole document when no year node exists.
// Exact equality avoids matching a larger number that merely contains
// the year digits.
func yearRegions(doc *goquery.Document, year string) []*goquery.Selection {
	yearNodes := doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == year
	})

	if yearNodes.Length() == 0 {
		return []*goquery.Selection{doc.Selection}
	}

	regions := make([]*goquery.Selection, 0, yearNodes.Length())

	yearNodes.Each(func(_ int, s *goquery.Selection) {
		region := s.ParentsFiltered("section, article, div, body").First()
		if region.Length() == 0 {
			region = doc.Selection
		}

		regions = append(regions, region)
	})

	return regions
}

// searchRegion scans one year region for the quarter tag and returns the
// href of the first transcript link near it. A candidate without a usable
// link is skipped, not fatal.
func searchRegion(region *goquery.Selection, quarterTag string) (string, bool) {
	var (
		href  string
		found bool
	)

	quarterNodes := region.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == quarterTag
	})

	quarterNodes.EachWithBreak(func(_ int, q *goquery.Selection) bool {
		// The quarter label and its documents live somewhere inside a
		// shared container; the exact depth between them varies.
		container := q.Closest("ul, ol, li, div")
		if container.Length() == 0 {
			return true
		}

		scope := container.Parent()
		if scope.Length() == 0 {
			scope = container
		}

		labels := scope.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(s.Text(), transcriptLabel)
		})

		labels.EachWithBreak(func(_ int, labelNode *goquery.Selection) bool {
			link := labelNode.Parent().Find("a[href]").First()
			if link.Length() == 0 {
				return true
			}

			candidate := strings.TrimSpace(link.AttrOr("href", ""))
			if candidate == "" {
				return true
			}

			href = candidate
			found = true

			return false
		})

		return !found
	})

	return href, found
}

// resolveLink resolves href against the listing page URL. A reference
// that cannot be resolved is returned raw rather than discarded.
func (l *PageLocator) resolveLink(href string) string {
	base, err := url.Parse(l.pageURL)
	if err != nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return base.ResolveReference(ref).String()
}
