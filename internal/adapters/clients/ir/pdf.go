package ir

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ozend/earnings-proxy/internal/adapters/clients"
	"github.com/ozend/earnings-proxy/internal/domain"
	"github.com/ozend/earnings-proxy/internal/platform/logging"
)

// maxDocumentBytes bounds how much of a discovered document is read.
// Transcript PDFs run a few hundred KB; anything past this is not a
// transcript.
const maxDocumentBytes = 32 << 20 // 32 MiB

// FetcherConfig contains configuration for the document fetcher.
type FetcherConfig struct {
	// Client is the instrumented HTTP client used for downloads.
	Client *clients.Client

	// TempDir is the scratch directory for PDF processing.
	// Defaults to a subdirectory of os.TempDir().
	TempDir string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DocumentClient implements ports.DocumentFetcher: it downloads a PDF
// from a discovered URL and extracts its plain text.
type DocumentClient struct {
	client  *clients.Client
	tempDir string
	logger  *slog.Logger
}

// NewDocumentClient creates a new document fetcher.
// Panics if Client is nil.
func NewDocumentClient(cfg FetcherConfig) *DocumentClient {
	if cfg.Client == nil {
		panic("DocumentClient: Client is required")
	}

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "earnings-proxy-pdf")
	}

	_ = os.MkdirAll(tempDir, 0o755)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentClient{
		client:  cfg.Client,
		tempDir: tempDir,
		logger:  logger,
	}
}

// FetchText downloads the document at rawURL and extracts its plain text.
// A non-success status fails with a DownloadError. Extraction that yields
// nothing returns "" without error; an unparseable document degrades the
// same way so one bad file never aborts resolution.
// Implements ports.DocumentFetcher.
func (f *DocumentClient) FetchText(ctx context.Context, rawURL string) (string, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("component", "ir.DocumentClient"),
		slog.String("url", rawURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", domain.NewValidationError("url", err.Error())
	}

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return "", domain.NewUnavailableError("ir-site", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", domain.NewDownloadError(rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", domain.NewUnavailableError("ir-site", "reading document: "+err.Error())
	}

	text, err := f.extractText(data)
	if err != nil {
		logger.Warn("document text extraction failed", slog.Any("error", err))

		return "", nil
	}

	return strings.TrimSpace(text), nil
}

// extractText pulls plain text out of PDF bytes. pdfcpu works on files,
// so the bytes go through a scratch file and a per-call extraction
// directory that are removed before returning.
func (f *DocumentClient) extractText(data []byte) (string, error) {
	tmpFile, err := os.CreateTemp(f.tempDir, "doc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	if err = tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}

	outDir, err := os.MkdirTemp(f.tempDir, "pages-")
	if err != nil {
		return "", fmt.Errorf("creating extraction dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	conf := model.NewDefaultConfiguration()
	if err = api.ExtractContentFile(tmpPath, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("extracting content: %w", err)
	}

	return joinPageFiles(outDir, pdfCtx.PageCount), nil
}

// joinPageFiles reads the per-page content files pdfcpu wrote and joins
// them in page order. File naming varies across pdfcpu versions, so both
// observed patterns are tried.
func joinPageFiles(outDir string, pageCount int) string {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return ""
	}

	pageTexts := make(map[int]string, pageCount)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}

		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(entry.Name(), "page_%d", &pageNum); err != nil {
				continue
			}
		}

		pageTexts[pageNum] = string(content)
	}

	pages := make([]int, 0, len(pageTexts))
	for pageNum := range pageTexts {
		pages = append(pages, pageNum)
	}

	sort.Ints(pages)

	var b strings.Builder

	for _, pageNum := range pages {
		text := strings.TrimSpace(pageTexts[pageNum])
		if text == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}

		b.WriteString(text)
	}

	return b.String()
}
