package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
)

// PDFExtractor extracts text from PDF documents using pdfcpu
type PDFExtractor struct {
	logger  arbor.ILogger
	tempDir string
}

// NewPDFExtractor creates a PDF extractor with its own temp workspace
func NewPDFExtractor(logger arbor.ILogger) *PDFExtractor {
	tempDir := filepath.Join(os.TempDir(), "sermo-pdf")
	os.MkdirAll(tempDir, 0755)

	return &PDFExtractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// CanExtract reports whether the file is a PDF
func (e *PDFExtractor) CanExtract(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".pdf"
}

// Extract pulls page content out of the PDF in page order. Scanned PDFs
// with no text layer yield an empty string; their OCR companion file is
// the text source in that case.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp(e.tempDir, "pages_")
	if err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		e.logger.Warn().Err(err).Str("file", filepath.Base(path)).Msg("PDF content extraction failed")
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	// Content files are named per page; collect them in page order
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extraction directory: %w", err)
	}

	pageTexts := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pageNum, ok := contentPageNumber(entry.Name())
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}

	pageNums := make([]int, 0, len(pageTexts))
	for n := range pageTexts {
		pageNums = append(pageNums, n)
	}
	sort.Ints(pageNums)

	var sb strings.Builder
	for _, n := range pageNums {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageTexts[n])
	}

	e.logger.Debug().
		Str("file", filepath.Base(path)).
		Int("pages", pageCount).
		Int("pages_with_text", len(pageTexts)).
		Msg("Extracted PDF text")

	return sb.String(), nil
}

// contentPageNumber parses the page number out of pdfcpu's extracted
// content file names, which look like {basename}_Content_page_{N}.txt.
func contentPageNumber(name string) (int, bool) {
	const marker = "_Content_page_"
	idx := strings.LastIndex(name, marker)
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimSuffix(name[idx+len(marker):], filepath.Ext(name))
	var pageNum int
	if _, err := fmt.Sscanf(rest, "%d", &pageNum); err != nil {
		return 0, false
	}
	return pageNum, true
}
