// Package pdf extracts text from PDF files using the poppler utilities,
// falling back to tesseract OCR for scanned documents with no text layer.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// External programs.
const (
	textTool       = "pdftotext"
	rasterizerTool = "pdftoppm"
	ocrTool        = "tesseract"
)

// Defaults.
const (
	DefaultOCRLanguage = "spa"
	DefaultTimeout     = 2 * time.Minute
	rasterDPI          = "300"
)

var (
	// ErrPDFToolNotFound indicates pdftotext is not installed.
	ErrPDFToolNotFound = fmt.Errorf("%w: pdftotext not found in PATH", domain.ErrPDFToolNotFound)

	// ErrOCRToolNotFound indicates tesseract or pdftoppm is not installed.
	ErrOCRToolNotFound = fmt.Errorf("%w: tesseract or pdftoppm not found", domain.ErrOCRUnavailable)
)

// PageMarker returns the line that precedes the text of page n (1-based).
func PageMarker(n int) string {
	return "--- Pagina " + strconv.Itoa(n) + " ---"
}

// Config controls extraction and the OCR fallback.
type Config struct {
	// OCREnabled turns on the scanned-document fallback.
	OCREnabled bool

	// OCRLanguage is the tesseract language code (e.g. "spa", "eng", "spa+eng").
	OCRLanguage string

	// RasterizerPath is an optional directory containing pdftoppm.
	// Empty means look it up in PATH.
	RasterizerPath string

	// Timeout bounds each external command. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultConfig returns a configuration with OCR enabled for Spanish.
func DefaultConfig() Config {
	return Config{
		OCREnabled:  true,
		OCRLanguage: DefaultOCRLanguage,
		Timeout:     DefaultTimeout,
	}
}

// Extractor handles PDF files.
type Extractor struct {
	cfg      Config
	runner   CommandRunner
	lookPath func(file string) (string, error)
	tempDir  func() (string, error)
}

// New creates a PDF extractor that runs the real tools.
func New(cfg Config) *Extractor {
	return NewWithRunner(cfg, execRunner{})
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(cfg Config, runner CommandRunner) *Extractor {
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = DefaultOCRLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Extractor{
		cfg:      cfg,
		runner:   runner,
		lookPath: exec.LookPath,
		tempDir: func() (string, error) {
			return os.MkdirTemp("", "electro-ocr-*")
		},
	}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(textTool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing the tools.
func InstallInstructions() string {
	return `PDF support requires pdftotext (poppler); OCR additionally needs tesseract.

  macOS:          brew install poppler tesseract tesseract-lang
  Debian/Ubuntu:  sudo apt install poppler-utils tesseract-ocr tesseract-ocr-spa
  Fedora:         sudo dnf install poppler-utils tesseract tesseract-langpack-spa`
}

// FileType returns the format this extractor handles.
func (e *Extractor) FileType() domain.FileType {
	return domain.FileTypePDF
}

// Extensions returns the file extensions handled.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// OCRAvailable reports whether the OCR fallback can run.
func (e *Extractor) OCRAvailable() error {
	if !e.cfg.OCREnabled {
		return fmt.Errorf("%w: disabled in settings", domain.ErrOCRUnavailable)
	}
	if _, err := e.lookPath(e.rasterizer()); err != nil {
		return ErrOCRToolNotFound
	}
	if _, err := e.lookPath(ocrTool); err != nil {
		return ErrOCRToolNotFound
	}
	return nil
}

// Extract returns the text layer of every page, each preceded by a page
// marker. A document with no text layer at all goes through OCR when it is
// available; otherwise the result is empty and carries a warning.
func (e *Extractor) Extract(ctx context.Context, doc domain.SourceDocument) (*domain.Extraction, error) {
	if _, err := e.lookPath(textTool); err != nil {
		return nil, ErrPDFToolNotFound
	}

	pages, err := e.textLayer(ctx, doc.Path)
	if err != nil {
		return nil, err
	}

	result := &domain.Extraction{Pages: len(pages)}
	result.Text = joinPages(pages)
	if result.Text != "" {
		return result, nil
	}

	if err := e.OCRAvailable(); err != nil {
		logger.Warn("%s: no text layer and OCR unavailable: %v", doc.Filename, err)
		result.Warnings = append(result.Warnings, "no text layer; OCR unavailable: "+err.Error())
		return result, nil
	}

	logger.Info("%s: no text layer, running OCR (%s)", doc.Filename, e.cfg.OCRLanguage)
	ocrPages, warnings, err := e.ocr(ctx, doc.Path)
	if err != nil {
		return nil, err
	}
	result.OCR = true
	result.Warnings = append(result.Warnings, warnings...)
	if len(ocrPages) > result.Pages {
		result.Pages = len(ocrPages)
	}
	result.Text = joinPages(ocrPages)
	return result, nil
}

// textLayer runs pdftotext over the whole file. Pages are separated by
// form feeds in its output.
func (e *Extractor) textLayer(ctx context.Context, path string) ([]string, error) {
	out, err := e.run(ctx, textTool, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	pages := strings.Split(string(out), "\f")
	// pdftotext terminates every page, including the last, with a form feed.
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}

// ocr rasterises every page and recognises each image in page order.
// A page that fails recognition is skipped with a warning.
func (e *Extractor) ocr(ctx context.Context, path string) ([]string, []string, error) {
	dir, err := e.tempDir()
	if err != nil {
		return nil, nil, fmt.Errorf("create OCR workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if _, err := e.run(ctx, e.rasterizer(), "-r", rasterDPI, "-png", path, prefix); err != nil {
		return nil, nil, fmt.Errorf("pdftoppm failed: %w", err)
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, nil, err
	}
	// pdftoppm zero-pads page numbers to a common width, so lexical order is page order.
	sort.Strings(images)

	var warnings []string
	pages := make([]string, len(images))
	for i, img := range images {
		out, err := e.run(ctx, ocrTool, img, "stdout", "-l", e.cfg.OCRLanguage)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			warnings = append(warnings, fmt.Sprintf("OCR failed on page %d: %v", i+1, err))
			continue
		}
		pages[i] = string(out)
	}
	return pages, warnings, nil
}

func (e *Extractor) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	return e.runner.Run(ctx, name, args...)
}

func (e *Extractor) rasterizer() string {
	if e.cfg.RasterizerPath != "" {
		return filepath.Join(e.cfg.RasterizerPath, rasterizerTool)
	}
	return rasterizerTool
}

// joinPages renders non-empty pages with their 1-based markers.
func joinPages(pages []string) string {
	var b strings.Builder
	for i, page := range pages {
		text := strings.TrimSpace(page)
		if text == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(PageMarker(i + 1))
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
