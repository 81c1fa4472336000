// Package resume extracts plain text from uploaded PDF resumes.
package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	pdfMagic        = "%PDF-"
	defaultMaxBytes = 10 << 20
)

var (
	ErrNotPDF   = errors.New("input is not a PDF document")
	ErrTooLarge = errors.New("input exceeds the size limit")
)

// ExtractionError wraps every failure to read text out of a resume.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("resume extraction: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type Config struct {
	// MaxBytes caps the accepted upload size; defaults to 10 MiB.
	MaxBytes int64 `mapstructure:"max-bytes"`
}

type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// ExtractText reads a PDF from r and returns its text layer. A PDF without a
// text layer yields an empty string and no error.
func (e *Extractor) ExtractText(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.cfg.MaxBytes+1))
	if err != nil {
		return "", &ExtractionError{Err: fmt.Errorf("read input: %w", err)}
	}
	if !bytes.HasPrefix(data, []byte(pdfMagic)) {
		return "", &ExtractionError{Err: ErrNotPDF}
	}
	if int64(len(data)) > e.cfg.MaxBytes {
		return "", &ExtractionError{Err: fmt.Errorf("%w: %d bytes", ErrTooLarge, e.cfg.MaxBytes)}
	}

	pages, err := readPages(ctx, data)
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	text := strings.TrimSpace(strings.Join(pages, "\n"))
	e.logger.Info("resume extracted",
		zap.Int("pdf_bytes", len(data)),
		zap.Int("pages", len(pages)),
		zap.Int("text_runes", len([]rune(text))),
	)

	return text, nil
}

// readPages returns the plain text of every page in order. The pdf package
// panics on some malformed documents, so panics are turned into errors.
func readPages(ctx context.Context, data []byte) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	total := doc.NumPage()
	fonts := make(map[string]*pdf.Font)
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := doc.Page(i)
		if page.V.IsNull() || page.V.Key("Contents").IsNull() {
			pages = append(pages, "")
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}
