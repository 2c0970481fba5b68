package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	ExtractorPDF  = "pdf"
	ExtractorFitz = "fitz"
)

// DocumentExtractor turns PDF bytes into plain text.
//
// Extract returns an error only when the bytes cannot be opened as a PDF. A
// document without extractable text yields "" and a nil error.
type DocumentExtractor interface {
	Extract(doc []byte) (string, error)
}

// NewDocumentExtractor returns the extractor registered under name.
func NewDocumentExtractor(name string, logger *zap.Logger) (DocumentExtractor, error) {
	switch name {
	case "", ExtractorPDF:
		return NewPDFParserService(logger), nil
	case ExtractorFitz:
		return NewFitzParserService(logger), nil
	default:
		return nil, fmt.Errorf("unknown pdf extractor %q", name)
	}
}

// pageSource yields the text of pages 1..n.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

// joinPages concatenates the text of every page that yields some, in page
// order, separated by newlines.
func joinPages(src pageSource, logger *zap.Logger) string {
	var texts []string
	for i := 1; i <= src.NumPage(); i++ {
		text, err := src.PageText(i)
		if err != nil {
			logger.Debug("skipping unreadable page", zap.Int("page", i), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n")
}

type pdfParserService struct {
	logger *zap.Logger
}

func NewPDFParserService(logger *zap.Logger) DocumentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pdfParserService{logger: logger}
}

type ledongthucPages struct {
	reader *pdf.Reader
}

func (p ledongthucPages) NumPage() int {
	return p.reader.NumPage()
}

func (p ledongthucPages) PageText(i int) (string, error) {
	page := p.reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// Extract implements DocumentExtractor.
func (p *pdfParserService) Extract(doc []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	text = joinPages(ledongthucPages{reader: reader}, p.logger)
	p.logger.Debug("pdf text extracted", zap.Int("pages", reader.NumPage()), zap.Int("characters", len(text)))

	return text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
