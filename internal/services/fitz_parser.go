package services

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

type fitzParserService struct {
	logger *zap.Logger
}

// NewFitzParserService returns an extractor backed by MuPDF.
func NewFitzParserService(logger *zap.Logger) DocumentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fitzParserService{logger: logger}
}

type fitzPages struct {
	doc *fitz.Document
}

func (p fitzPages) NumPage() int {
	return p.doc.NumPage()
}

// PageText maps 1-based page numbers to fitz's 0-based ones.
func (p fitzPages) PageText(i int) (string, error) {
	return p.doc.Text(i - 1)
}

// Extract implements DocumentExtractor.
func (f *fitzParserService) Extract(doc []byte) (string, error) {
	d, err := fitz.NewFromMemory(doc)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer d.Close()

	text := joinPages(fitzPages{doc: d}, f.logger)
	f.logger.Debug("pdf text extracted", zap.Int("pages", d.NumPage()), zap.Int("characters", len(text)))

	return text, nil
}
