// Package pdfextract produces per-page plain text from PDF bytes.
package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF signals that the byte stream is not a parseable PDF container.
// This is fatal for the calling operation; single unreadable pages are not.
var ErrNotPDF = errors.New("not a parseable pdf")

// ExtractPages returns the document's total page count and the text of the
// first min(total, maxPages) pages in order. Pages that yield no text come
// back as empty strings; only an unreadable container fails the call.
func ExtractPages(data []byte, maxPages int) (int, []string, error) {
	reader, err := open(data)
	if err != nil {
		return 0, nil, err
	}

	total := reader.NumPage()
	n := total
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, pageText(reader, i))
	}
	return total, pages, nil
}

// ExtractFirstPages is the preview variant: it extracts up to maxPages pages
// and joins the non-empty ones with a blank-line separator.
func ExtractFirstPages(data []byte, maxPages int) (int, string, error) {
	total, pages, err := ExtractPages(data, maxPages)
	if err != nil {
		return 0, "", err
	}

	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return total, strings.TrimSpace(strings.Join(parts, "\n\n")), nil
}

// Extractor adapts the package functions for consumers that take the
// extraction step as a collaborator.
type Extractor struct{}

func (Extractor) ExtractPages(data []byte, maxPages int) (int, []string, error) {
	return ExtractPages(data, maxPages)
}

func open(data []byte) (reader *pdf.Reader, err error) {
	// The parser panics on some malformed files instead of returning an
	// error; fold both outcomes into ErrNotPDF.
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNotPDF)
	}
	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	return reader, nil
}

func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(content)
}
