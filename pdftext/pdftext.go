// Package pdftext extracts plain text from PDF files using pdfcpu. It is
// the byte-to-text collaborator of the analysis pipeline: extraction is
// bounded to a caller-supplied page limit, and a PDF whose decoded text is
// mostly non-printable garbage (typically a scanned image without a text
// layer) yields empty text rather than noise.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// minPrintableRatio is the share of printable runes below which decoded
// text is treated as having no usable textual layer.
const minPrintableRatio = 0.85

// Extractor reads PDF text via pdfcpu content streams. The zero value is
// usable; New exists for symmetry with the rest of the module.
type Extractor struct{}

// New returns a PDF text extractor.
func New() *Extractor { return &Extractor{} }

// ExtractText returns the plain text of the first maxPages pages of the PDF
// at path (all pages when maxPages <= 0). Corrupted, encrypted or otherwise
// unreadable files return an error; a readable file without a usable text
// layer returns an empty string and no error.
func (e *Extractor) ExtractText(path string, maxPages int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("pdf read %s: %w", path, err)
	}

	pages := ctx.PageCount
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for nr := 1; nr <= pages; nr++ {
		pageText := pageText(ctx, nr)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(pageText)
	}

	text := sb.String()
	if printableRatio(text) < minPrintableRatio {
		return "", nil
	}
	return text, nil
}

// pageText decodes the content stream of one page. Pages that cannot be
// decoded contribute nothing rather than failing the whole document.
func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return decodeContentStream(data)
}

// printableRatio reports the share of printable runes in text. Empty text
// counts as fully printable so that a zero-page document maps to the
// empty-content branch upstream instead of a garbage verdict.
func printableRatio(text string) float64 {
	if text == "" {
		return 1.0
	}
	total, printable := 0, 0
	for _, r := range text {
		total++
		// Private Use Area runes and U+FFFD are how broken font maps surface.
		if r >= 0xE000 && r <= 0xF8FF || r == 0xFFFD {
			continue
		}
		if r == '\n' || r == '\r' || r == '\t' || unicode.IsPrint(r) {
			printable++
		}
	}
	return float64(printable) / float64(total)
}
