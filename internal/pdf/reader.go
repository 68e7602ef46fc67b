package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Reader extracts the plain text of every page of a PDF document
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new page text reader
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

// PageTexts returns the text of each page in order; index 0 holds page 1.
// Pages that cannot be read contribute an empty string so that indices
// stay aligned with page numbers.
func (r *Reader) PageTexts(data []byte) (texts []string, err error) {
	defer func() {
		// The codec panics on some malformed inputs
		if rec := recover(); rec != nil {
			texts = nil
			err = fmt.Errorf("%w: failed to parse PDF: %v", ErrInvalidPDF, rec)
		}
	}()

	pdfReader, err := openReader(data)
	if err != nil {
		return nil, err
	}

	numPages := pdfReader.NumPage()
	texts = make([]string, numPages)
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		texts[pageNum-1] = r.pageText(pdfReader, pageNum)
	}

	return texts, nil
}

// pageText extracts a single page, logging and swallowing failures
func (r *Reader) pageText(pdfReader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("page text extraction panicked",
				zap.Int("page", pageNum), zap.Any("panic", rec))
			text = ""
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	return layoutText(page.Content().Text)
}

const (
	// defaultFontSize stands in for glyphs drawn without a usable size
	defaultFontSize = 12.0
	// wordGapRatio is the horizontal gap, as a fraction of the font size,
	// above which two glyphs belong to different words
	wordGapRatio = 0.2
	// lineGapRatio is the vertical shift, as a fraction of the font size,
	// above which a glyph starts a new line
	lineGapRatio = 0.5
)

// layoutText joins positioned glyphs in content stream order. Words drawn as
// separate runs get a space between them and baseline changes become
// newlines, so "JUAN" and "PEREZ" placed apart read as "JUAN PEREZ".
func layoutText(glyphs []pdf.Text) string {
	var sb strings.Builder
	var prev pdf.Text
	started := false

	for _, g := range glyphs {
		// TJ arrays end with a synthetic newline glyph; position decides lines
		if g.S == "" || g.S == "\n" {
			continue
		}

		if started {
			size := math.Abs(prev.FontSize)
			if size == 0 {
				size = defaultFontSize
			}
			gap := g.X - (prev.X + prev.W)

			switch {
			case math.Abs(g.Y-prev.Y) > size*lineGapRatio:
				sb.WriteByte('\n')
			case gap > size*wordGapRatio || gap < -size:
				if !isBlank(prev.S) && !isBlank(g.S) {
					sb.WriteByte(' ')
				}
			}
		}

		sb.WriteString(g.S)
		prev = g
		started = true
	}

	return sb.String()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// openReader parses data with ledongthuc/pdf, turning its panics into errors
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, rec)
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return r, nil
}
