// Package pdftest builds small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Layout selects how the words of each line are drawn
type Layout int

const (
	// LineRuns draws each line with a single Tj
	LineRuns Layout = iota
	// WordMoves draws each word with its own Tj after a Td move
	WordMoves
	// KernedWords draws each line as one TJ array with a kerning gap
	// between words in place of space characters
	KernedWords
)

// wordAdvance is the Td offset between words in WordMoves
const wordAdvance = 60

// Build returns an uncompressed PDF with one page per entry in pages.
// Each line of a page string is drawn as its own text-showing operation in
// Helvetica. Text must be printable ASCII.
func Build(pages ...string) []byte {
	return build(nil, LineRuns, pages)
}

// BuildLayout is Build with the words of every line drawn per layout
func BuildLayout(layout Layout, pages ...string) []byte {
	return build(nil, layout, pages)
}

// BuildWithInfo is Build plus a document info dictionary holding info's
// entries, e.g. {"Title": "Nomina"}
func BuildWithInfo(info map[string]string, pages ...string) []byte {
	return build(info, LineRuns, pages)
}

func build(info map[string]string, layout Layout, pages []string) []byte {
	var objects []string

	// 1: catalog, 2: page tree, 3: font, then a page and its content per page
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObjNum(i))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pages {
		content := contentStream(text, layout)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageObjNum(i)+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	trailerInfo := ""
	if len(info) > 0 {
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var dict strings.Builder
		dict.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&dict, " /%s (%s)", k, literalEscaper.Replace(info[k]))
		}
		dict.WriteString(" >>")
		objects = append(objects, dict.String())
		trailerInfo = fmt.Sprintf(" /Info %d 0 R", len(objects))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, trailerInfo, xrefOffset)

	return buf.Bytes()
}

// WriteFile builds a PDF from pages and writes it to dir/name
func WriteFile(tb testing.TB, dir, name string, pages ...string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(pages...), 0o644); err != nil {
		tb.Fatalf("failed to write test PDF %s: %v", path, err)
	}
	return path
}

func pageObjNum(i int) int {
	return 4 + 2*i
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func contentStream(text string, layout Layout) string {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 12 Tf\n72 720 Td\n14 TL\n")

	// x offset of the line matrix from the left margin, moved by WordMoves
	offset := 0
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			if offset != 0 {
				fmt.Fprintf(&sb, "%d -14 Td\n", -offset)
				offset = 0
			} else {
				sb.WriteString("T*\n")
			}
		}

		switch layout {
		case WordMoves:
			for j, word := range strings.Fields(line) {
				if j > 0 {
					fmt.Fprintf(&sb, "%d 0 Td\n", wordAdvance)
					offset += wordAdvance
				}
				fmt.Fprintf(&sb, "(%s) Tj\n", literalEscaper.Replace(word))
			}
		case KernedWords:
			sb.WriteString("[")
			for j, word := range strings.Fields(line) {
				if j > 0 {
					sb.WriteString(" -300 ")
				}
				fmt.Fprintf(&sb, "(%s)", literalEscaper.Replace(word))
			}
			sb.WriteString("] TJ\n")
		default:
			fmt.Fprintf(&sb, "(%s) Tj\n", literalEscaper.Replace(line))
		}
	}

	sb.WriteString("ET")
	return sb.String()
}
