package pdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/a3tai/pdf-sheet-extractor/internal/pdf/pdftest"
)

func TestReader_PageTexts(t *testing.T) {
	reader := NewReader(nil)

	data := pdftest.Build(
		"Payroll summary",
		"EMPLEADO: JUAN PEREZ\nSalario: 100",
		"Empleado: Ana Gomez",
	)

	texts, err := reader.PageTexts(data)
	if err != nil {
		t.Fatalf("PageTexts() unexpected error: %v", err)
	}

	if len(texts) != 3 {
		t.Fatalf("PageTexts() returned %d pages, want 3", len(texts))
	}

	wants := []string{"Payroll summary", "JUAN PEREZ", "Ana Gomez"}
	for i, want := range wants {
		if !strings.Contains(texts[i], want) {
			t.Errorf("page %d text = %q, want it to contain %q", i+1, texts[i], want)
		}
	}

	if strings.Contains(texts[0], "Ana Gomez") {
		t.Errorf("page 1 text leaked content from page 3: %q", texts[0])
	}
}

func TestReader_PageTexts_SeparatelyDrawnWords(t *testing.T) {
	reader := NewReader(nil)

	layouts := []struct {
		name   string
		layout pdftest.Layout
	}{
		{name: "single run per line", layout: pdftest.LineRuns},
		{name: "word per text move", layout: pdftest.WordMoves},
		{name: "kerned text array", layout: pdftest.KernedWords},
	}

	for _, tt := range layouts {
		t.Run(tt.name, func(t *testing.T) {
			data := pdftest.BuildLayout(tt.layout,
				"Resumen general",
				"EMPLEADO: JUAN PEREZ\nSalario: 100",
			)

			texts, err := reader.PageTexts(data)
			if err != nil {
				t.Fatalf("PageTexts() unexpected error: %v", err)
			}
			if len(texts) != 2 {
				t.Fatalf("PageTexts() returned %d pages, want 2", len(texts))
			}

			if want := "EMPLEADO: JUAN PEREZ\nSalario: 100"; texts[1] != want {
				t.Errorf("page 2 text = %q, want %q", texts[1], want)
			}

			page, ok := FindPage(texts, "juan perez")
			if !ok || page != 2 {
				t.Errorf("FindPage(juan perez) = %d, %v, want 2, true", page, ok)
			}
		})
	}
}

func TestReader_PageTexts_EscapedCharacters(t *testing.T) {
	reader := NewReader(nil)

	texts, err := reader.PageTexts(pdftest.Build(`Ref (A\B) 7`))
	if err != nil {
		t.Fatalf("PageTexts() unexpected error: %v", err)
	}
	if len(texts) != 1 || !strings.Contains(texts[0], `(A\B)`) {
		t.Errorf("PageTexts() = %q, want escaped literal decoded", texts)
	}
}

func TestReader_PageTexts_InvalidData(t *testing.T) {
	reader := NewReader(nil)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not a pdf", data: []byte("This is not a PDF")},
		{name: "header only", data: []byte("%PDF-1.4\n")},
		{name: "truncated", data: pdftest.Build("hello")[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.PageTexts(tt.data)
			if err == nil {
				t.Fatal("PageTexts() expected error for invalid data")
			}
			if !errors.Is(err, ErrInvalidPDF) {
				t.Errorf("PageTexts() error = %v, want ErrInvalidPDF", err)
			}
		})
	}
}
