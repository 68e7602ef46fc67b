package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestReadIdentifiersFile_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	if err := os.WriteFile(path, []byte("Ana Gomez\r\nJuan Perez\n"), 0o644); err != nil {
		t.Fatalf("failed to write identifiers: %v", err)
	}

	raw, err := ReadIdentifiersFile(path)
	if err != nil {
		t.Fatalf("ReadIdentifiersFile() unexpected error: %v", err)
	}

	want := []string{"Ana Gomez", "Juan Perez"}
	if diff := cmp.Diff(want, ParseIdentifiers(raw)); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestReadIdentifiersFile_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empleados.xlsx")

	f := excelize.NewFile()
	cells := map[string]string{
		"A1": "Ana Gomez",
		"B1": "Contabilidad",
		"A2": "",
		"B2": "1002",
		"A4": "Juan Perez",
	}
	for cell, value := range cells {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellValue(%s) error: %v", cell, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	raw, err := ReadIdentifiersFile(path)
	if err != nil {
		t.Fatalf("ReadIdentifiersFile() unexpected error: %v", err)
	}

	want := []string{"Ana Gomez", "1002", "Juan Perez"}
	if diff := cmp.Diff(want, ParseIdentifiers(raw)); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestReadIdentifiersFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadIdentifiersFile(filepath.Join(dir, "absent.txt")); err == nil {
		t.Error("expected error for missing text file")
	}

	broken := filepath.Join(dir, "broken.xlsx")
	if err := os.WriteFile(broken, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	_, err := ReadIdentifiersFile(broken)
	if err == nil || !strings.Contains(err.Error(), "open xlsx") {
		t.Errorf("expected open xlsx error, got: %v", err)
	}
}

func TestReadIdentifiers(t *testing.T) {
	raw, err := ReadIdentifiers(strings.NewReader("1001\n1002\n"))
	if err != nil {
		t.Fatalf("ReadIdentifiers() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"1001", "1002"}, ParseIdentifiers(raw)); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}
}
