package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpu otherwise creates a config directory under the user's home
var disableConfigDirOnce sync.Once

// Splitter writes single pages of a source document out as standalone PDFs.
// The source is parsed once and shared by every WritePage call.
type Splitter struct {
	ctx *model.Context
}

// NewSplitter reads, validates and optimizes data for page extraction
func NewSplitter(data []byte) (*Splitter, error) {
	disableConfigDirOnce.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PDF context: %v", ErrInvalidPDF, err)
	}

	return &Splitter{ctx: ctx}, nil
}

// PageCount returns the number of pages in the source document
func (s *Splitter) PageCount() int {
	return s.ctx.PageCount
}

// tempExtractPrefix names extracts that are still being written
const tempExtractPrefix = ".extract-"

// WritePage writes page pageNr to path as a single-page PDF. The file is
// written under a temporary name and renamed into place, so path either holds
// a complete extract or is left untouched.
func (s *Splitter) WritePage(pageNr int, path string) error {
	if pageNr < 1 || pageNr > s.PageCount() {
		return fmt.Errorf("page %d out of range (document has %d pages)", pageNr, s.PageCount())
	}

	pageReader, err := api.ExtractPage(s.ctx, pageNr)
	if err != nil {
		return fmt.Errorf("failed to extract page %d: %w", pageNr, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tempExtractPrefix+"*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, pageReader); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write page %d: %w", pageNr, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move extract into place: %w", err)
	}

	return nil
}
