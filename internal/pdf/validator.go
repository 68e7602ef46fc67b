package pdf

import (
	"bytes"
	"fmt"
)

// pdfHeader is the magic every PDF file starts with
var pdfHeader = []byte("%PDF-")

// Validator handles validation of uploaded PDF documents
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateUpload performs cheap checks on an upload before it is parsed
func (v *Validator) ValidateUpload(filename string, data []byte) error {
	if filename == "" {
		return fmt.Errorf("%w: no file selected", ErrEmptyFields)
	}

	if len(data) == 0 {
		return fmt.Errorf("%w: file is empty: %s", ErrInvalidPDF, filename)
	}

	if int64(len(data)) > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			len(data), v.maxFileSize)
	}

	if !bytes.HasPrefix(data, pdfHeader) {
		return fmt.Errorf("%w: missing PDF header: %s", ErrInvalidPDF, filename)
	}

	return nil
}

// IsValidPDF performs a quick check to see if data looks like a PDF
func (v *Validator) IsValidPDF(data []byte) bool {
	return v.ValidateUpload("upload.pdf", data) == nil
}
