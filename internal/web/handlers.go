package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-sheet-extractor/internal/pdf"
)

// Messages shown on the form page
const (
	msgMissingFields = "Error: Faltan campos en el formulario."
	msgEmptyFields   = "Error: Todos los campos son obligatorios."
	msgNoMatches     = "No se encontraron coincidencias para los identificadores proporcionados."
	msgSuccessFormat = "Éxito: Se procesaron %d archivos."
	msgErrorFormat   = "Error al procesar el PDF: %v"

	// successMarker selects the success styling for a message
	successMarker = "Éxito"
)

// maxMemory is how much of a multipart body is kept in memory before
// spilling to temp files
const maxMemory = 32 << 20

type extractLink struct {
	Name string
	URL  string
}

type pageData struct {
	Message   string
	Success   bool
	Files     []extractLink
	Unmatched []string
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, pageData{})
}

func (s *Server) extractSheets(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			s.renderMessage(w, fmt.Sprintf(msgErrorFormat,
				fmt.Sprintf("file too large (max: %d bytes)", s.service.MaxFileSize())))
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			s.renderMessage(w, msgMissingFields)
		default:
			s.logger.Warn("failed to parse form", zap.Error(err))
			s.renderMessage(w, fmt.Sprintf(msgErrorFormat, err))
		}
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req, err := s.readRequest(r)
	if err != nil {
		s.logger.Warn("failed to read upload", zap.Error(err))
		s.renderMessage(w, fmt.Sprintf(msgErrorFormat, err))
		return
	}

	result, err := s.service.ExtractSheets(r.Context(), req)
	if err != nil {
		s.renderError(w, err)
		return
	}

	if len(result.Files) == 0 {
		s.render(w, pageData{Message: msgNoMatches, Unmatched: result.Unmatched})
		return
	}

	data := pageData{
		Message:   fmt.Sprintf(msgSuccessFormat, len(result.Files)),
		Unmatched: result.Unmatched,
	}
	for _, name := range result.Files {
		data.Files = append(data.Files, extractLink{
			Name: name,
			URL:  "/output/" + url.PathEscape(name),
		})
	}
	data.Success = strings.Contains(data.Message, successMarker)
	s.render(w, data)
}

// readRequest maps the parsed form onto a service request. Absent fields stay
// nil so the service can tell them apart from blank ones.
func (s *Server) readRequest(r *http.Request) (pdf.ExtractSheetsRequest, error) {
	var req pdf.ExtractSheetsRequest

	req.Identifiers = formValue(r, "identifiers")
	req.Month = formValue(r, "month")

	file, header, err := r.FormFile("pdf_file")
	if errors.Is(err, http.ErrMissingFile) {
		// A file input left empty arrives as a part without a filename,
		// which the multipart reader stores as a plain value
		if formValue(r, "pdf_file") != nil {
			req.Data = []byte{}
		}
		return req, nil
	}
	if err != nil {
		return req, fmt.Errorf("read pdf_file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, fmt.Errorf("read pdf_file: %w", err)
	}

	req.Filename = header.Filename
	req.Data = data
	return req, nil
}

func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pdf.ErrMissingFields):
		s.renderMessage(w, msgMissingFields)
	case errors.Is(err, pdf.ErrEmptyFields):
		s.renderMessage(w, msgEmptyFields)
	default:
		s.logger.Warn("extraction failed", zap.Error(err))
		s.renderMessage(w, fmt.Sprintf(msgErrorFormat, err))
	}
}

func (s *Server) renderMessage(w http.ResponseWriter, message string) {
	s.render(w, pageData{
		Message: message,
		Success: strings.Contains(message, successMarker),
	})
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func (s *Server) serveExtract(w http.ResponseWriter, r *http.Request) {
	// chi matches on the raw path only when the request carries a
	// non-canonical encoding; otherwise the parameter is already decoded
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		name = unescaped
	}

	path, err := s.service.OpenExtract(name)
	if err != nil {
		if errors.Is(err, pdf.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			s.logger.Error("open extract", zap.String("name", name), zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	escaped := strings.ReplaceAll(filepath.Base(path), `"`, `\"`)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, escaped))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) listExtracts(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.ListExtracts(pdf.ListExtractsRequest{})
	if err != nil {
		s.logger.Error("list extracts", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, result)
}

func (s *Server) extractStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.ExtractStats()
	if err != nil {
		s.logger.Error("extract stats", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}
