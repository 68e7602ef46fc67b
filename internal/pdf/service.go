package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-sheet-extractor/internal/pdf/security"
)

// Service handles sheet extraction by orchestrating the PDF components
type Service struct {
	maxFileSize   int64
	outputDir     string
	reader        *Reader
	validator     *Validator
	search        *Search
	stats         *Stats
	pathValidator *security.PathValidator
	logger        *zap.Logger
}

// NewService creates a new PDF service writing extracts into outputDirectory
func NewService(maxFileSize int64, outputDirectory string, logger *zap.Logger) (*Service, error) {
	if maxFileSize <= 0 {
		return nil, fmt.Errorf("maximum file size must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pathValidator, err := security.NewPathValidator(outputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		outputDir:     pathValidator.GetConfiguredDirectory(),
		reader:        NewReader(logger),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(),
		stats:         NewStats(maxFileSize),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// ExtractSheets writes one single-page extract per identifier found in the
// source document. Each identifier is matched against pages in order and only
// its first matching page is written. Identifiers with no match are reported
// in the result rather than treated as errors.
func (s *Service) ExtractSheets(ctx context.Context, req ExtractSheetsRequest) (*ExtractSheetsResult, error) {
	if req.Data == nil || req.Identifiers == nil || req.Month == nil {
		return nil, ErrMissingFields
	}

	identifiers := ParseIdentifiers(*req.Identifiers)
	month := strings.TrimSpace(*req.Month)
	if req.Filename == "" || len(identifiers) == 0 || month == "" {
		return nil, ErrEmptyFields
	}

	if err := s.validator.ValidateUpload(req.Filename, req.Data); err != nil {
		return nil, err
	}

	pages, err := s.reader.PageTexts(req.Data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("cannot create output directory %s: %w", s.outputDir, err)
	}

	result := &ExtractSheetsResult{
		BatchID:         uuid.New().String(),
		Files:           []string{},
		Matches:         make(map[string]int),
		Pages:           len(pages),
		OutputDirectory: s.outputDir,
	}

	logger := s.logger.With(zap.String("batch", result.BatchID))

	// Parsed lazily: a batch with no matches never needs the page writer
	var splitter *Splitter
	written := make(map[string]bool)

	for _, identifier := range identifiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageNr, ok := FindPage(pages, identifier)
		if !ok {
			result.Unmatched = append(result.Unmatched, identifier)
			logger.Debug("identifier not found", zap.String("identifier", identifier))
			continue
		}

		if splitter == nil {
			splitter, err = NewSplitter(req.Data)
			if err != nil {
				return nil, err
			}
		}

		filename := ExtractFilename(identifier, month)
		path, err := s.pathValidator.Resolve(filename)
		if err != nil {
			return nil, fmt.Errorf("invalid extract name %q: %w", filename, err)
		}

		if err := splitter.WritePage(pageNr, path); err != nil {
			return nil, fmt.Errorf("failed to write extract for %q: %w", identifier, err)
		}

		result.Matches[identifier] = pageNr
		if !written[filename] {
			written[filename] = true
			result.Files = append(result.Files, filename)
		}

		logger.Info("extract written",
			zap.String("identifier", identifier),
			zap.Int("page", pageNr),
			zap.String("file", filename))
	}

	logger.Info("batch finished",
		zap.String("source", req.Filename),
		zap.Int("pages", result.Pages),
		zap.Int("identifiers", len(identifiers)),
		zap.Int("files", len(result.Files)),
		zap.Int("unmatched", len(result.Unmatched)))

	return result, nil
}

// ExtractSheetsFromFile reads the PDF at path and runs ExtractSheets on it
func (s *Service) ExtractSheetsFromFile(ctx context.Context, path string, identifiers, month *string) (*ExtractSheetsResult, error) {
	if path == "" {
		return nil, ErrMissingFields
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if fileInfo.Size() > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), s.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	return s.ExtractSheets(ctx, ExtractSheetsRequest{
		Filename:    path,
		Data:        data,
		Identifiers: identifiers,
		Month:       month,
	})
}

// ListExtracts lists the extracts currently in the output directory
func (s *Service) ListExtracts(_ ListExtractsRequest) (*ListExtractsResult, error) {
	files, err := s.search.ListExtracts(s.outputDir)
	if err != nil {
		return nil, err
	}
	return &ListExtractsResult{
		Files:      files,
		TotalCount: len(files),
		Directory:  s.outputDir,
	}, nil
}

// FileStats describes the source PDF at path
func (s *Service) FileStats(path string) (*FileStatsResult, error) {
	return s.stats.GetFileStats(path)
}

// ExtractStats summarizes the extracts in the output directory
func (s *Service) ExtractStats() (*DirectoryStatsResult, error) {
	return s.stats.GetDirectoryStats(s.outputDir)
}

// ServerInfo reports the server identity, tools and output directory state
func (s *Service) ServerInfo(serverName, version string) *ServerInfoResult {
	return NewPDFServerInfo(s).GetServerInfo(serverName, version)
}

// OpenExtract returns the path of an existing extract in the output directory
func (s *Service) OpenExtract(name string) (string, error) {
	path, err := s.pathValidator.Resolve(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("cannot access extract: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return path, nil
}

// OutputDirectory returns the absolute directory extracts are written to
func (s *Service) OutputDirectory() string {
	return s.outputDir
}

// MaxFileSize returns the maximum accepted upload size
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}
