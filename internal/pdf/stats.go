package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Stats handles PDF statistics operations
type Stats struct {
	maxFileSize int64
	validator   *Validator
	search      *Search
}

// NewStats creates a new PDF stats analyzer with the specified constraints
func NewStats(maxFileSize int64) *Stats {
	return &Stats{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
		search:      NewSearch(),
	}
}

// GetFileStats describes a source PDF: size, page count and document info
func (s *Stats) GetFileStats(path string) (*FileStatsResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
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
	if err := s.validator.ValidateUpload(filepath.Base(path), data); err != nil {
		return nil, err
	}

	r, err := openReader(data)
	if err != nil {
		return nil, err
	}

	result := &FileStatsResult{
		Path:         path,
		Size:         fileInfo.Size(),
		Pages:        r.NumPage(),
		ModifiedDate: fileInfo.ModTime().Format("2006-01-02 15:04:05"),
	}

	s.extractMetadata(r, result)

	return result, nil
}

// GetDirectoryStats summarizes the extracts in directory
func (s *Stats) GetDirectoryStats(directory string) (*DirectoryStatsResult, error) {
	files, err := s.search.ListExtracts(directory)
	if err != nil {
		return nil, err
	}

	result := &DirectoryStatsResult{
		Directory:  directory,
		TotalFiles: len(files),
	}

	for i, file := range files {
		result.TotalSize += file.Size

		if i == 0 || file.Size > result.LargestFileSize {
			result.LargestFileSize = file.Size
			result.LargestFileName = file.Name
		}
		if i == 0 || file.Size < result.SmallestFileSize {
			result.SmallestFileSize = file.Size
			result.SmallestFileName = file.Name
		}
		if file.ModifiedTime > result.LastModified {
			result.LastModified = file.ModifiedTime
		}
	}

	if result.TotalFiles > 0 {
		result.AverageFileSize = result.TotalSize / int64(result.TotalFiles)
	}

	return result, nil
}

// extractMetadata copies the document info dictionary into result
func (s *Stats) extractMetadata(r *pdf.Reader, result *FileStatsResult) {
	defer func() {
		// Malformed info dictionaries leave the basic stats in place
		_ = recover()
	}()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return
	}

	text := func(key string) string {
		return strings.TrimSpace(info.Key(key).Text())
	}

	result.Title = text("Title")
	result.Author = text("Author")
	result.Subject = text("Subject")
	result.Producer = text("Producer")
	result.CreatedDate = text("CreationDate")
}
