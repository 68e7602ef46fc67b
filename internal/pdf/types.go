package pdf

import "errors"

// Sentinel errors returned by the service. Callers match them with errors.Is.
var (
	// ErrMissingFields means a required input was not supplied at all
	ErrMissingFields = errors.New("missing required fields")
	// ErrEmptyFields means every required input was supplied but one is blank
	ErrEmptyFields = errors.New("all fields are required")
	// ErrInvalidPDF means the upload is not a readable PDF document
	ErrInvalidPDF = errors.New("invalid PDF")
	// ErrNotFound means a requested extract does not exist
	ErrNotFound = errors.New("extract not found")
)

// FileInfo represents information about an extract in the output directory
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExtractSheetsRequest describes one batch: a source PDF, the raw identifier
// list (one per line) and the month label used in every output filename.
//
// A nil Data or a nil Identifiers/Month pointer means the field was absent;
// an empty value means it was present but blank.
type ExtractSheetsRequest struct {
	Filename    string  `json:"filename"`
	Data        []byte  `json:"-"`
	Identifiers *string `json:"identifiers,omitempty"`
	Month       *string `json:"month,omitempty"`
}

// ListExtractsRequest represents a request to list produced extracts
type ListExtractsRequest struct{}

// Response Types

// ExtractSheetsResult represents the outcome of a batch
type ExtractSheetsResult struct {
	// BatchID identifies this run in logs
	BatchID string `json:"batch_id"`
	// Files lists the written extract names in first-match order, without duplicates
	Files []string `json:"files"`
	// Unmatched lists identifiers that no page contained
	Unmatched []string `json:"unmatched,omitempty"`
	// Matches maps each matched identifier to its 1-based page number
	Matches map[string]int `json:"matches"`
	// Pages is the page count of the source document
	Pages int `json:"pages"`
	// OutputDirectory is where the extracts were written
	OutputDirectory string `json:"output_directory"`
}

// ListExtractsResult represents the extracts currently in the output directory
type ListExtractsResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
}

// FileStatsResult describes a source PDF
type FileStatsResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	ModifiedDate string `json:"modified_date"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
}

// DirectoryStatsResult summarizes the extracts in the output directory
type DirectoryStatsResult struct {
	Directory        string `json:"directory"`
	TotalFiles       int    `json:"total_files"`
	TotalSize        int64  `json:"total_size"`
	LargestFileSize  int64  `json:"largest_file_size"`
	LargestFileName  string `json:"largest_file_name,omitempty"`
	SmallestFileSize int64  `json:"smallest_file_size"`
	SmallestFileName string `json:"smallest_file_name,omitempty"`
	AverageFileSize  int64  `json:"average_file_size"`
	LastModified     string `json:"last_modified,omitempty"`
}

// ToolInfo describes one MCP tool for server info
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult reports what the server offers and where it writes
type ServerInfoResult struct {
	ServerName      string               `json:"server_name"`
	Version         string               `json:"version"`
	OutputDirectory string               `json:"output_directory"`
	MaxFileSize     int64                `json:"max_file_size"`
	AvailableTools  []ToolInfo           `json:"available_tools"`
	Extracts        DirectoryStatsResult `json:"extracts"`
	UsageGuidance   string               `json:"usage_guidance"`
}

// StringPtr returns a pointer to s, for building requests from literals
func StringPtr(s string) *string {
	return &s
}
