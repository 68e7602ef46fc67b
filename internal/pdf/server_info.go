package pdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/pdf-sheet-extractor/internal/descriptions"
)

// PDFServerInfo builds the pdf_server_info report
type PDFServerInfo struct {
	service *Service
}

// NewPDFServerInfo creates a new server info handler
func NewPDFServerInfo(service *Service) *PDFServerInfo {
	return &PDFServerInfo{service: service}
}

// GetServerInfo reports the server identity, its tools and the current
// contents of the output directory
func (p *PDFServerInfo) GetServerInfo(serverName, version string) *ServerInfoResult {
	result := &ServerInfoResult{
		ServerName:      serverName,
		Version:         version,
		OutputDirectory: p.service.outputDir,
		MaxFileSize:     p.service.maxFileSize,
		AvailableTools:  p.getAvailableTools(),
		UsageGuidance:   p.getUsageGuidance(),
	}

	extracts, err := p.service.stats.GetDirectoryStats(p.service.outputDir)
	if err != nil {
		// Nothing extracted yet
		p.service.logger.Debug("output directory not readable", zap.Error(err))
		extracts = &DirectoryStatsResult{Directory: p.service.outputDir}
	}
	result.Extracts = *extracts

	return result
}

// getAvailableTools returns the list of available tools
func (p *PDFServerInfo) getAvailableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "pdf_extract_sheets",
			Description: descriptions.GetToolDescription("pdf_extract_sheets"),
			Parameters:  "path, identifiers, month (all required)",
		},
		{
			Name:        "pdf_list_extracts",
			Description: descriptions.GetToolDescription("pdf_list_extracts"),
			Parameters:  "none",
		},
		{
			Name:        "pdf_stats_file",
			Description: descriptions.GetToolDescription("pdf_stats_file"),
			Parameters:  "path (required): Full path to the PDF file",
		},
		{
			Name:        "pdf_server_info",
			Description: descriptions.GetToolDescription("pdf_server_info"),
			Parameters:  "none",
		},
	}
}

func (p *PDFServerInfo) getUsageGuidance() string {
	maxFileSizeMB := p.service.maxFileSize / (1024 * 1024)

	return fmt.Sprintf(`PDF Sheet Extractor Usage Guide:

1. CHECK THE SOURCE:
   - Use 'pdf_stats_file' to confirm the combined PDF opens and to see its page count

2. EXTRACT:
   - Use 'pdf_extract_sheets' with one identifier per line and the month label
   - Each identifier gets the first page that mentions it, saved as <identifier>_<month>.pdf
   - Identifiers that match no page are reported back

3. REVIEW:
   - Use 'pdf_list_extracts' to see what is in the output directory

IMPORTANT NOTES:
- Always use absolute file paths
- The server can handle files up to %dMB
- Matching is case-insensitive text search; scanned pages without a text layer never match
- Running the same batch again replaces extracts with the same name`, maxFileSizeMB)
}
