package descriptions

// Tool descriptions shown to MCP clients

const (
	PDFExtractSheetsDescription = `Split per-person sheets out of a combined PDF.

**When to use:** A single PDF holds one page per employee, student or client (payroll slips, statements, certificates) and each person needs their own file.

**How it works:** Every page's text is extracted once. For each identifier, pages are scanned in order and the first page containing the identifier (case-insensitive) is written as a single-page PDF named <identifier>_<month>.pdf in the output directory.

**Examples:**
• Monthly payroll: path=/data/nomina.pdf, identifiers="Juan Perez\nAna Gomez", month="Enero"
• By national ID: path=/data/certificados.pdf, identifiers="1001\n1002", month="Marzo"

**Notes:** Identifiers with no matching page are reported back and produce no file. Characters that are unsafe in filenames are dropped and spaces become underscores. An existing extract with the same name is replaced.`

	PDFListExtractsDescription = `List the extracts already written to the output directory.

**When to use:** Check which sheets exist before or after running pdf_extract_sheets.

**Returns:** Name, size and modification time of each PDF in the output directory, sorted by name.`
)

const (
	PDFStatsFileDescription = `Inspect a source PDF before splitting it.

**Returns:** File size, page count, modification time and the document info fields (title, author, subject, producer, creation date) when present.`

	PDFServerInfoDescription = `Report the server name, version, output directory, size limit and available tools, together with a summary of the extracts already written.`
)

var toolDescriptions = map[string]string{
	"pdf_extract_sheets": PDFExtractSheetsDescription,
	"pdf_list_extracts":  PDFListExtractsDescription,
	"pdf_stats_file":     PDFStatsFileDescription,
	"pdf_server_info":    PDFServerInfoDescription,
}

// GetToolDescription returns the description for a tool name, or "" if unknown
func GetToolDescription(toolName string) string {
	return toolDescriptions[toolName]
}
