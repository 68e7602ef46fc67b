package pdf

import "strings"

// filenameReplacer drops characters that are not safe in a filename and
// turns spaces into underscores.
var filenameReplacer = strings.NewReplacer(
	"/", "",
	"\\", "",
	"*", "",
	"?", "",
	":", "",
	`"`, "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
	" ", "_",
)

// SanitizeFilename makes name usable as a single path element
func SanitizeFilename(name string) string {
	return filenameReplacer.Replace(name)
}

// ExtractFilename builds the output name for an identifier and month label
func ExtractFilename(identifier, month string) string {
	return SanitizeFilename(identifier) + "_" + SanitizeFilename(month) + ".pdf"
}
