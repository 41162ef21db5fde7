package output

import "strings"

var invalidFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// sanitizeFilename makes name safe to use as a single path element.
func sanitizeFilename(name string) string {
	result := invalidFilenameChars.Replace(name)
	result = strings.TrimSpace(result)
	return strings.Trim(result, ".")
}
