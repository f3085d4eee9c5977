package pdfs

import (
	"regexp"
	"strings"
)

// whitespace, path separators and the characters Windows rejects in file names
var unsafeRun = regexp.MustCompile(`[\s/\\:*?"<>|\x00-\x1f\x7f]+`)

// Filename returns "ficha-tecnica-<slug>.pdf" where the slug is the lower-cased
// recipe name with every run of whitespace or unsafe characters replaced by "-".
// The result is always a single path element.
func Filename(recipeName string) string {
	return "ficha-tecnica-" + unsafeRun.ReplaceAllString(strings.ToLower(recipeName), "-") + ".pdf"
}
