package compose

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// SubtitleFromFilename derives a human caption from a media filename:
// "Reaching_the-Viewpoint.mp4" becomes "Reaching The Viewpoint".
func SubtitleFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = camelBoundary.ReplaceAllString(base, "$1 $2")

	words := strings.Fields(base)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}
