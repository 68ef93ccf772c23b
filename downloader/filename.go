package downloader

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxTitleLen caps derived filenames, counted in characters; yt-dlp still
// appends an extension.
const maxTitleLen = 200

var (
	illegalChars    = regexp.MustCompile(`[\\/:*?"<>|]`)
	underscoreRuns  = regexp.MustCompile(`[\s_]+`)
	fallbackOutTmpl = "%(id)s.%(ext)s"
)

// SanitizeTitle turns a video title into a filesystem-safe base name:
// illegal characters become underscores, runs of whitespace and
// underscores collapse to one, edges are trimmed and length is capped.
func SanitizeTitle(title string) string {
	name := illegalChars.ReplaceAllString(title, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	// Cap counts characters, not bytes; a byte slice could cut a
	// multi-byte rune in half.
	if utf8.RuneCountInString(name) > maxTitleLen {
		name = string([]rune(name)[:maxTitleLen])
		name = strings.TrimRight(name, "_")
	}
	return name
}
