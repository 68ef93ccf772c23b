package ytdlp

import (
	"errors"
	"strings"
)

var (
	// ErrUnsupportedURL indicates the URL is invalid or not handled by yt-dlp.
	ErrUnsupportedURL = errors.New("unsupported or invalid URL")
	// ErrMetadataFetch indicates video metadata could not be extracted.
	ErrMetadataFetch = errors.New("metadata fetch failed")
	// ErrFormatNotFound indicates the requested format or tier is absent from current metadata.
	ErrFormatNotFound = errors.New("requested format not available")
	// ErrMissingFFmpeg indicates the muxing tool is not present on the host.
	ErrMissingFFmpeg = errors.New("ffmpeg not found in PATH")
	// ErrTransfer indicates the download itself failed.
	ErrTransfer = errors.New("transfer failed")
	// ErrPostProcess indicates a post-processing step (merge, audio extraction) failed.
	ErrPostProcess = errors.New("post-processing failed")
	// ErrOutputUnresolved indicates the final file could not be located after a run.
	ErrOutputUnresolved = errors.New("could not locate downloaded output")
)

// classify maps yt-dlp stderr chatter onto the error taxonomy. Anything
// unrecognized counts as a transfer failure.
func classify(stderr string) error {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "is not a valid url"),
		strings.Contains(s, "unsupported url"):
		return ErrUnsupportedURL
	case strings.Contains(s, "requested format is not available"):
		return ErrFormatNotFound
	case strings.Contains(s, "ffmpeg") && (strings.Contains(s, "not found") || strings.Contains(s, "not installed")):
		return ErrMissingFFmpeg
	case strings.Contains(s, "postprocess"), strings.Contains(s, "error muxing"):
		return ErrPostProcess
	default:
		return ErrTransfer
	}
}
