package media

import (
	"fmt"
	"strconv"
	"strings"
)

// ProgressStatus tags one progress event.
type ProgressStatus string

const (
	StatusDownloading ProgressStatus = "downloading"
	StatusFinished    ProgressStatus = "finished"
	StatusError       ProgressStatus = "error"
	StatusMerging     ProgressStatus = "merging"
	StatusUnknown     ProgressStatus = "unknown"
)

// Progress is one normalized progress record. Produced per event,
// handed to the observer and not retained.
type Progress struct {
	Status     ProgressStatus `json:"status"`
	Percentage float64        `json:"percentage"` // 0..100
	Speed      string         `json:"speed,omitempty"`
	ETA        string         `json:"eta,omitempty"`
	Filename   string         `json:"filename,omitempty"`
	ErrorMsg   string         `json:"error_message,omitempty"`

	// Raw is the untouched payload, kept for diagnostics.
	Raw map[string]any `json:"-"`
}

// ParseProgress maps one raw progress payload from the extraction client
// into a Progress record. The payload shape is controlled by yt-dlp and
// loosely typed; this function is the boundary that keeps that shape out
// of the rest of the system. It is pure: no I/O, no state between calls,
// safe to run on whatever goroutine the client invokes its hook from.
func ParseProgress(raw map[string]any) Progress {
	status := StatusUnknown
	if s, ok := raw["status"].(string); ok && s != "" {
		status = ProgressStatus(s)
	}

	p := Progress{Status: status, Raw: raw}

	switch status {
	case StatusDownloading:
		total := asFloat(raw["total_bytes"])
		if total <= 0 {
			total = asFloat(raw["total_bytes_estimate"])
		}
		if total > 0 {
			p.Percentage = asFloat(raw["downloaded_bytes"]) / total * 100
		} else if s, ok := raw["_percent_str"].(string); ok {
			p.Percentage = parsePercent(s)
		}
		p.Speed, _ = raw["_speed_str"].(string)
		p.ETA, _ = raw["_eta_str"].(string)
		p.Filename, _ = raw["filename"].(string)

	case StatusFinished:
		p.Percentage = 100.0
		p.Filename, _ = raw["filename"].(string)

	case StatusError:
		if msg, ok := raw["error"]; ok && msg != nil {
			p.ErrorMsg = fmt.Sprintf("%v", msg)
		} else {
			p.ErrorMsg = "Unknown error"
		}
		p.Filename, _ = raw["filename"].(string)

	case StatusMerging:
		// Transfer is done once merging starts.
		p.Percentage = 100.0
		p.Filename, _ = raw["filename"].(string)
	}

	return p
}

// asFloat coerces the numeric shapes yt-dlp emits (JSON numbers decode as
// float64, but ints and numeric strings show up too).
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func parsePercent(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
