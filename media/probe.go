package media

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// FileInfo is what ffprobe reports about a finished download.
type FileInfo struct {
	DurationMs int64
	Bitrate    int // kbps
	Format     string
	Size       int64
}

type ffprobeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
}

// ProbeFile analyzes a downloaded media file using ffprobe.
func ProbeFile(ffprobePath, path string) (*FileInfo, error) {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(
		ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var data ffprobeOutput
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	// Use OS reported size for accuracy
	meta := &FileInfo{
		Size:   info.Size(),
		Format: data.Format.FormatName,
	}

	// Duration (seconds string -> ms int64)
	if durSec, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil {
		meta.DurationMs = int64(durSec * 1000)
	}

	// Bitrate (bps string -> kbps int)
	if br, err := strconv.ParseInt(data.Format.BitRate, 10, 64); err == nil {
		meta.Bitrate = int(br / 1000)
	}

	return meta, nil
}
