// Package ytdlp shells out to the yt-dlp binary. Site extraction, stream
// negotiation and container muxing all stay inside yt-dlp and ffmpeg;
// this package only assembles arguments and parses what comes back.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"quasar/tubedash/media"
)

// Client wraps one yt-dlp binary plus the ffmpeg it needs for merging.
type Client struct {
	BinPath    string
	FFmpegPath string
}

func New() *Client {
	return &Client{BinPath: "yt-dlp", FFmpegPath: "ffmpeg"}
}

func (c *Client) bin() string {
	if c.BinPath == "" {
		return "yt-dlp"
	}
	return c.BinPath
}

func (c *Client) ffmpeg() string {
	if c.FFmpegPath == "" {
		return "ffmpeg"
	}
	return c.FFmpegPath
}

// FFmpegAvailable reports whether the muxing tool is executable on this host.
func (c *Client) FFmpegAvailable() bool {
	_, err := exec.LookPath(c.ffmpeg())
	return err == nil
}

// Validate runs a side-effect-free probe against the URL. A failed probe
// means "treat as invalid", never "retry".
func (c *Client) Validate(ctx context.Context, rawURL string) bool {
	cmd := exec.CommandContext(ctx, c.bin(),
		"--simulate",
		"--flat-playlist",
		"--quiet",
		"--no-warnings",
		rawURL,
	)
	return cmd.Run() == nil
}

// rawFormat mirrors the wire shape of one formats[] entry in yt-dlp -J
// output. Heights and bitrates come back as nullable numbers.
type rawFormat struct {
	FormatID     string   `json:"format_id"`
	URL          string   `json:"url"`
	Ext          string   `json:"ext"`
	FormatNote   string   `json:"format_note"`
	Filesize     int64    `json:"filesize"`
	FilesizeApx  int64    `json:"filesize_approx"`
	Resolution   string   `json:"resolution"`
	Height       *int     `json:"height"`
	Width        *int     `json:"width"`
	TBR          *float64 `json:"tbr"`
	VCodec       string   `json:"vcodec"`
	ACodec       string   `json:"acodec"`
	FPS          *float64 `json:"fps"`
	Protocol     string   `json:"protocol"`
	DynamicRange string   `json:"dynamic_range"`
}

type rawInfo struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Duration    float64     `json:"duration"`
	Uploader    string      `json:"uploader"`
	UploadDate  string      `json:"upload_date"`
	ViewCount   int64       `json:"view_count"`
	Thumbnail   string      `json:"thumbnail"`
	Formats     []rawFormat `json:"formats"`
}

// FetchMetadata extracts video metadata, including the raw stream list,
// without downloading anything. The descriptors come back unfiltered;
// ranking and filtering belong to the formats package.
func (c *Client) FetchMetadata(ctx context.Context, rawURL string) (*media.MediaMetadata, error) {
	cmd := exec.CommandContext(ctx, c.bin(),
		"-J",
		"--no-playlist",
		"--no-warnings",
		rawURL,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		cause := classify(stderr.String())
		if cause == ErrTransfer {
			cause = ErrMetadataFetch
		}
		return nil, fmt.Errorf("fetch metadata %s: %w: %s", rawURL, cause, excerpt(stderr.String()))
	}

	var info rawInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w: bad JSON: %v", rawURL, ErrMetadataFetch, err)
	}

	return info.toMetadata(rawURL), nil
}

func (r rawInfo) toMetadata(sourceURL string) *media.MediaMetadata {
	meta := &media.MediaMetadata{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Duration:    int(r.Duration),
		Uploader:    r.Uploader,
		UploadDate:  r.UploadDate,
		ViewCount:   r.ViewCount,
		Thumbnail:   r.Thumbnail,
		URL:         sourceURL,
		Formats:     make([]media.StreamDescriptor, 0, len(r.Formats)),
	}
	for _, f := range r.Formats {
		d := media.StreamDescriptor{
			FormatID:     f.FormatID,
			URL:          f.URL,
			Ext:          f.Ext,
			FormatNote:   f.FormatNote,
			Filesize:     f.Filesize,
			Resolution:   f.Resolution,
			VCodec:       f.VCodec,
			ACodec:       f.ACodec,
			Protocol:     f.Protocol,
			DynamicRange: f.DynamicRange,
		}
		if d.Filesize == 0 {
			d.Filesize = f.FilesizeApx
		}
		if f.Height != nil {
			d.Height = *f.Height
		}
		if f.Width != nil {
			d.Width = *f.Width
		}
		if f.TBR != nil {
			d.TBR = *f.TBR
		}
		if f.FPS != nil {
			d.FPS = *f.FPS
		}
		meta.Formats = append(meta.Formats, d)
	}
	return meta
}

// excerpt keeps error messages actionable without dumping pages of stderr.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "ERROR:"); i >= 0 {
		s = s[i:]
	}
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
