// Package media : domain types shared between the extraction client,
// the format/quality logic and the UI layers.
package media

// StreamDescriptor describes one downloadable audio/video variant of a
// source video, as reported by the extraction client. A descriptor is
// immutable once obtained and only lives as long as the metadata fetch
// that produced it.
type StreamDescriptor struct {
	FormatID     string  `json:"format_id"`
	Ext          string  `json:"ext,omitempty"`
	FormatNote   string  `json:"format_note,omitempty"`
	Filesize     int64   `json:"filesize,omitempty"`
	Resolution   string  `json:"resolution,omitempty"`
	Height       int     `json:"height,omitempty"`
	Width        int     `json:"width,omitempty"`
	TBR          float64 `json:"tbr,omitempty"` // total bitrate, kbps
	VCodec       string  `json:"vcodec,omitempty"`
	ACodec       string  `json:"acodec,omitempty"`
	FPS          float64 `json:"fps,omitempty"`
	Protocol     string  `json:"protocol,omitempty"`
	DynamicRange string  `json:"dynamic_range,omitempty"`

	// URL is the direct stream URL. Never serialized back to clients.
	URL string `json:"-"`
}

// HasVideo reports whether the stream carries a video channel.
func (f StreamDescriptor) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the stream carries an audio channel.
func (f StreamDescriptor) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// MediaMetadata is one video's attributes plus its stream list. Created
// fresh per lookup and never mutated after construction.
type MediaMetadata struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Duration    int                `json:"duration"` // seconds, 0 if unknown
	Uploader    string             `json:"uploader,omitempty"`
	UploadDate  string             `json:"upload_date,omitempty"`
	ViewCount   int64              `json:"view_count,omitempty"`
	Thumbnail   string             `json:"thumbnail,omitempty"`
	Formats     []StreamDescriptor `json:"formats"`
	URL         string             `json:"url"`
}

// QualityOption is a user-facing quality tier tied to a format selection
// expression the extraction client understands. Derived per URL query,
// never persisted.
type QualityOption struct {
	Name         string `json:"name"`
	Height       int    `json:"height"`
	ActualHeight int    `json:"actual_height"`
	Selector     string `json:"format_selector"`
	Description  string `json:"description"`
}
