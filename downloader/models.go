package downloader

// DownloadPayload is what the UI layers submit to start a download.
type DownloadPayload struct {
	URL string `json:"url"`
	// Quality is a tier name ("1080p", "Audio Only") or "best" for the
	// highest available video tier.
	Quality string `json:"quality,omitempty"`
	// FormatID downloads one specific stream and takes precedence over
	// Quality when set.
	FormatID string `json:"format_id,omitempty"`
	// Filename, when set, is used verbatim under the download directory.
	Filename string `json:"filename,omitempty"`
}

type TaskStatus string

const (
	StatusPending     TaskStatus = "Pending"
	StatusDownloading TaskStatus = "Downloading"
	StatusMerging     TaskStatus = "Merging"
	StatusComplete    TaskStatus = "Complete"
	StatusFailed      TaskStatus = "Failed"
)

type Task struct {
	ID       int64      `json:"id"`
	URL      string     `json:"url"`
	Source   string     `json:"source"` // youtube | vimeo | ...
	Title    string     `json:"title,omitempty"`
	Quality  string     `json:"quality,omitempty"`
	Progress float64    `json:"progress"` // percentage, 0..100
	Speed    string     `json:"speed,omitempty"`
	ETA      string     `json:"eta,omitempty"`
	Status   TaskStatus `json:"status"`
	FilePath string     `json:"file_path,omitempty"`
	Error    string     `json:"error,omitempty"`

	payload DownloadPayload
}

type DownloadSource int

const (
	SourceUnknown DownloadSource = iota
	SourceYoutube
	SourceYTMusic
	SourceVimeo
	SourceSoundcloud
	SourceTwitch
	SourceOther
)

func (s DownloadSource) String() string {
	switch s {
	case SourceYoutube:
		return "youtube"
	case SourceYTMusic:
		return "youtube-music"
	case SourceVimeo:
		return "vimeo"
	case SourceSoundcloud:
		return "soundcloud"
	case SourceTwitch:
		return "twitch"
	case SourceOther:
		return "other"
	default:
		return "unknown"
	}
}
