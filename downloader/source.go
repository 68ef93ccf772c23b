package downloader

import (
	"net/url"
	"strings"
)

// DetectSource classifies a URL by host for display and history grouping.
// Unknown hosts are still downloadable; yt-dlp decides what it supports.
func DetectSource(rawURL string) DownloadSource {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return SourceUnknown
	}

	host := parsedURL.Hostname()
	if host == "" {
		return SourceUnknown
	}

	switch {
	case strings.HasSuffix(host, "music.youtube.com"):
		return SourceYTMusic
	case strings.HasSuffix(host, "youtube.com"), host == "youtu.be":
		return SourceYoutube
	case strings.HasSuffix(host, "vimeo.com"):
		return SourceVimeo
	case strings.HasSuffix(host, "soundcloud.com"):
		return SourceSoundcloud
	case strings.HasSuffix(host, "twitch.tv"):
		return SourceTwitch
	default:
		return SourceOther
	}
}
