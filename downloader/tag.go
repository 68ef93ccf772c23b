package downloader

import (
	"strings"

	"github.com/bogem/id3v2"

	"quasar/tubedash/media"
)

// tagAudioFile writes basic ID3 metadata into a finished audio download.
// Only mp3 carries ID3 frames; other containers are left alone.
func tagAudioFile(path string, info *media.MediaMetadata) error {
	if !strings.HasSuffix(strings.ToLower(path), ".mp3") {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if info.Title != "" {
		tag.SetTitle(info.Title)
	}
	if info.Uploader != "" {
		tag.SetArtist(info.Uploader)
	}
	if info.UploadDate != "" && len(info.UploadDate) >= 4 {
		tag.SetYear(info.UploadDate[:4])
	}

	return tag.Save()
}
