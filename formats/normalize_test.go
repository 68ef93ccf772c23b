package formats

import (
	"testing"

	"quasar/tubedash/media"
)

func stream(id, url, vcodec, acodec string, height int, tbr float64) media.StreamDescriptor {
	return media.StreamDescriptor{
		FormatID: id,
		URL:      url,
		VCodec:   vcodec,
		ACodec:   acodec,
		Height:   height,
		TBR:      tbr,
	}
}

func TestNormalize_FiltersIncompleteDescriptors(t *testing.T) {
	in := []media.StreamDescriptor{
		stream("", "https://x/1", "avc1", "mp4a", 720, 100),
		stream("22", "", "avc1", "mp4a", 720, 100),
		stream("18", "https://x/2", "avc1", "mp4a", 360, 96),
	}

	out := Normalize(in)

	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].FormatID != "18" {
		t.Fatalf("kept %q, want 18", out[0].FormatID)
	}
}

func TestNormalize_OutputIsSubsetOfInput(t *testing.T) {
	in := []media.StreamDescriptor{
		stream("a", "https://x/a", "avc1", "none", 1080, 0),
		stream("b", "", "none", "opus", 0, 128),
		stream("c", "https://x/c", "none", "none", 0, 0),
	}

	out := Normalize(in)

	if len(out) > len(in) {
		t.Fatalf("output longer than input: %d > %d", len(out), len(in))
	}
	ids := map[string]bool{"a": true, "c": true}
	for _, f := range out {
		if !ids[f.FormatID] {
			t.Fatalf("output contains %q, which was not a valid input", f.FormatID)
		}
	}
}

func TestNormalize_ThreeTierOrdering(t *testing.T) {
	in := []media.StreamDescriptor{
		stream("audio-hi", "u", "none", "opus", 0, 160),
		stream("video-only", "u", "vp9", "none", 1080, 2500),
		stream("muxed", "u", "avc1", "mp4a", 360, 500),
		stream("audio-lo", "u", "none", "opus", 0, 48),
		stream("weird", "u", "none", "none", 0, 0),
	}

	out := Normalize(in)

	order := make(map[string]int, len(out))
	for i, f := range out {
		order[f.FormatID] = i
	}

	// No audio-only or video-only entry may precede a muxed entry.
	if order["video-only"] < order["muxed"] {
		t.Fatal("video-only ranked above video+audio")
	}
	if order["audio-hi"] < order["muxed"] || order["audio-hi"] < order["video-only"] {
		t.Fatal("audio-only ranked above a video entry")
	}
	if order["audio-lo"] < order["audio-hi"] {
		t.Fatal("audio entries not ordered by bitrate")
	}
	if order["weird"] != len(out)-1 {
		t.Fatal("codec-less entry not last")
	}
}

func TestNormalize_VideoOnlyOrderedByHeightThenBitrate(t *testing.T) {
	in := []media.StreamDescriptor{
		stream("v480", "u", "vp9", "none", 480, 700),
		stream("v1080-lo", "u", "avc1", "none", 1080, 2000),
		stream("v1080-hi", "u", "vp9", "none", 1080, 3000),
	}

	out := Normalize(in)

	want := []string{"v1080-hi", "v1080-lo", "v480"}
	for i, id := range want {
		if out[i].FormatID != id {
			t.Fatalf("position %d = %q, want %q (full: %v)", i, out[i].FormatID, id, out)
		}
	}
}

func TestNormalize_MissingHeightRanksAsZero(t *testing.T) {
	in := []media.StreamDescriptor{
		stream("no-height", "u", "avc1", "none", 0, 9000),
		stream("v360", "u", "avc1", "none", 360, 100),
	}

	out := Normalize(in)

	if out[0].FormatID != "v360" {
		t.Fatalf("missing height should rank below any real height, got %q first", out[0].FormatID)
	}
}
