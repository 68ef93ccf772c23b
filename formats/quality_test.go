package formats

import (
	"strings"
	"testing"

	"quasar/tubedash/media"
)

func videoAt(height int) media.StreamDescriptor {
	return media.StreamDescriptor{FormatID: "v", URL: "u", VCodec: "avc1", ACodec: "none", Height: height}
}

func audioStream() media.StreamDescriptor {
	return media.StreamDescriptor{FormatID: "a", URL: "u", VCodec: "none", ACodec: "opus", TBR: 128}
}

func names(opts []media.QualityOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Name
	}
	return out
}

func TestQualityOptions_StandardLadder(t *testing.T) {
	streams := []media.StreamDescriptor{
		videoAt(360), videoAt(480), videoAt(720), videoAt(1080), audioStream(),
	}

	opts := QualityOptions(streams)

	want := []string{"1080p", "720p", "480p", "360p", AudioOnlyName}
	got := names(opts)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	// 1440 has no height within 50px, so it must be absent.
	for _, name := range got {
		if name == "1440p" {
			t.Fatal("1440p emitted with no matching height")
		}
	}
	if opts[0].ActualHeight != 1080 {
		t.Fatalf("1080p matched height %d, want exact 1080", opts[0].ActualHeight)
	}
}

func TestQualityOptions_LastEntryIsAlwaysAudioOnly(t *testing.T) {
	for _, streams := range [][]media.StreamDescriptor{
		nil,
		{videoAt(720)},
		{audioStream()},
	} {
		opts := QualityOptions(streams)
		last := opts[len(opts)-1]
		if last.Name != AudioOnlyName {
			t.Fatalf("last option = %q, want %q", last.Name, AudioOnlyName)
		}
		if last.Height != 0 || last.ActualHeight != 0 {
			t.Fatalf("audio option has nonzero height: %+v", last)
		}
		if last.Selector != "bestaudio/best" {
			t.Fatalf("audio selector = %q", last.Selector)
		}
	}
}

func TestQualityOptions_ToleranceMatching(t *testing.T) {
	// 1088 is a real-world encode of 1080.
	opts := QualityOptions([]media.StreamDescriptor{videoAt(1088)})

	if len(opts) != 2 { // 1080p + Audio Only
		t.Fatalf("got %v", names(opts))
	}
	if opts[0].Name != "1080p" || opts[0].ActualHeight != 1088 {
		t.Fatalf("got %+v", opts[0])
	}
	if !strings.Contains(opts[0].Selector, "height<=1088") {
		t.Fatalf("selector %q must cap at the matched height", opts[0].Selector)
	}
}

func TestQualityOptions_ExactTiePrefersHigherHeight(t *testing.T) {
	// 690 and 750 are both exactly 30 away from 720.
	opts := QualityOptions([]media.StreamDescriptor{videoAt(690), videoAt(750)})

	if opts[0].Name != "720p" {
		t.Fatalf("got %v", names(opts))
	}
	if opts[0].ActualHeight != 750 {
		t.Fatalf("tie resolved to %d, want the higher height 750", opts[0].ActualHeight)
	}
}

// A height inside the tolerance band of two ladder targets satisfies both
// tiers. Observed behavior, intentionally preserved.
func TestQualityOptions_SameHeightMaySatisfyMultipleTiers(t *testing.T) {
	// 410 is within 50 of both 480 and 360.
	opts := QualityOptions([]media.StreamDescriptor{videoAt(410)})

	got := names(opts)
	want := []string{"480p", "360p", AudioOnlyName}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if opts[0].ActualHeight != 410 || opts[1].ActualHeight != 410 {
		t.Fatalf("both tiers should carry height 410: %+v", opts[:2])
	}
}

func TestQualityOptions_AudioSourceOnlyYieldsAudioOption(t *testing.T) {
	opts := QualityOptions([]media.StreamDescriptor{audioStream()})

	if len(opts) != 1 || opts[0].Name != AudioOnlyName {
		t.Fatalf("got %v, want only the audio option", names(opts))
	}
}

func TestQualityOptions_IgnoresHeightOnAudioStreams(t *testing.T) {
	// A descriptor with a height but no video codec must not create a tier.
	odd := media.StreamDescriptor{FormatID: "x", URL: "u", VCodec: "none", ACodec: "opus", Height: 720}
	opts := QualityOptions([]media.StreamDescriptor{odd})

	if len(opts) != 1 {
		t.Fatalf("got %v", names(opts))
	}
}

func TestQualityOptions_SelectorShape(t *testing.T) {
	opts := QualityOptions([]media.StreamDescriptor{videoAt(1080)})

	want := "bestvideo[height<=1080]+bestaudio/best[height<=1080]"
	if opts[0].Selector != want {
		t.Fatalf("selector = %q, want %q", opts[0].Selector, want)
	}
}
