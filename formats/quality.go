package formats

import (
	"fmt"
	"sort"

	"quasar/tubedash/media"
)

// The fixed tier ladder, highest first.
var ladder = []struct {
	height int
	name   string
}{
	{2160, "4K (2160p)"},
	{1440, "1440p"},
	{1080, "1080p"},
	{720, "720p"},
	{480, "480p"},
	{360, "360p"},
}

// heightTolerance absorbs off-by-a-little encodes (e.g. 1088 for 1080).
const heightTolerance = 50

// AudioOnlyName is the tier name of the trailing audio option.
const AudioOnlyName = "Audio Only"

// QualityOptions maps the available stream heights onto the tier ladder.
// A tier is emitted when some height lies within 50px of its target; the
// closest wins, and an exact-distance tie goes to the higher height. The
// same height may satisfy more than one tier. The returned list always
// ends with an "Audio Only" option.
func QualityOptions(streams []media.StreamDescriptor) []media.QualityOption {
	heights := availableHeights(streams)

	options := make([]media.QualityOption, 0, len(ladder)+1)
	for _, tier := range ladder {
		matched := closestHeight(heights, tier.height)
		if matched == 0 {
			continue
		}
		options = append(options, media.QualityOption{
			Name:         tier.name,
			Height:       matched,
			ActualHeight: matched,
			Selector:     fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", matched, matched),
			Description:  tier.name + " with best audio",
		})
	}

	options = append(options, media.QualityOption{
		Name:        AudioOnlyName,
		Selector:    "bestaudio/best",
		Description: "Best quality audio only",
	})

	return options
}

// availableHeights collects the distinct heights of streams that actually
// carry video, sorted ascending.
func availableHeights(streams []media.StreamDescriptor) []int {
	seen := make(map[int]struct{})
	for _, f := range streams {
		if f.Height > 0 && f.HasVideo() {
			seen[f.Height] = struct{}{}
		}
	}
	heights := make([]int, 0, len(seen))
	for h := range seen {
		heights = append(heights, h)
	}
	sort.Ints(heights)
	return heights
}

// closestHeight returns the available height nearest to target within the
// tolerance, or 0 when none qualifies. Scanning ascending with ties going
// to the later candidate makes "prefer the higher height" deterministic.
func closestHeight(heights []int, target int) int {
	best, bestDist := 0, heightTolerance+1
	for _, h := range heights {
		dist := h - target
		if dist < 0 {
			dist = -dist
		}
		if dist <= heightTolerance && dist <= bestDist {
			best, bestDist = h, dist
		}
	}
	return best
}
