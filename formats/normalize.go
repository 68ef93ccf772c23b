// Package formats : filtering, ranking and quality-tier selection over the
// stream descriptors reported by the extraction client. Everything here is
// a pure function of its input.
package formats

import (
	"sort"

	"quasar/tubedash/media"
)

// Normalize drops descriptors that are missing a format ID or a stream URL
// and ranks the rest, best first: streams with both channels, then
// video-only by height and bitrate, then audio-only by bitrate, then
// anything else. Ties are broken arbitrarily.
func Normalize(raw []media.StreamDescriptor) []media.StreamDescriptor {
	out := make([]media.StreamDescriptor, 0, len(raw))
	for _, f := range raw {
		if f.FormatID == "" || f.URL == "" {
			continue
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		return less(out[j], out[i])
	})

	return out
}

// Rank buckets: 3 = video+audio, 2 = video-only, 1 = audio-only, 0 = rest.
func rank(f media.StreamDescriptor) int {
	switch {
	case f.HasVideo() && f.HasAudio():
		return 3
	case f.HasVideo():
		return 2
	case f.HasAudio():
		return 1
	default:
		return 0
	}
}

// less orders ascending within the three-tier rule. Missing height/bitrate
// count as 0 here; display values are untouched.
func less(a, b media.StreamDescriptor) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case 3, 2:
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		return a.TBR < b.TBR
	case 1:
		return a.TBR < b.TBR
	default:
		return false
	}
}
