// internal/match/colors.go
//
// Per-round color assignment for term tiles.

package match

import "math/rand"

// palette is the fixed set of named colors used by the rainbow scheme.
var palette = []string{
	"red", "orange", "yellow", "lime", "green", "cyan",
	"blue", "purple", "magenta", "navy", "gray", "teal",
}

// roundColors returns n color tags for a round's term tiles. The rainbow
// scheme draws without replacement; when a round needs more tiles than the
// palette holds, the palette is refilled and drawing continues (so colors
// repeat, but stay maximally distinct). Every other scheme yields empty tags.
func roundColors(scheme string, n int) []string {
	out := make([]string, n)
	if scheme != "rainbow" {
		return out
	}
	pool := make([]string, 0, len(palette))
	for i := 0; i < n; i++ {
		if len(pool) == 0 {
			pool = append(pool, palette...)
		}
		j := rand.Intn(len(pool))
		out[i] = pool[j]
		pool = append(pool[:j], pool[j+1:]...)
	}
	return out
}
