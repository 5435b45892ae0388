package posting

import (
	"hash/fnv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of distinct posting colors.
const PaletteSize = 12

var palette = buildPalette(PaletteSize)

// buildPalette spreads n hues evenly around the HCL wheel at a fixed chroma
// and luminance so every entry reads at the same weight on a dark terminal.
func buildPalette(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		hue := float64(i) * 360 / float64(n)
		out[i] = colorful.Hcl(hue, 0.45, 0.7).Clamped().Hex()
	}
	return out
}

// Palette returns a copy of the posting palette.
func Palette() []string {
	return append([]string(nil), palette...)
}

// ColorFor returns the display color for a posting id. It depends only on
// the id, so a reloaded posting keeps its color across sessions.
func ColorFor(id ID) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return palette[h.Sum32()%uint32(len(palette))]
}
