package bullet

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is an ordered categorical color scheme
type Palette []drawing.Color

// At returns the color for index i, wrapping past the end of the palette.
// An empty palette yields black.
func (p Palette) At(i int) drawing.Color {
	if len(p) == 0 {
		return drawing.ColorBlack
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

func hexPalette(hexes ...string) Palette {
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		p[i] = drawing.ColorFromHex(h)
	}
	return p
}

// SchemeSet1 is the nine-color "Set1" qualitative scheme
var SchemeSet1 = hexPalette(
	"e41a1c", "377eb8", "4daf4a", "984ea3", "ff7f00",
	"ffff33", "a65628", "f781bf", "999999",
)

// SchemeSet2 is the eight-color "Set2" qualitative scheme
var SchemeSet2 = hexPalette(
	"66c2a5", "fc8d62", "8da0cb", "e78ac3",
	"a6d854", "ffd92f", "e5c494", "b3b3b3",
)

// PaletteByName resolves "set1" or "set2" (case-insensitive)
func PaletteByName(name string) (Palette, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "set1", "":
		return SchemeSet1, true
	case "set2":
		return SchemeSet2, true
	default:
		return nil, false
	}
}
