package theme

// Palette is the set of colors the cube grid draws with under one theme.
// Colors are linear RGB in [0, 1].
type Palette struct {
	// Fill is the cube face color while a cell is idle or growing.
	Fill [3]float32

	// FillHover is the cube face color while a cell is hovered.
	FillHover [3]float32

	// Highlight is the cube face color while a cell flashes or collapses.
	Highlight [3]float32

	// Wireframe is the edge color while a cell is not hovered.
	Wireframe [3]float32

	// WireframeHover is the edge color while a cell is hovered.
	WireframeHover [3]float32

	// Background is the scene clear color.
	Background [3]float32
}

// The two palettes are fixed inverses of each other: surfaces and edges swap
// light for dark while the two accent colors stay put.
var (
	lightPalette = Palette{
		Fill:           [3]float32{0.29, 0.33, 0.41},
		FillHover:      [3]float32{0.98, 0.45, 0.09},
		Highlight:      [3]float32{0.23, 0.51, 0.96},
		Wireframe:      [3]float32{0.12, 0.16, 0.22},
		WireframeHover: [3]float32{0.98, 0.45, 0.09},
		Background:     [3]float32{0.98, 0.98, 0.98},
	}

	darkPalette = Palette{
		Fill:           [3]float32{0.58, 0.64, 0.72},
		FillHover:      [3]float32{0.98, 0.45, 0.09},
		Highlight:      [3]float32{0.23, 0.51, 0.96},
		Wireframe:      [3]float32{0.88, 0.91, 0.94},
		WireframeHover: [3]float32{0.98, 0.45, 0.09},
		Background:     [3]float32{0.06, 0.07, 0.09},
	}
)

// PaletteFor returns the palette for the given theme. Unknown themes resolve
// to the light palette.
//
// Parameters:
//   - t: the theme to look up
//
// Returns:
//   - Palette: the matching color palette
func PaletteFor(t Theme) Palette {
	if t == ThemeDark {
		return darkPalette
	}
	return lightPalette
}
