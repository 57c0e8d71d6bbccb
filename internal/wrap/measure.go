package wrap

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports the display width of a string.
type Measurer interface {
	Measure(s string) int
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(s string) int

// Measure calls f(s).
func (f MeasureFunc) Measure(s string) int {
	return f(s)
}

// DefaultTabWidth is the tab width used when none is configured.
const DefaultTabWidth = 4

// CellMeasurer measures text in monospace terminal cells. East Asian wide
// characters and most emoji take two cells. A tab advances to the next
// multiple of TabWidth.
type CellMeasurer struct {
	TabWidth int
}

// Measure returns the width of s in cells, as if s started at column 0.
func (m CellMeasurer) Measure(s string) int {
	if !strings.Contains(s, "\t") {
		return uniseg.StringWidth(s)
	}

	tab := m.TabWidth
	if tab <= 0 {
		tab = DefaultTabWidth
	}
	col := 0
	state := -1
	for s != "" {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			col += tab - col%tab
			continue
		}
		col += width
	}
	return col
}

// FaceMeasurer measures text in whole pixels using a font face.
type FaceMeasurer struct {
	// Face defaults to basicfont.Face7x13.
	Face font.Face
}

// Measure returns the advance of s in pixels, rounded up.
func (m FaceMeasurer) Measure(s string) int {
	face := m.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	return font.MeasureString(face, s).Ceil()
}
