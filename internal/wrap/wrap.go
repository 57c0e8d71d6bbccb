// Package wrap breaks text into display lines no wider than a limit.
//
// Break opportunities come from Unicode line breaking (UAX #14). Mandatory
// breaks always end a line and the terminator is dropped from it. Optional
// breaks are taken greedily. A piece that cannot fit on a line of its own is
// split between grapheme clusters. Trailing spaces stay on the line they
// follow and do not count toward its width, so joining the lines with the
// consumed terminators reproduces the input.
package wrap

import (
	"slices"
	"strings"

	"github.com/dshills/ropetree/internal/bidi"
	"github.com/dshills/ropetree/internal/config"
	"github.com/dshills/ropetree/internal/rope"
	"github.com/rivo/uniseg"
)

// Wrapper wraps text to MaxWidth as reported by Measurer.
type Wrapper struct {
	// Measurer defaults to CellMeasurer.
	Measurer Measurer
	// MaxWidth <= 0 disables width wrapping; only mandatory breaks apply.
	MaxWidth int
}

// New returns a wrapper measuring in terminal cells.
func New(maxWidth int) *Wrapper {
	return &Wrapper{Measurer: CellMeasurer{}, MaxWidth: maxWidth}
}

// NewFromConfig returns a wrapper for the given settings.
func NewFromConfig(cfg config.WrapConfig) *Wrapper {
	var m Measurer = CellMeasurer{TabWidth: cfg.TabWidth}
	if cfg.Measure == config.MeasureFace {
		m = FaceMeasurer{}
	}
	return &Wrapper{Measurer: m, MaxWidth: cfg.Width}
}

// piece is the unit placed on a line: a line-break segment, cut further at
// direction changes.
type piece struct {
	text string
	// hard marks a piece whose line terminator was stripped.
	hard bool
}

// Wrap returns the display lines of text. Each boundary in segments is an
// additional break opportunity. Empty text yields nil.
func (w *Wrapper) Wrap(text string, segments []bidi.Segment) []string {
	if text == "" {
		return nil
	}

	lb := lineBuilder{w: w}
	hard := false
	for _, p := range pieces(text, segments) {
		lb.place(p.text)
		if p.hard {
			lb.flush()
		}
		hard = p.hard
	}
	if lb.cur != "" || hard {
		lb.flush()
	}
	return lb.lines
}

// WrapRope wraps the text of r.
func (w *Wrapper) WrapRope(r rope.Rope) []string {
	return w.Wrap(r.String(), nil)
}

// WrapDocument wraps the text of d, breaking at direction changes.
func (w *Wrapper) WrapDocument(d *bidi.Document) []string {
	return w.Wrap(d.String(), d.Segments())
}

func pieces(text string, segments []bidi.Segment) []piece {
	cuts := make([]int, 0, len(segments))
	for _, s := range segments {
		if s.Start > 0 && s.Start < len(text) {
			cuts = append(cuts, s.Start)
		}
	}
	slices.Sort(cuts)

	var out []piece
	rest := text
	pos := 0
	state := -1
	for rest != "" {
		var seg string
		var must bool
		seg, rest, must, state = uniseg.FirstLineSegmentInString(rest, state)

		body := seg
		hard := false
		if must {
			if n := terminatorLen(seg); n > 0 {
				body = seg[:len(seg)-n]
				hard = true
			}
		}

		start, end := pos, pos+len(body)
		for len(cuts) > 0 && cuts[0] <= start {
			cuts = cuts[1:]
		}
		for len(cuts) > 0 && cuts[0] < end {
			out = append(out, piece{text: text[start:cuts[0]]})
			start, cuts = cuts[0], cuts[1:]
		}
		out = append(out, piece{text: text[start:end], hard: hard})
		pos += len(seg)
	}
	return out
}

// terminatorLen returns the byte length of the mandatory break at the end of
// s, or 0.
func terminatorLen(s string) int {
	if strings.HasSuffix(s, "\r\n") {
		return 2
	}
	for _, t := range []string{"\n", "\r", "\v", "\f", "\u0085", "\u2028", "\u2029"} {
		if strings.HasSuffix(s, t) {
			return len(t)
		}
	}
	return 0
}

type lineBuilder struct {
	w     *Wrapper
	lines []string
	cur   string
}

func (b *lineBuilder) flush() {
	b.lines = append(b.lines, b.cur)
	b.cur = ""
}

func (b *lineBuilder) fits(s string) bool {
	if b.w.MaxWidth <= 0 {
		return true
	}
	m := b.w.Measurer
	if m == nil {
		m = CellMeasurer{}
	}
	return m.Measure(strings.TrimRight(s, " ")) <= b.w.MaxWidth
}

func (b *lineBuilder) place(s string) {
	if s == "" {
		return
	}
	if b.fits(b.cur + s) {
		b.cur += s
		return
	}
	if b.cur != "" {
		b.flush()
	}
	if b.fits(s) {
		b.cur = s
		return
	}

	// Too wide for any line: break between grapheme clusters.
	state := -1
	for s != "" {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if b.cur != "" && !b.fits(b.cur+cluster) {
			b.flush()
		}
		b.cur += cluster
	}
}
