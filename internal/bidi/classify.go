// Package bidi splits text into runs of uniform writing direction and
// keeps those runs alongside an immutable rope.
//
// Classification follows the strong Unicode bidirectional classes only:
// L is left-to-right, R and AL are right-to-left, and every other class is
// neutral. Neutral runes join the run they sit in; leading neutrals take
// the base direction. This is intentionally simpler than the full
// Unicode Bidirectional Algorithm (no embedding levels, no mirroring).
package bidi

import (
	"unicode/utf8"

	xbidi "golang.org/x/text/unicode/bidi"
)

// Direction is the writing direction of a run of text.
type Direction uint8

const (
	// LTR is left-to-right text such as Latin or CJK.
	LTR Direction = iota
	// RTL is right-to-left text such as Hebrew or Arabic.
	RTL
)

// String returns "ltr" or "rtl".
func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Segment is a maximal run of one direction, as byte offsets [Start, End).
type Segment struct {
	Start     int
	End       int
	Direction Direction
}

// Len returns the segment length in bytes.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Strength describes how a single rune influences direction.
type Strength uint8

const (
	// Neutral runes adopt the direction of the run they are in.
	Neutral Strength = iota
	// StrongLTR runes start or continue a left-to-right run.
	StrongLTR
	// StrongRTL runes start or continue a right-to-left run.
	StrongRTL
)

// ClassOf reports the directional strength of r.
func ClassOf(r rune) Strength {
	props, _ := xbidi.LookupRune(r)
	switch props.Class() {
	case xbidi.L:
		return StrongLTR
	case xbidi.R, xbidi.AL:
		return StrongRTL
	default:
		return Neutral
	}
}

// Classify returns the direction runs covering text.
// Adjacent segments always differ in direction. Empty text yields nil.
func Classify(text string, base Direction) []Segment {
	if text == "" {
		return nil
	}

	var segs []Segment
	cur := Segment{Direction: base}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		var dir Direction
		switch ClassOf(r) {
		case StrongLTR:
			dir = LTR
		case StrongRTL:
			dir = RTL
		default:
			i += size
			continue
		}

		if dir != cur.Direction {
			if i > cur.Start {
				cur.End = i
				segs = append(segs, cur)
				cur = Segment{Start: i, Direction: dir}
			} else {
				// Nothing consumed yet; the first strong rune decides.
				cur.Direction = dir
			}
		}
		i += size
	}

	cur.End = len(text)
	return append(segs, cur)
}
