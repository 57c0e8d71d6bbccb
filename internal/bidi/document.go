package bidi

import (
	"slices"

	"github.com/dshills/ropetree/internal/logging"
	"github.com/dshills/ropetree/internal/rope"
)

// Option configures a Document.
type Option func(*options)

type options struct {
	base Direction
	log  *logging.Logger
}

// WithBase sets the paragraph base direction used for leading neutrals.
func WithBase(d Direction) Option {
	return func(o *options) {
		o.base = d
	}
}

// WithLogger attaches a logger. Reclassification is logged at Debug level.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l.WithComponent("bidi")
		}
	}
}

// Document pairs an immutable rope with the direction segments of its text.
// A Document is a value: every edit returns a new Document and the receiver
// is left unchanged, so Documents are safe to share between goroutines.
type Document struct {
	text     rope.Rope
	segments []Segment
	opts     options
}

// NewDocument classifies r and returns a Document wrapping it.
func NewDocument(r rope.Rope, opts ...Option) *Document {
	o := options{base: LTR, log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return newDocument(r, o)
}

func newDocument(r rope.Rope, o options) *Document {
	segs := Classify(r.String(), o.base)
	if o.log.Enabled(logging.LogLevelDebug) {
		o.log.WithFields(map[string]any{
			"len":      r.Len(),
			"segments": len(segs),
		}).Debug("classified")
	}
	return &Document{text: r, segments: segs, opts: o}
}

// Rope returns the underlying rope.
func (d *Document) Rope() rope.Rope {
	return d.text
}

// Segments returns a copy of the direction segments.
func (d *Document) Segments() []Segment {
	return slices.Clone(d.segments)
}

// Len returns the text length in bytes.
func (d *Document) Len() int {
	return d.text.Len()
}

// String returns the text.
func (d *Document) String() string {
	return d.text.String()
}

// CharAt returns the byte at offset i.
func (d *Document) CharAt(i int) (byte, error) {
	return d.text.CharAt(i)
}

// Substring returns the text in [start, end).
func (d *Document) Substring(start, end int) (string, error) {
	return d.text.Substring(start, end)
}

// Insert returns a Document with text inserted at offset i.
func (d *Document) Insert(i int, text string) (*Document, error) {
	r, err := d.text.Insert(i, text)
	if err != nil {
		return nil, err
	}
	return newDocument(r, d.opts), nil
}

// Delete returns a Document without the bytes in [start, end).
func (d *Document) Delete(start, end int) (*Document, error) {
	r, err := d.text.Delete(start, end)
	if err != nil {
		return nil, err
	}
	return newDocument(r, d.opts), nil
}

// Split divides the Document at offset i.
func (d *Document) Split(i int) (*Document, *Document, error) {
	left, right, err := d.text.Split(i)
	if err != nil {
		return nil, nil, err
	}
	return newDocument(left, d.opts), newDocument(right, d.opts), nil
}

// Concat returns a Document holding d's text followed by other's.
// The result keeps d's options.
func (d *Document) Concat(other *Document) *Document {
	return newDocument(d.text.Concat(other.text), d.opts)
}

// DirectionAt returns the direction of the segment containing offset i.
func (d *Document) DirectionAt(i int) (Direction, error) {
	if _, err := d.text.CharAt(i); err != nil {
		return d.opts.base, err
	}
	idx, _ := slices.BinarySearchFunc(d.segments, i, func(s Segment, off int) int {
		switch {
		case s.End <= off:
			return -1
		case s.Start > off:
			return 1
		default:
			return 0
		}
	})
	return d.segments[idx].Direction, nil
}
