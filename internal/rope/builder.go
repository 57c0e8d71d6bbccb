package rope

import (
	"io"
	"strings"
)

// readBufferSize is the read size used when building from an io.Reader.
const readBufferSize = 64 * 1024

// Builder provides efficient incremental construction of a rope.
// It buffers writes into fragments and builds a balanced tree when Build
// is called. Unlike FromString, large input is stored as many fragments.
type Builder struct {
	cfg      *settings
	frags    []Fragment
	buffer   strings.Builder
	totalLen int
}

// NewBuilder creates a new rope builder.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		cfg:   newSettings(opts),
		frags: make([]Fragment, 0, 64),
	}
}

func (b *Builder) settings() *settings {
	if b.cfg == nil {
		b.cfg = defaultSettings
	}
	return b.cfg
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}

	b.totalLen += len(s)
	b.buffer.WriteString(s)

	if b.buffer.Len() >= b.settings().policy.MaxFragmentSize*2 {
		b.flush()
	}
	return len(s), nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.totalLen++
	return b.buffer.WriteByte(c)
}

// flush converts the buffer contents to fragments. A UTF-8 sequence cut
// by the end of the buffer stays buffered for the next write.
func (b *Builder) flush() {
	s := b.buffer.String()
	keep := incompleteSuffix(s)
	b.buffer.Reset()
	b.buffer.WriteString(s[len(s)-keep:])

	b.frags = append(b.frags, splitIntoFragments(s[:len(s)-keep], b.settings().policy.MaxFragmentSize)...)
}

// incompleteSuffix returns the length of a trailing, unfinished UTF-8
// sequence in s.
func incompleteSuffix(s string) int {
	for i := 1; i <= 3 && i <= len(s); i++ {
		c := s[len(s)-i]
		if !isUTF8Start(c) {
			continue
		}
		var size int
		switch {
		case c < 0x80:
			size = 1
		case c&0xE0 == 0xC0:
			size = 2
		case c&0xF0 == 0xE0:
			size = 3
		default:
			size = 4
		}
		if size > i {
			return i
		}
		return 0
	}
	return 0
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return b.totalLen
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.frags = b.frags[:0:0]
	b.buffer.Reset()
	b.totalLen = 0
}

// Build creates the rope from accumulated data.
// After calling Build, the builder is reset.
func (b *Builder) Build() Rope {
	cfg := b.settings()
	frags := append(b.frags, splitIntoFragments(b.buffer.String(), cfg.policy.MaxFragmentSize)...)
	b.Reset()
	return Rope{root: buildBalanced(frags, &cfg.policy), cfg: cfg}
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, readBufferSize)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = b.WriteString(string(buf[:n]))
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader, opts ...Option) (Rope, error) {
	b := NewBuilder(opts...)
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// FromLines creates a rope from a slice of lines.
// Each line will have a newline appended except the last.
func FromLines(lines []string, opts ...Option) Rope {
	b := NewBuilder(opts...)
	for i, line := range lines {
		_, _ = b.WriteString(line)
		if i < len(lines)-1 {
			_ = b.WriteByte('\n')
		}
	}
	return b.Build()
}

// Join concatenates ropes with a separator. The result uses the first
// rope's options.
func Join(ropes []Rope, sep string) Rope {
	if len(ropes) == 0 {
		return New()
	}

	result := ropes[0]
	sepRope := Rope{root: newLeaf([]Fragment{NewFragment(sep)}), cfg: result.settings()}
	for _, r := range ropes[1:] {
		if sep != "" {
			result = result.Concat(sepRope)
		}
		result = result.Concat(r)
	}
	return result
}
