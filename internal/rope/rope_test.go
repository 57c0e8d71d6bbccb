package rope

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"testing/quick"
)

// validate checks summary coherence, equal leaf depth, fan-out limits, and
// that no empty node or fragment is reachable from a non-empty root.
func validate(t *testing.T, r Rope) {
	t.Helper()
	root := r.node()
	p := r.policy()
	if root.Summary().IsZero() {
		if root.Len() != 0 || r.String() != "" {
			t.Fatal("zero summary on non-empty root")
		}
		return
	}

	var walk func(n Node, depth int) (TextSummary, int)
	leafDepth := -1
	walk = func(n Node, depth int) (TextSummary, int) {
		switch n := n.(type) {
		case *Leaf:
			if leafDepth == -1 {
				leafDepth = depth
			} else if leafDepth != depth {
				t.Fatalf("leaves at depths %d and %d", leafDepth, depth)
			}
			if n.Fragments() == 0 || n.Fragments() > p.MaxFragments {
				t.Fatalf("leaf holds %d fragments", n.Fragments())
			}
			var parts []TextSummary
			for i, f := range n.fragments {
				if f.IsEmpty() {
					t.Fatal("empty fragment in leaf")
				}
				if n.summaries[i] != ComputeSummary(f.String()) {
					t.Fatalf("fragment summary %+v, want %+v", n.summaries[i], ComputeSummary(f.String()))
				}
				parts = append(parts, n.summaries[i])
			}
			if got := Fold(TextSummary{}, parts...); got != n.summary {
				t.Fatalf("leaf summary %+v, want %+v", n.summary, got)
			}
			return n.summary, 1
		case *Internal:
			if n.Children() < 2 || n.Children() > p.MaxChildren {
				t.Fatalf("internal node has %d children", n.Children())
			}
			var total TextSummary
			leaves := 0
			for i, child := range n.children {
				if child.Height() != n.height-1 {
					t.Fatalf("child height %d under node of height %d", child.Height(), n.height)
				}
				s, l := walk(child, depth+1)
				if s != n.summaries[i] {
					t.Fatalf("child summary %+v, want %+v", n.summaries[i], s)
				}
				total = total.Combine(s)
				leaves += l
			}
			if total != n.summary {
				t.Fatalf("internal summary %+v, want %+v", n.summary, total)
			}
			if leaves != n.leaves {
				t.Fatalf("leaf count %d, want %d", n.leaves, leaves)
			}
			return total, leaves
		}
		t.Fatalf("unknown node %T", n)
		return TextSummary{}, 0
	}

	s, _ := walk(root, 0)
	if want := ComputeSummary(r.String()); s != want {
		t.Fatalf("root summary %+v, want %+v", s, want)
	}
}

func mustInsert(t *testing.T, r Rope, i int, s string) Rope {
	t.Helper()
	out, err := r.Insert(i, s)
	if err != nil {
		t.Fatalf("Insert(%d, %q): %v", i, s, err)
	}
	return out
}

func mustDelete(t *testing.T, r Rope, start, end int) Rope {
	t.Helper()
	out, err := r.Delete(start, end)
	if err != nil {
		t.Fatalf("Delete(%d, %d): %v", start, end, err)
	}
	return out
}

func TestNew(t *testing.T) {
	for name, r := range map[string]Rope{"New": New(), "zero": {}, "empty string": FromString("")} {
		t.Run(name, func(t *testing.T) {
			if r.Len() != 0 {
				t.Errorf("Len() = %d, want 0", r.Len())
			}
			if !r.IsEmpty() {
				t.Error("rope should be empty")
			}
			if r.String() != "" {
				t.Errorf("String() = %q, want empty", r.String())
			}
			if r.LineCount() != 0 {
				t.Errorf("LineCount() = %d, want 0", r.LineCount())
			}
		})
	}
}

func TestScenarios(t *testing.T) {
	hello := FromString("Hello World!")

	inserted := mustInsert(t, hello, 5, ", beautiful")
	if got := inserted.String(); got != "Hello, beautiful World!" {
		t.Errorf("insert: got %q", got)
	}

	restored := mustDelete(t, inserted, 5, 16)
	if got := restored.String(); got != "Hello World!" {
		t.Errorf("delete: got %q", got)
	}

	if c, err := hello.CharAt(1); err != nil || c != 'e' {
		t.Errorf("CharAt(1) = %q, %v; want 'e'", c, err)
	}

	if s, err := hello.Substring(0, 5); err != nil || s != "Hello" {
		t.Errorf("Substring(0, 5) = %q, %v; want \"Hello\"", s, err)
	}

	left, right, err := hello.Split(6)
	if err != nil {
		t.Fatal(err)
	}
	if left.String() != "Hello " || right.String() != "World!" {
		t.Errorf("Split(6) = (%q, %q)", left.String(), right.String())
	}

	if n := FromString("Line1\nLine2").LineCount(); n != 1 {
		t.Errorf("LineCount() = %d, want 1", n)
	}
	nl := mustInsert(t, FromString("HelloWorld"), 5, "\n")
	if nl.String() != "Hello\nWorld" || nl.LineCount() != 1 {
		t.Errorf("got %q with %d lines", nl.String(), nl.LineCount())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single char", "a"},
		{"short string", "hello"},
		{"with newline", "hello\nworld"},
		{"carriage returns", "a\r\nb\rc"},
		{"unicode", "hello 世界 🌍"},
		{"very long string", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			if r.Len() != len(tt.input) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.input))
			}
			if r.LineCount() != strings.Count(tt.input, "\n") {
				t.Errorf("LineCount() = %d, want %d", r.LineCount(), strings.Count(tt.input, "\n"))
			}
			if r.FragmentCount() != 1 || r.Height() != 1 {
				t.Errorf("expected one fragment in one leaf, got %d fragments, height %d", r.FragmentCount(), r.Height())
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		offset   int
		text     string
		expected string
	}{
		{"insert at start", "world", 0, "hello ", "hello world"},
		{"insert at end", "hello", 5, " world", "hello world"},
		{"insert in middle", "helloworld", 5, " ", "hello world"},
		{"insert into empty", "", 0, "hello", "hello"},
		{"insert empty string", "hello", 3, "", "hello"},
		{"insert unicode", "hello", 5, " 世界", "hello 世界"},
		{"insert at unicode boundary", "世界", 3, "!", "世!界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustInsert(t, FromString(tt.initial), tt.offset, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			validate(t, r)
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		start    int
		end      int
		expected string
	}{
		{"delete from start", "hello world", 0, 6, "world"},
		{"delete from end", "hello world", 5, 11, "hello"},
		{"delete from middle", "hello world", 5, 6, "helloworld"},
		{"delete all", "hello", 0, 5, ""},
		{"delete nothing", "hello", 3, 3, "hello"},
		{"delete nothing from empty", "", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustDelete(t, FromString(tt.initial), tt.start, tt.end)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			validate(t, r)
		})
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		start    int
		end      int
		text     string
		expected string
	}{
		{"replace word", "hello world", 6, 11, "universe", "hello universe"},
		{"replace with shorter", "hello world", 0, 5, "hi", "hi world"},
		{"replace all", "hello", 0, 5, "world", "world"},
		{"replace nothing with insert", "hello", 5, 5, " world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := FromString(tt.initial).Replace(tt.start, tt.end, tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	input := "hello world"
	for i := 0; i <= len(input); i++ {
		left, right, err := FromString(input).Split(i)
		if err != nil {
			t.Fatalf("Split(%d): %v", i, err)
		}
		if left.String() != input[:i] || right.String() != input[i:] {
			t.Errorf("Split(%d) = (%q, %q)", i, left.String(), right.String())
		}
	}

	empty := New()
	left, right, err := empty.Split(0)
	if err != nil || !left.IsEmpty() || !right.IsEmpty() {
		t.Errorf("splitting an empty rope: (%q, %q, %v)", left.String(), right.String(), err)
	}
}

func TestSplitSharesAtEnds(t *testing.T) {
	r := buildEdited(t, 200)

	left, right, _ := r.Split(0)
	if !left.IsEmpty() || right.root != r.root {
		t.Error("Split(0) should share the original root on the right")
	}
	left, right, _ = r.Split(r.Len())
	if !right.IsEmpty() || left.root != r.root {
		t.Error("Split(Len) should share the original root on the left")
	}
}

func TestOutOfRange(t *testing.T) {
	r := FromString("hello")

	checks := map[string]func() error{
		"insert negative":  func() error { _, err := r.Insert(-1, "x"); return err },
		"insert past end":  func() error { _, err := r.Insert(6, "x"); return err },
		"delete reversed":  func() error { _, err := r.Delete(3, 2); return err },
		"delete past end":  func() error { _, err := r.Delete(0, 6); return err },
		"delete negative":  func() error { _, err := r.Delete(-1, 2); return err },
		"replace past end": func() error { _, err := r.Replace(4, 8, "x"); return err },
		"substring past":   func() error { _, err := r.Substring(2, 9); return err },
		"substring invert": func() error { _, err := r.Substring(4, 1); return err },
		"char at len":      func() error { _, err := r.CharAt(5); return err },
		"char at negative": func() error { _, err := r.CharAt(-1); return err },
		"rune at len":      func() error { _, _, err := r.RuneAt(5); return err },
		"split past end":   func() error { _, _, err := r.Split(6); return err },
		"line start":       func() error { _, err := r.LineStart(1); return err },
		"offset to point":  func() error { _, err := r.OffsetToPoint(6); return err },
		"negative column":  func() error { _, err := r.PointToOffset(Point{Column: -1}); return err },
		"empty char at":    func() error { _, err := New().CharAt(0); return err },
	}

	for name, check := range checks {
		err := check()
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: got %v, want ErrOutOfRange", name, err)
		}
		var re *RangeError
		if !errors.As(err, &re) {
			t.Errorf("%s: error %T is not a *RangeError", name, err)
		}
	}

	if r.String() != "hello" {
		t.Errorf("failed operations modified the rope: %q", r.String())
	}
}

func TestRangeErrorMessage(t *testing.T) {
	_, err := FromString("abc").Delete(2, 7)
	want := "rope: delete: range [2, 7) out of bounds for length 3"
	if err == nil || err.Error() != want {
		t.Errorf("got %v, want %q", err, want)
	}
}

func TestRuneAt(t *testing.T) {
	r := FromString("a世c")
	ch, size, err := r.RuneAt(1)
	if err != nil || ch != '世' || size != 3 {
		t.Errorf("RuneAt(1) = %q, %d, %v; want '世', 3", ch, size, err)
	}

	// Tiny fragments keep the encoding split across three fragments.
	tiny := WithPolicy(Policy{MaxChildren: 8, MaxFragments: 8, MaxFragmentSize: 1, DepthSlack: 2})
	joined := FromString("x", tiny).Concat(FromString("\xe4")).Concat(FromString("\xb8\x96y"))
	if joined.FragmentCount() != 3 {
		t.Fatalf("FragmentCount() = %d, want 3", joined.FragmentCount())
	}
	ch, size, err = joined.RuneAt(1)
	if err != nil || ch != '世' || size != 3 {
		t.Errorf("RuneAt across fragments = %q, %d, %v; want '世', 3", ch, size, err)
	}
}

// buildLarge returns a multi-level rope built from generated lines.
func buildLarge(t *testing.T) Rope {
	t.Helper()
	b := NewBuilder()
	for i := 0; i < 4000; i++ {
		_, _ = b.WriteString("line of generated text for the builder\n")
	}
	r := b.Build()
	validate(t, r)
	if r.Height() < 3 {
		t.Fatalf("expected a multi-level tree, got height %d", r.Height())
	}
	return r
}

// nodeSet collects every node reachable from n.
func nodeSet(n Node, into map[Node]bool) {
	into[n] = true
	if in, ok := n.(*Internal); ok {
		for _, child := range in.children {
			nodeSet(child, into)
		}
	}
}

func TestStructuralSharing(t *testing.T) {
	original := buildLarge(t)
	before := original.String()

	edited := mustInsert(t, original, original.Len()-1, "tail edit")
	if original.String() != before {
		t.Fatal("editing modified the original rope")
	}
	validate(t, edited)

	old := map[Node]bool{}
	nodeSet(original.root, old)
	now := map[Node]bool{}
	nodeSet(edited.root, now)

	shared := 0
	for n := range now {
		if old[n] {
			shared++
		}
	}
	// An edit rebuilds only the nodes near one root-to-leaf path.
	if shared < len(old)*3/4 {
		t.Errorf("only %d of %d nodes shared after a single edit", shared, len(old))
	}
}

func TestLineOperations(t *testing.T) {
	r := FromString("first\nsecond\n\nfourth")
	r = mustInsert(t, r, 6, "") // no-op
	r = r.Concat(FromString("\nfifth"))

	wantLines := []string{"first", "second", "", "fourth", "fifth"}
	if r.LineCount() != len(wantLines)-1 {
		t.Fatalf("LineCount() = %d", r.LineCount())
	}
	for i, want := range wantLines {
		got, err := r.LineText(i)
		if err != nil || got != want {
			t.Errorf("LineText(%d) = %q, %v; want %q", i, got, err, want)
		}
	}

	it := r.Lines()
	var got []string
	for it.Next() {
		got = append(got, it.Text())
	}
	if strings.Join(got, "|") != strings.Join(wantLines, "|") {
		t.Errorf("Lines() = %q", got)
	}

	pt, err := r.OffsetToPoint(9)
	if err != nil || pt != (Point{Line: 1, Column: 3}) {
		t.Errorf("OffsetToPoint(9) = %+v, %v", pt, err)
	}
	off, err := r.PointToOffset(Point{Line: 3, Column: 100})
	if err != nil || off != len("first\nsecond\n\nfourth") {
		t.Errorf("PointToOffset clamp = %d, %v", off, err)
	}
}

func TestLinesAgainstStrings(t *testing.T) {
	r := buildEdited(t, 300)
	text := r.String()
	lines := strings.Split(text, "\n")
	if len(lines) != r.LineCount()+1 {
		t.Fatalf("%d lines, LineCount() = %d", len(lines), r.LineCount())
	}

	offset := 0
	for i, line := range lines {
		start, err := r.LineStart(i)
		if err != nil || start != offset {
			t.Fatalf("LineStart(%d) = %d, %v; want %d", i, start, err, offset)
		}
		for col := 0; col <= len(line); col += 7 {
			pt, _ := r.OffsetToPoint(offset + col)
			if pt != (Point{Line: i, Column: col}) {
				t.Fatalf("OffsetToPoint(%d) = %+v, want {%d %d}", offset+col, pt, i, col)
			}
			back, _ := r.PointToOffset(pt)
			if back != offset+col {
				t.Fatalf("PointToOffset(%+v) = %d, want %d", pt, back, offset+col)
			}
		}
		offset += len(line) + 1
	}
}

// buildEdited returns a rope built from n random edits, validated at the end.
func buildEdited(t *testing.T, n int) Rope {
	t.Helper()
	rng := rand.New(rand.NewSource(int64(n)))
	words := []string{"the", "quick\n", "brown", " fox ", "jumps\nover", "世界", "x"}

	r := FromString("seed text\nwith two lines\n")
	for i := 0; i < n; i++ {
		if r.Len() > 0 && rng.Intn(4) == 0 {
			start := rng.Intn(r.Len())
			end := start + rng.Intn(min(8, r.Len()-start)+1)
			r = mustDelete(t, r, start, end)
			continue
		}
		r = mustInsert(t, r, rng.Intn(r.Len()+1), words[rng.Intn(len(words))])
	}
	validate(t, r)
	return r
}

func TestRandomEditsMatchStrings(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := New(WithPolicy(Policy{MaxChildren: 3, MaxFragments: 2, MaxFragmentSize: 4, DepthSlack: 2}))
	model := ""

	for i := 0; i < 2000; i++ {
		switch op := rng.Intn(10); {
		case op < 5:
			pos := rng.Intn(len(model) + 1)
			text := strings.Repeat(string(rune('a'+rng.Intn(26))), rng.Intn(6)+1)
			r = mustInsert(t, r, pos, text)
			model = model[:pos] + text + model[pos:]
		case op < 8 && len(model) > 0:
			start := rng.Intn(len(model))
			end := start + rng.Intn(len(model)-start+1)
			r = mustDelete(t, r, start, end)
			model = model[:start] + model[end:]
		default:
			pos := rng.Intn(len(model) + 1)
			left, right, err := r.Split(pos)
			if err != nil {
				t.Fatal(err)
			}
			r = right.Concat(left)
			model = model[pos:] + model[:pos]
		}

		if r.Len() != len(model) {
			t.Fatalf("step %d: Len() = %d, want %d", i, r.Len(), len(model))
		}
		if i%100 == 0 {
			if r.String() != model {
				t.Fatalf("step %d: content mismatch", i)
			}
			validate(t, r)
		}
	}
	if r.String() != model {
		t.Fatal("final content mismatch")
	}
	validate(t, r)
}

func TestDepthStaysLogarithmic(t *testing.T) {
	r := FromString("")
	for i := 0; i < 10000; i++ {
		r = mustInsert(t, r, r.Len()/2, "x")
	}
	validate(t, r)

	if r.Len() != 10000 {
		t.Fatalf("Len() = %d", r.Len())
	}
	if h := r.Height(); h > 12 {
		t.Errorf("Height() = %d after 10000 inserts", h)
	}
	// Single-byte inserts coalesce into larger fragments.
	if n := r.FragmentCount(); n > 10000/8 {
		t.Errorf("FragmentCount() = %d, expected coalescing", n)
	}
}

func TestRebalance(t *testing.T) {
	r := buildEdited(t, 400)
	b := r.Rebalance()
	if !b.Equals(r) || b.String() != r.String() {
		t.Fatal("Rebalance changed content")
	}
	validate(t, b)
	if b.Height() > r.Height() {
		t.Errorf("Rebalance grew height from %d to %d", r.Height(), b.Height())
	}
}

func TestEquals(t *testing.T) {
	a := FromString("hello world")
	b := FromString("hello").Concat(FromString(" ")).Concat(FromString("world"))
	if !a.Equals(b) || !b.Equals(a) {
		t.Error("expected ropes with equal text to be equal")
	}
	if a.Equals(FromString("hello worle")) {
		t.Error("expected different text to differ")
	}
	if a.Equals(FromString("hello")) {
		t.Error("expected different lengths to differ")
	}
}

func TestFragmentsIterator(t *testing.T) {
	r := buildEdited(t, 100)
	var sb strings.Builder
	it := r.Fragments()
	for it.Next() {
		if it.Offset() != sb.Len() {
			t.Fatalf("Offset() = %d, want %d", it.Offset(), sb.Len())
		}
		sb.WriteString(it.Fragment().String())
	}
	if sb.String() != r.String() {
		t.Error("fragments do not reproduce the text")
	}

	var out strings.Builder
	n, err := r.WriteTo(&out)
	if err != nil || int(n) != r.Len() || out.String() != r.String() {
		t.Errorf("WriteTo() = %d, %v", n, err)
	}
}

func TestConcurrentReaders(t *testing.T) {
	r := buildEdited(t, 300)
	text := r.String()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				k := rng.Intn(len(text))
				if c, err := r.CharAt(k); err != nil || c != text[k] {
					t.Errorf("CharAt(%d) = %q, %v", k, c, err)
					return
				}
				// Derive new versions from the shared parent concurrently.
				if _, err := r.Insert(k, "z"); err != nil {
					t.Error(err)
					return
				}
			}
		}(int64(g))
	}
	wg.Wait()

	if r.String() != text {
		t.Error("concurrent use modified the rope")
	}
}

func TestProperties(t *testing.T) {
	cfg := &quick.Config{MaxCount: 200}

	clamp := func(n uint16, max int) int {
		if max == 0 {
			return 0
		}
		return int(n) % (max + 1)
	}

	charAtMatches := func(parts []string) bool {
		r := New()
		for _, p := range parts {
			r = r.Concat(FromString(p))
		}
		text := r.String()
		for k := 0; k < len(text); k++ {
			if c, err := r.CharAt(k); err != nil || c != text[k] {
				return false
			}
		}
		s, err := r.Substring(0, r.Len())
		return err == nil && s == text
	}
	if err := quick.Check(charAtMatches, cfg); err != nil {
		t.Errorf("charAt/substring: %v", err)
	}

	splitConcat := func(s string, i uint16) bool {
		r := FromString(s)
		k := clamp(i, len(s))
		left, right, err := r.Split(k)
		if err != nil {
			return false
		}
		return left.Len()+right.Len() == r.Len() &&
			left.String()+right.String() == s &&
			left.Concat(right).String() == s
	}
	if err := quick.Check(splitConcat, cfg); err != nil {
		t.Errorf("split/concat: %v", err)
	}

	insertDelete := func(s, ins string, i uint16) bool {
		r := FromString(s)
		k := clamp(i, len(s))
		withIns, err := r.Insert(k, ins)
		if err != nil || withIns.Len() != len(s)+len(ins) {
			return false
		}
		back, err := withIns.Delete(k, k+len(ins))
		return err == nil && back.String() == s
	}
	if err := quick.Check(insertDelete, cfg); err != nil {
		t.Errorf("insert/delete inverse: %v", err)
	}

	deleteLength := func(s string, i, j uint16) bool {
		a, b := clamp(i, len(s)), clamp(j, len(s))
		if a > b {
			a, b = b, a
		}
		r, err := FromString(s).Delete(a, b)
		return err == nil && r.Len() == len(s)-(b-a) && r.String() == s[:a]+s[b:]
	}
	if err := quick.Check(deleteLength, cfg); err != nil {
		t.Errorf("delete length: %v", err)
	}

	associative := func(a, b, c string) bool {
		ra, rb, rc := FromString(a), FromString(b), FromString(c)
		return ra.Concat(rb).Concat(rc).String() == ra.Concat(rb.Concat(rc)).String()
	}
	if err := quick.Check(associative, cfg); err != nil {
		t.Errorf("concat associativity: %v", err)
	}

	noOps := func(s string, i uint16) bool {
		r := FromString(s)
		k := clamp(i, len(s))
		d, err1 := r.Delete(k, k)
		n, err2 := r.Insert(k, "")
		return err1 == nil && err2 == nil && d.String() == s && n.String() == s
	}
	if err := quick.Check(noOps, cfg); err != nil {
		t.Errorf("no-op edits: %v", err)
	}
}
