package pattern

import "strings"

// Shapes returns the ASCII-art tokens used by the Shapes filler:
// every "8=D" variant with one to eight shaft segments, with or without a
// "#" base and zero to three "~" trails, plus "{()}" and "({})".
func Shapes() []string {
	var shapes []string
	for _, base := range []string{"8", "8#"} {
		maxShaft := 8
		if base == "8#" {
			maxShaft = 7
		}
		for shaft := 1; shaft <= maxShaft; shaft++ {
			for trail := 0; trail < 4; trail++ {
				var b strings.Builder
				b.WriteString(base)
				b.WriteString(strings.Repeat("=", shaft))
				b.WriteByte('D')
				if trail > 0 {
					b.WriteByte(' ')
					b.WriteString(strings.Repeat("~", trail))
				}
				shapes = append(shapes, b.String())
			}
		}
	}
	return append(shapes, "{()}", "({})")
}

// Shape fills buffers with whole tokens separated by single spaces. The
// last token is cut where the buffer ends.
type Shape struct {
	tokens []string
	rng    Source
}

// NewShape returns a Shape filler over Shapes().
func NewShape(rng Source) *Shape {
	return &Shape{tokens: Shapes(), rng: rng}
}

// Fill implements Filler.
func (s *Shape) Fill(p []byte) {
	pos := 0
	for pos < len(p) {
		tok := s.tokens[s.rng.IntN(len(s.tokens))]
		pos += copy(p[pos:], tok)
		if pos < len(p) {
			p[pos] = ' '
			pos++
		}
	}
}
