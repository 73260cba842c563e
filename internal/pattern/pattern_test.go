package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence is a deterministic Source that cycles through fixed values.
type sequence struct {
	values []int
	pos    int
}

func (s *sequence) IntN(n int) int {
	v := s.values[s.pos%len(s.values)] % n
	s.pos++
	return v
}

func assertInAlphabet(t *testing.T, p []byte) {
	t.Helper()
	for i, c := range p {
		if !strings.ContainsRune(Alphabet, rune(c)) {
			t.Fatalf("byte %d (%q) is outside the alphabet", i, c)
		}
	}
}

func TestRandomFill_StaysInAlphabet(t *testing.T) {
	sizes := []int{0, 1, 7, 4096, 1<<16 + 3}
	rng := NewSource(42)

	for _, size := range sizes {
		buf := make([]byte, size)
		NewRandom(rng).Fill(buf)
		assertInAlphabet(t, buf)
	}
}

func TestRandomFill_UsesSourceIndex(t *testing.T) {
	r := NewRandomWith("abc", &sequence{values: []int{0, 1, 2, 2, 1, 0}})
	buf := make([]byte, 6)
	r.Fill(buf)
	assert.Equal(t, "abccba", string(buf))
}

func TestRandomFill_CoversWholeAlphabet(t *testing.T) {
	buf := make([]byte, 1<<14)
	NewRandom(NewSource(7)).Fill(buf)

	seen := map[byte]bool{}
	for _, c := range buf {
		seen[c] = true
	}
	assert.Len(t, seen, len(Alphabet), "a large buffer should use every character")
}

func TestRandomFill_DifferentSeedsDiffer(t *testing.T) {
	a := make([]byte, 256)
	b := make([]byte, 256)
	NewRandom(NewSource(1)).Fill(a)
	NewRandom(NewSource(2)).Fill(b)
	assert.NotEqual(t, a, b)
}

func TestNewRandomWith_EmptyAlphabetPanics(t *testing.T) {
	assert.Panics(t, func() { NewRandomWith("", NewSource(1)) })
}

func TestZeroFill(t *testing.T) {
	buf := []byte("not zero at all")
	Zero{}.Fill(buf)
	for _, c := range buf {
		require.Equal(t, byte(0), c)
	}
}

func TestShapes(t *testing.T) {
	shapes := Shapes()
	require.Len(t, shapes, 62)
	assert.Contains(t, shapes, "8=D")
	assert.Contains(t, shapes, "8========D ~~~")
	assert.Contains(t, shapes, "8#=======D ~")
	assert.NotContains(t, shapes, "8#========D")
	assert.Contains(t, shapes, "{()}")

	for _, s := range shapes {
		assertInAlphabet(t, []byte(s))
	}
}

func TestShapeFill(t *testing.T) {
	tests := []struct {
		name string
		size int
		want string
	}{
		{name: "cut inside first token", size: 2, want: "8="},
		{name: "token without separator", size: 3, want: "8=D"},
		{name: "token and separator", size: 4, want: "8=D "},
		{name: "second token cut", size: 6, want: "8=D 8="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShape(&sequence{values: []int{0}})
			buf := make([]byte, tt.size)
			s.Fill(buf)
			assert.Equal(t, tt.want, string(buf))
		})
	}
}

func TestShapeFill_StaysInAlphabet(t *testing.T) {
	buf := make([]byte, 1<<15+11)
	NewShape(NewSource(99)).Fill(buf)
	assertInAlphabet(t, buf)
}

func TestName(t *testing.T) {
	rng := NewSource(5)
	for _, n := range []int{1, 8, 40} {
		name := Name(rng, n)
		assert.Len(t, name, n)
		assert.NotContains(t, name, " ")
		assertInAlphabet(t, []byte(name))
	}
	assert.Len(t, Name(rng, 0), 1)
}
