// Package pattern generates the printable fill content written by the
// randomized overwrite rounds.
//
// Every generator in this package only ever emits bytes from Alphabet, so
// a wiped file reads as a wall of ASCII-art shapes instead of binary noise.
package pattern

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Alphabet is the fixed set of characters used for randomized fill.
// It is made of the characters that compose the shapes returned by Shapes.
const Alphabet = "8=D~#{()} "

// nameAlphabet is the filename-safe subset of Alphabet.
const nameAlphabet = "8=D~#{()}"

// Filler fills a buffer with pattern content.
type Filler interface {
	Fill(p []byte)
}

// Source is the pseudo-random source a Filler draws from.
// *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source seeded from seed. A zero seed is
// replaced by one derived from the current time.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Random picks every byte independently and uniformly from its alphabet.
type Random struct {
	alphabet string
	rng      Source
}

// NewRandom returns a Random filler over Alphabet.
func NewRandom(rng Source) *Random {
	return NewRandomWith(Alphabet, rng)
}

// NewRandomWith returns a Random filler over a custom alphabet.
// It panics on an empty alphabet.
func NewRandomWith(alphabet string, rng Source) *Random {
	if alphabet == "" {
		panic("pattern: empty alphabet")
	}
	return &Random{alphabet: alphabet, rng: rng}
}

// Fill implements Filler.
func (r *Random) Fill(p []byte) {
	n := len(r.alphabet)
	for i := range p {
		p[i] = r.alphabet[r.rng.IntN(n)]
	}
}

// Zero fills buffers with 0x00.
type Zero struct{}

// Fill implements Filler.
func (Zero) Fill(p []byte) {
	clear(p)
}

// Name returns a random name of length n built from the filename-safe
// part of Alphabet. Used to obscure a file's name before it is removed.
func Name(rng Source, n int) string {
	if n < 1 {
		n = 1
	}
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(nameAlphabet[rng.IntN(len(nameAlphabet))])
	}
	return b.String()
}
