// Package rng isolates randomness behind an injectable source so that ids and
// challenge picks can be reproduced in tests.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand/v2"
	"sync"
)

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Source is the randomness capability handed to generators
type Source interface {
	io.Reader
	// Intn returns a value in [0,n). n must be positive.
	Intn(n int) int
	// Suffix returns n base36 characters
	Suffix(n int) string
}

// Seeded is a deterministic Source, safe for concurrent use
type Seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a Source that replays the same sequence for the same seed
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// New returns a Source seeded from the operating system
func New() *Seeded {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return NewSeeded(0)
	}
	return NewSeeded(binary.LittleEndian.Uint64(b[:]))
}

// Intn implements Source
func (s *Seeded) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Suffix implements Source
func (s *Seeded) Suffix(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = suffixAlphabet[s.r.IntN(len(suffixAlphabet))]
	}
	return string(buf)
}

// Read fills p with pseudo-random bytes and never fails
func (s *Seeded) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < len(p); i += 8 {
		v := s.r.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// Or returns s, or an OS-seeded source when s is nil
func Or(s Source) Source {
	if s == nil {
		return New()
	}
	return s
}
