package testutil

import (
	"encoding/binary"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/pointbuf/layout"
)

// RNG wraps a seeded random source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset restarts the sequence from the initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Points returns n interleaved points of layout l. Integer members get
// uniformly random bits, float members finite values in [-1e6, 1e6), byte
// arrays and custom members random bytes. Padding stays zero.
func (r *RNG) Points(l *layout.Layout, n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	stride := l.Size()
	out := make([]byte, n*stride)
	members := l.Members()
	for i := 0; i < n; i++ {
		p := out[i*stride : (i+1)*stride]
		for _, m := range members {
			r.fill(p[m.Offset():m.End()], m.Datatype())
		}
	}
	return out
}

func (r *RNG) fill(dst []byte, dt layout.Datatype) {
	if !dt.IsNumeric() || !dt.Elem().IsFloat() {
		for i := range dst {
			dst[i] = byte(r.rand.Intn(256))
		}
		return
	}
	size := dt.Elem().Size()
	for c := 0; c < dt.Components(); c++ {
		v := (r.rand.Float64()*2 - 1) * 1e6
		if size == 4 {
			binary.NativeEndian.PutUint32(dst[c*4:], math.Float32bits(float32(v)))
		} else {
			binary.NativeEndian.PutUint64(dst[c*8:], math.Float64bits(v))
		}
	}
}

// Cloud returns n positions uniformly distributed in a cube of the given
// edge length, as [3]float64 values for Position3D.
func (r *RNG) Cloud(n int, edge float64) [][3]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][3]float64, n)
	for i := range out {
		for c := range 3 {
			out[i][c] = r.rand.Float64() * edge
		}
	}
	return out
}
