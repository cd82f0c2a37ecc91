// Package sampling implements the renderer's random-number and
// importance-sampling kernel (spec §4.4): a per-thread cloneable
// sampler, the discrete light-selection distribution, and the
// cosine/uniform/disk/triangle sample warps used throughout BPT.
package sampling

import (
	"math/rand"

	"github.com/lumetra/pathbench/pkg/vmath"
)

// Sampler is a small value type wrapping a *rand.Rand. It is cloned
// (never shared) across worker goroutines, mirroring the teacher's
// per-thread RNG convention so each render thread owns an independent,
// data-race-free stream.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler builds a Sampler seeded deterministically from seed, so a
// render run with a fixed seed and thread count reproduces bit-identical
// output (spec §8 "Determinism").
func NewSampler(seed int64) Sampler {
	return Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Clone derives an independent child sampler. The child's seed is drawn
// from the parent stream, so cloning N samplers from one root is itself
// deterministic given the root seed and clone order.
func (s *Sampler) Clone() Sampler {
	childSeed := s.rng.Int63()
	return NewSampler(childSeed)
}

func (s *Sampler) Float64() float64 { return s.rng.Float64() }

func (s *Sampler) Vec2() vmath.Vec2 {
	return vmath.Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
}

// RewindableSampler records every draw since the last Reset, so a caller
// can Rewind to a position taken with Mark and replay an identical
// sequence of samples. The BPT subpath samplers only draw forward from
// it; the render driver calls Reset after every pixel sample (spec
// §4.5.1).
type RewindableSampler struct {
	base    Sampler
	history []float64
	pos     int
	mark    int
}

func NewRewindableSampler(seed int64) *RewindableSampler {
	return &RewindableSampler{base: NewSampler(seed)}
}

func (r *RewindableSampler) Float64() float64 {
	if r.pos < len(r.history) {
		v := r.history[r.pos]
		r.pos++
		return v
	}
	v := r.base.Float64()
	r.history = append(r.history, v)
	r.pos++
	return v
}

func (r *RewindableSampler) Vec2() vmath.Vec2 {
	return vmath.Vec2{X: r.Float64(), Y: r.Float64()}
}

// Mark records the current stream position for a later Rewind.
func (r *RewindableSampler) Mark() int { return r.pos }

// Rewind resets the read cursor to a previously recorded mark; draws
// made after Rewind replay recorded values until pos catches back up to
// len(history), after which new values are drawn and appended as usual.
func (r *RewindableSampler) Rewind(mark int) { r.pos = mark }

// Reset drops all recorded history and returns the cursor to zero; used
// between pixel samples so the recording buffer does not grow unbounded
// across a whole render (spec §4.5.4, "reset per sample").
func (r *RewindableSampler) Reset() {
	r.history = r.history[:0]
	r.pos = 0
}
