package sampling

import (
	"math"
	"sync/atomic"

	"github.com/lumetra/pathbench/pkg/vmath"
)

// ZeroSumSelections counts Distribution1D.SampleDiscrete calls that
// returned index -1 because no weight was positive (spec §4.4 discrete
// distribution invariant, spec §7 category-5 "zero-sum CDF" numeric
// warning). The render driver reads and logs this counter at the end of
// a render rather than propagating an error per sample.
var ZeroSumSelections atomic.Int64

// Distribution1D is a discrete CDF over a finite set of non-negative
// weights (spec §4.3, "light selection by surface area"), generalized
// from the teacher's weighted_light_sampler.go binary-search selection.
type Distribution1D struct {
	weights []float64
	cdf     []float64
	total   float64
}

// NewDistribution1D builds a CDF over weights. A Distribution1D over an
// all-zero or empty weight set is valid but always reports a zero PDF;
// callers (light selection) must handle the zero-light-contribution case
// themselves rather than relying on this type to panic.
func NewDistribution1D(weights []float64) Distribution1D {
	cdf := make([]float64, len(weights)+1)
	for i, w := range weights {
		cdf[i+1] = cdf[i] + w
	}
	return Distribution1D{weights: weights, cdf: cdf, total: cdf[len(cdf)-1]}
}

// SampleDiscrete maps u in [0,1) to an index proportional to its weight,
// returning the index, its discrete-measure selection PDF, and uRemapped:
// a fresh [0,1) variate reparameterized from the unused remainder of u
// within the selected bucket (u*total, rescaled against that bucket's own
// span). A caller that needs additional entropy after the discrete choice
// (e.g. a barycentric draw within a selected face) should consume
// uRemapped rather than reusing u, which is now correlated with the
// selection outcome.
func (d *Distribution1D) SampleDiscrete(u float64) (index int, pdf vmath.Pdf, uRemapped float64) {
	n := len(d.weights)
	if n == 0 || d.total <= 0 {
		ZeroSumSelections.Add(1)
		return -1, vmath.NewPdf(0, vmath.Discrete), u
	}
	target := u * d.total
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if d.cdf[mid+1] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= n {
		lo = n - 1
	}
	remapped := (target - d.cdf[lo]) / d.weights[lo]
	remapped = math.Max(0, math.Min(remapped, 1-1e-12))
	return lo, vmath.NewPdf(d.weights[lo]/d.total, vmath.Discrete), remapped
}

// PdfDiscrete returns the selection PDF of a given index without drawing
// a sample, used by MIS to evaluate the light-selection PDF under the
// alternate (light-subpath-origin) sampling technique (spec §4.5.3).
func (d *Distribution1D) PdfDiscrete(index int) vmath.Pdf {
	if index < 0 || index >= len(d.weights) || d.total <= 0 {
		return vmath.NewPdf(0, vmath.Discrete)
	}
	return vmath.NewPdf(d.weights[index]/d.total, vmath.Discrete)
}

func (d *Distribution1D) Count() int     { return len(d.weights) }
func (d *Distribution1D) TotalWeight() float64 { return d.total }
