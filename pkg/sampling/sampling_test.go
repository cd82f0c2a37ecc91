package sampling

import (
	"math"
	"testing"

	"github.com/lumetra/pathbench/pkg/vmath"
)

func TestDistribution1DSumsToOne(t *testing.T) {
	d := NewDistribution1D([]float64{1, 2, 3, 4})
	var total float64
	const n = 10000
	counts := make([]int, 4)
	for i := 0; i < n; i++ {
		u := (float64(i) + 0.5) / n
		idx, pdf, uRemap := d.SampleDiscrete(u)
		if idx < 0 {
			t.Fatalf("unexpected empty sample at u=%v", u)
		}
		if uRemap < 0 || uRemap >= 1 {
			t.Errorf("remapped variate out of [0,1): %v", uRemap)
		}
		counts[idx]++
		total += pdf.Value
	}
	var pdfSum float64
	for i := 0; i < d.Count(); i++ {
		pdfSum += d.PdfDiscrete(i).Value
	}
	if math.Abs(pdfSum-1) > 1e-12 {
		t.Errorf("selection pdfs sum to %v, want 1", pdfSum)
	}
	for i, w := range []float64{1, 2, 3, 4} {
		got := float64(counts[i]) / n
		want := w / 10
		if math.Abs(got-want) > 0.02 {
			t.Errorf("bucket %d: got frequency %v, want ~%v", i, got, want)
		}
	}
}

func TestDistribution1DEmpty(t *testing.T) {
	d := NewDistribution1D(nil)
	idx, pdf, _ := d.SampleDiscrete(0.5)
	if idx != -1 || pdf.Value != 0 {
		t.Errorf("empty distribution should report index -1, pdf 0; got %v %v", idx, pdf.Value)
	}
}

func TestCosineSampleHemispherePdfMatchesCosine(t *testing.T) {
	for _, u := range []vmath.Vec2{{X: 0.1, Y: 0.2}, {X: 0.9, Y: 0.05}, {X: 0.5, Y: 0.5}} {
		dir, pdf := CosineSampleHemisphere(u)
		if dir.Z < 0 {
			t.Errorf("cosine hemisphere sample should stay in +Z hemisphere, got z=%v", dir.Z)
		}
		if math.Abs(dir.LengthSquared()-1) > 1e-9 {
			t.Errorf("sample not unit length: %v", dir)
		}
		if pdf.Measure != vmath.ProjectedSolidAngle {
			t.Errorf("expected projected solid angle measure, got %v", pdf.Measure)
		}
	}
}

func TestUniformSampleTriangleInBounds(t *testing.T) {
	for _, u := range []vmath.Vec2{{X: 0.3, Y: 0.7}, {X: 0.01, Y: 0.99}, {X: 0.5, Y: 0.5}} {
		b0, b1 := UniformSampleTriangle(u)
		b2 := 1 - b0 - b1
		if b0 < 0 || b1 < 0 || b2 < -1e-12 {
			t.Errorf("barycentric coords out of range: %v %v %v", b0, b1, b2)
		}
	}
}

func TestSamplerCloneIndependence(t *testing.T) {
	s := NewSampler(42)
	a := s.Clone()
	b := s.Clone()
	same := true
	for i := 0; i < 8; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("two clones of the same parent stream should not produce identical sequences")
	}
}

func TestRewindableSamplerReplays(t *testing.T) {
	r := NewRewindableSampler(7)
	mark := r.Mark()
	first := []float64{r.Float64(), r.Float64(), r.Float64()}
	r.Rewind(mark)
	second := []float64{r.Float64(), r.Float64(), r.Float64()}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rewind did not replay identical stream at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}
