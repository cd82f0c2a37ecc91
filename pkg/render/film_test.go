package render

import (
	"testing"

	"github.com/lumetra/pathbench/pkg/vmath"
)

func TestNewFilmStartsBlack(t *testing.T) {
	f := NewFilm(4, 4)
	if got := f.At(1, 1); !got.IsZero() {
		t.Errorf("fresh film should be black, got %v", got)
	}
}

func TestThreadFilmSplatAndMergeAverages(t *testing.T) {
	f := NewFilm(2, 2)
	tf := NewThreadFilm(2, 2)

	tf.Splat(0, 0, vmath.Vec3{X: 1, Y: 0, Z: 0})
	tf.AddSample(0, 0)
	tf.Splat(0, 0, vmath.Vec3{X: 3, Y: 0, Z: 0})
	tf.AddSample(0, 0)

	f.Merge(tf)

	got := f.At(0, 0)
	if got.X != 2 {
		t.Errorf("average of two samples (1,0,0) and (3,0,0) = %v, want X=2", got)
	}
}

func TestThreadFilmSplatOutOfBoundsIsIgnored(t *testing.T) {
	tf := NewThreadFilm(2, 2)
	tf.Splat(-1, 0, vmath.Vec3{X: 1, Y: 1, Z: 1})
	tf.Splat(5, 5, vmath.Vec3{X: 1, Y: 1, Z: 1})
	tf.AddSample(-1, 0)

	f := NewFilm(2, 2)
	f.Merge(tf)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := f.At(x, y); !got.IsZero() {
				t.Errorf("out-of-bounds splats should not land anywhere, pixel (%d,%d) = %v", x, y, got)
			}
		}
	}
}

func TestMergeResetsThreadFilm(t *testing.T) {
	f := NewFilm(1, 1)
	tf := NewThreadFilm(1, 1)
	tf.Splat(0, 0, vmath.Vec3{X: 1, Y: 1, Z: 1})
	tf.AddSample(0, 0)

	f.Merge(tf)
	f.Merge(tf) // merging the same (now reset) thread film again must not double-count

	if got := f.At(0, 0); got.X != 1 {
		t.Errorf("merging a reset thread film a second time should not change the result, got %v", got)
	}
}

func TestMergeAccumulatesAcrossBlocks(t *testing.T) {
	f := NewFilm(1, 1)
	tf := NewThreadFilm(1, 1)

	tf.Splat(0, 0, vmath.Vec3{X: 2, Y: 0, Z: 0})
	tf.AddSample(0, 0)
	f.Merge(tf)

	tf.Splat(0, 0, vmath.Vec3{X: 0, Y: 0, Z: 0})
	tf.AddSample(0, 0)
	f.Merge(tf)

	if got := f.At(0, 0); got.X != 1 {
		t.Errorf("accumulated average of (2,0,0) and (0,0,0) over two blocks = %v, want X=1", got)
	}
}

func TestSplatWithoutAddSampleContributesToSumButNotCount(t *testing.T) {
	f := NewFilm(1, 1)
	tf := NewThreadFilm(1, 1)
	tf.Splat(0, 0, vmath.Vec3{X: 1, Y: 1, Z: 1})
	f.Merge(tf)

	// count is still zero, so At reports black rather than dividing by zero.
	if got := f.At(0, 0); !got.IsZero() {
		t.Errorf("a splat with no matching AddSample should leave the pixel unreported (count 0), got %v", got)
	}
}
