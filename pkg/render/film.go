package render

import "github.com/lumetra/pathbench/pkg/vmath"

// Film is the single, shared radiance accumulator for the whole image
// (spec §4.5.4 step 5, §5 "single-writer reduction at block
// boundaries"). It is written only by the single-writer merge at the end
// of a block; no worker ever touches it directly, so it carries no lock.
type Film struct {
	Width, Height int
	sum           []vmath.Vec3
	count         []int64
}

// NewFilm allocates a black width x height accumulator.
func NewFilm(width, height int) *Film {
	return &Film{
		Width: width, Height: height,
		sum:   make([]vmath.Vec3, width*height),
		count: make([]int64, width*height),
	}
}

// Merge single-writer-reduces a ThreadFilm's accumulated block into this
// Film (spec §5 "final film merge uses a single-writer reduction at
// block boundaries; no atomic operations in the hot path"). The caller
// (Driver.Render) guarantees only one goroutine calls Merge at a time.
func (f *Film) Merge(tf *ThreadFilm) {
	for i, c := range tf.sum {
		f.sum[i] = f.sum[i].Add(c)
	}
	for i, c := range tf.count {
		f.count[i] += c
	}
	tf.reset()
}

// At returns the averaged color of pixel (x, y); black if no sample has
// landed there yet (spec §8 scenario 1, "empty scene ... film saves as
// all-black RGB").
func (f *Film) At(x, y int) vmath.Vec3 {
	i := y*f.Width + x
	if f.count[i] == 0 {
		return vmath.Vec3{}
	}
	return f.sum[i].Mul(1 / float64(f.count[i]))
}

// ThreadFilm is a thread-exclusive accumulator (spec §5 "per-thread film
// buffers; no locking"): every render worker owns one and splats its
// pixel-sample contributions into it lock-free, merging into the shared
// Film only at a block boundary.
type ThreadFilm struct {
	width, height int
	sum           []vmath.Vec3
	count         []int64
}

func NewThreadFilm(width, height int) *ThreadFilm {
	return &ThreadFilm{
		width: width, height: height,
		sum:   make([]vmath.Vec3, width*height),
		count: make([]int64, width*height),
	}
}

// Splat adds a weighted path contribution at the given raster position
// (spec §4.5.4 step 4, "splat w*C* at the raster position"). px, py are
// pixel coordinates, not normalized raster [0,1]^2 -- the driver converts
// before calling Splat.
func (tf *ThreadFilm) Splat(px, py int, c vmath.Vec3) {
	if px < 0 || px >= tf.width || py < 0 || py >= tf.height {
		return
	}
	i := py*tf.width + px
	tf.sum[i] = tf.sum[i].Add(c)
}

// AddSample records one full pixel-sample's worth of splats at (px, py)
// as a single contribution toward that pixel's average (used for the
// primary camera-pixel contributions of every (s, t!=1) strategy, which
// land on the pixel the eye subpath was traced through exactly once per
// sample regardless of how many (s,t) terms contributed to it).
func (tf *ThreadFilm) AddSample(px, py int) {
	if px < 0 || px >= tf.width || py < 0 || py >= tf.height {
		return
	}
	tf.count[py*tf.width+px]++
}

func (tf *ThreadFilm) reset() {
	for i := range tf.sum {
		tf.sum[i] = vmath.Vec3{}
		tf.count[i] = 0
	}
}
