// Package render implements the BPT rendering driver (spec §4.5.4,
// §5): the per-pixel sampling loop, the thread pool each owning a
// sampler/arena/thread-local film, the Samples/Time termination modes,
// and the single-writer film merge at block boundaries. Adapted from the
// teacher's pkg/renderer/tile_renderer.go and worker_pool.go, generalized
// from adaptive unidirectional sampling to BPT's fixed per-pixel (s,t)
// enumeration.
package render

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumetra/pathbench/pkg/bpt"
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/sampling"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// TerminationMode selects how a render decides it is done (spec §5
// "Cancellation / timeouts").
type TerminationMode int

const (
	// Samples renders exactly Config.NumSamples samples per pixel.
	Samples TerminationMode = iota
	// Time renders like Samples but also stops once Config.TimeLimit
	// elapses, checked between pixel samples (never inside one). It does
	// not go past Config.NumSamples per pixel when time remains.
	Time
)

// Config configures one Driver.Render call (spec §6, renderer.bpt node).
type Config struct {
	NumSamples      int64 // spec "num_samples"
	RRDepth         int   // spec "rr_depth", default 5
	MaxDepth        int   // max subpath length (light and eye)
	NumThreads      int   // spec "num_threads", 0 = all logical cores
	SamplesPerBlock int64 // spec "samples_per_block", default 16384
	Seed            int64 // spec "sampler" seed
	Heuristic       bpt.Heuristic
	Mode            TerminationMode
	TimeLimit       time.Duration // used when Mode == Time
}

// DefaultConfig matches spec §6's stated defaults.
func DefaultConfig() Config {
	return Config{
		NumSamples:      16,
		RRDepth:         5,
		MaxDepth:        16,
		NumThreads:      0,
		SamplesPerBlock: 16384,
		Seed:            1,
		Heuristic:       bpt.Power,
		Mode:            Samples,
	}
}

// Driver owns the thread pool and the output Film for one render (spec
// §5 "Scheduling model": "Parallel threads; each thread owns a sampler, a
// rewindable sampler, a vertex arena, and a private film buffer").
type Driver struct {
	Config Config
	Logger Logger
	Stats  Stats

	cancelled atomic.Bool // polled between pixel samples, never inside one (spec §5)
}

// NewDriver builds a Driver with the given config, defaulting to
// DefaultLogger when logger is nil.
func NewDriver(cfg Config, logger Logger) *Driver {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Driver{Config: cfg, Logger: logger}
}

// Cancel requests the render stop at the next pixel-sample boundary
// (spec §5 "a shared atomic flag is polled between pixel samples").
func (d *Driver) Cancel() { d.cancelled.Store(true) }

// Render drives a full BPT render of scene through camera into a newly
// allocated Film of the given dimensions. One call renders the whole
// image; callers wanting incremental output should set SamplesPerBlock
// small and poll through a custom Stats/Film snapshot between blocks (not
// implemented here, matching spec §5's single-Render-call model).
func (d *Driver) Render(scene bpt.Scene, camera geomcore.Camera, width, height int) *Film {
	film := NewFilm(width, height)
	numThreads := d.Config.NumThreads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	deadline := time.Now().Add(d.Config.TimeLimit)
	totalPixels := int64(width * height)

	var mergeMu sync.Mutex
	var wg sync.WaitGroup
	rowsPerThread := (height + numThreads - 1) / numThreads

	for t := 0; t < numThreads; t++ {
		y0 := t * rowsPerThread
		y1 := y0 + rowsPerThread
		if y1 > height {
			y1 = height
		}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(threadIdx, y0, y1 int) {
			defer wg.Done()
			d.renderRows(scene, camera, width, height, y0, y1, threadIdx, film, &mergeMu, deadline)
		}(t, y0, y1)
	}
	wg.Wait()

	d.Stats.ZeroSumCDFWarnings.Add(sampling.ZeroSumSelections.Swap(0))
	d.Logger.Printf("render complete: %d samples processed across %d pixels, warnings zeroPDF=%d degenTri=%d zeroSumCDF=%d\n",
		d.Stats.SamplesProcessed.Load(), totalPixels,
		d.Stats.ZeroPDFWarnings.Load(), d.Stats.DegenerateTriangleWarnings.Load(), d.Stats.ZeroSumCDFWarnings.Load())
	return film
}

// renderRows is one worker's loop over its row range: it owns its own
// sampler, rewindable sampler, vertex arenas, and thread-local film (spec
// §5), merging into the shared Film every SamplesPerBlock pixel-samples.
func (d *Driver) renderRows(scene bpt.Scene, camera geomcore.Camera, width, height, y0, y1, threadIdx int, film *Film, mergeMu *sync.Mutex, deadline time.Time) {
	seed := d.Config.Seed + int64(uint64(threadIdx)*0x9E3779B97F4A7C15)
	sampler := sampling.NewSampler(seed)
	rewSampler := sampling.NewRewindableSampler(seed + 1)
	lightArena := bpt.NewVertexArena(2 * (d.Config.MaxDepth + 2))
	eyeArena := bpt.NewVertexArena(2 * (d.Config.MaxDepth + 2))
	tf := NewThreadFilm(width, height)

	var samplesSinceMerge int64
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			for s := int64(0); s < d.Config.NumSamples; s++ {
				if d.cancelled.Load() || (d.Config.Mode == Time && time.Now().After(deadline)) {
					d.mergeAndReset(film, tf, mergeMu)
					return
				}
				d.samplePixel(scene, camera, width, height, x, y, &sampler, rewSampler, lightArena, eyeArena, tf)
				rewSampler.Reset()
				d.Stats.SamplesProcessed.Add(1)
				samplesSinceMerge++
				if samplesSinceMerge >= d.Config.SamplesPerBlock {
					d.mergeAndReset(film, tf, mergeMu)
					samplesSinceMerge = 0
				}
			}
		}
	}
	d.mergeAndReset(film, tf, mergeMu)
}

func (d *Driver) mergeAndReset(film *Film, tf *ThreadFilm, mergeMu *sync.Mutex) {
	mergeMu.Lock()
	film.Merge(tf)
	mergeMu.Unlock()
}

// samplePixel implements one pixel sample of spec §4.5.4 steps 1-4:
// reset the arenas, sample one light and one eye subpath, enumerate every
// valid (s, t), and splat w*C* at the resulting raster position.
func (d *Driver) samplePixel(scene bpt.Scene, camera geomcore.Camera, width, height, x, y int, sampler *sampling.Sampler, rewSampler *sampling.RewindableSampler, lightArena, eyeArena *bpt.VertexArena, tf *ThreadFilm) {
	lightArena.Reset()
	eyeArena.Reset()

	jitter := sampler.Vec2()
	raster := vmath.Vec2{
		X: (float64(x) + jitter.X) / float64(width),
		Y: (float64(y) + jitter.Y) / float64(height),
	}

	eyePath := bpt.SampleCameraSubpath(eyeArena, scene, camera, raster, rewSampler, d.Config.MaxDepth, d.Config.RRDepth)
	lightPath := bpt.SampleLightSubpath(lightArena, scene, rewSampler, d.Config.MaxDepth, d.Config.RRDepth)
	d.Stats.PathsTraced.Add(2)

	tf.AddSample(x, y)

	maxS := lightPath.Len()
	maxT := eyePath.Len()
	for t := 1; t <= maxT; t++ {
		for s := 0; s <= maxS; s++ {
			if s+t < 2 {
				continue
			}
			result, ok := bpt.Connect(scene, lightPath.Vertices, eyePath.Vertices, s, t, d.Config.Heuristic)
			if !ok || result.Contribution.IsZero() {
				continue
			}
			contribution := result.Contribution.Mul(result.Weight)
			if !contribution.IsFinite() {
				d.Stats.ZeroPDFWarnings.Add(1)
				continue
			}
			if t == 1 {
				if !result.RasterValid {
					continue
				}
				px := int(result.Raster.X * float64(width))
				py := int(result.Raster.Y * float64(height))
				tf.Splat(px, py, contribution)
			} else {
				tf.Splat(x, y, contribution)
			}
		}
	}
}
