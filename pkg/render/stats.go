package render

import "sync/atomic"

// Stats holds the render driver's numeric-warning counters (spec §7,
// category 5: "zero-sum CDF, degenerate triangle during build, zero-PDF
// evaluation during MIS. Logged, sample dropped, render continues"),
// generalizing the teacher's RenderStats into atomics safe for
// concurrent increment from every worker goroutine.
type Stats struct {
	ZeroPDFWarnings            atomic.Int64
	DegenerateTriangleWarnings atomic.Int64
	ZeroSumCDFWarnings         atomic.Int64

	SamplesProcessed atomic.Int64 // progress-reporting counter (spec §5 "producer-consumer channel")
	PathsTraced      atomic.Int64
}

// Snapshot is a point-in-time copy of Stats, suitable for logging or
// returning from Driver.Render once rendering completes.
type Snapshot struct {
	ZeroPDFWarnings            int64
	DegenerateTriangleWarnings int64
	ZeroSumCDFWarnings         int64
	SamplesProcessed           int64
	PathsTraced                int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		ZeroPDFWarnings:            s.ZeroPDFWarnings.Load(),
		DegenerateTriangleWarnings: s.DegenerateTriangleWarnings.Load(),
		ZeroSumCDFWarnings:         s.ZeroSumCDFWarnings.Load(),
		SamplesProcessed:           s.SamplesProcessed.Load(),
		PathsTraced:                s.PathsTraced.Load(),
	}
}
