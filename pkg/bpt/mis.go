package bpt

// remap0 maps a zero density to 1 so that a ratio involving it contributes
// neither a multiplicative zero nor a division by zero to the recurrence;
// it only ever appears paired with a delta vertex, whose ratio term is
// excluded from the sum by the connectibility check below regardless of
// its numeric value (spec §4.5.3, teacher's bdpt_mis.go remap0).
func remap0(v float64) float64 {
	if v != 0 {
		return v
	}
	return 1
}

// connectible reports whether two adjacent vertices on the assembled full
// path form a summable MIS term: a connection strategy that routes
// through a delta (specular) vertex has probability zero under every
// other technique, so its ratio must be dropped rather than summed
// (spec §4.5.3).
func connectible(a, b *Vertex) bool {
	return !a.IsSpecular && !b.IsSpecular
}

// Heuristic selects the exponent β in the MIS weight formula w_{s,t} =
// p_s^β / Σ p_i^β (spec §4.5.3, config key renderer.mis_weight).
type Heuristic int

const (
	Balance Heuristic = iota // β = 1
	Power                    // β = 2, the spec's default
)

// weighTerm raises a single-step pdfRev/pdfFwd ratio to the heuristic's
// exponent before it is folded into the running cumulative ratio;
// squaring each step is equivalent to squaring the cumulative product
// (since (ab)^2 = a^2 b^2), so ri stays a valid running ri^β at every
// prefix of the walk, matching pbrt's per-step MIS() lambda.
func weighTerm(h Heuristic, x float64) float64 {
	if h == Power {
		return x * x
	}
	return x
}

// MISWeight computes the weight w_{s,t} for the full path assembled from
// lightPath[0:s] and cameraPath[0:t] via the O(n) ratio recurrence (spec
// §4.5.3): rather than recomputing every technique's full density from
// scratch, it walks each subpath once, multiplying the running ratio
// r_i = pdfRev_i / pdfFwd_i at each step and accumulating it whenever
// both endpoints of that hypothetical connection are non-specular. This
// generalizes the teacher's bdpt_mis.go, which open-codes this recurrence
// per fixed strategy (light tracing, direct lighting, unidirectional,
// general connection); here the same recurrence runs uniformly for every
// (s, t).
func MISWeight(lightPath, cameraPath []*Vertex, s, t int, heuristic Heuristic) float64 {
	if s+t == 2 {
		return 1
	}

	sumRi := 0.0

	ri := 1.0
	for i := t - 1; i > 0; i-- {
		ri *= weighTerm(heuristic, remap0(cameraPath[i].PdfReverse.Value)/remap0(cameraPath[i].PdfForward.Value))
		if connectible(cameraPath[i], cameraPath[i-1]) {
			sumRi += ri
		}
	}

	ri = 1.0
	for i := s - 1; i >= 0; i-- {
		ri *= weighTerm(heuristic, remap0(lightPath[i].PdfReverse.Value)/remap0(lightPath[i].PdfForward.Value))
		deltaPredecessor := false
		if i > 0 {
			deltaPredecessor = lightPath[i-1].IsSpecular
		}
		if !lightPath[i].IsSpecular && !deltaPredecessor {
			sumRi += ri
		}
	}

	return 1 / (1 + sumRi)
}
