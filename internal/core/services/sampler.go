package services

import (
	"math"
	"math/rand"
	"sort"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

// coverageEpsilon keeps every source's sampling weight strictly
// positive so fully-covered documents stay selectable. The value is a
// tuning constant carried over for behavioural parity, not an
// invariant.
const coverageEpsilon = 1e-6

// chooseSourceByCoverage draws one source with probability proportional
// to max(0, 1-coverage) + ε, favouring documents whose chunks have few
// reviews. Returns false when the grouping has no source with chunks.
// Pure and stateless apart from the supplied rng.
func chooseSourceByCoverage(bySource map[string][]string, reviewed map[string]struct{}, rng *rand.Rand) (string, bool) {
	sources := make([]string, 0, len(bySource))
	for source, ids := range bySource {
		if len(ids) > 0 {
			sources = append(sources, source)
		}
	}
	if len(sources) == 0 {
		return "", false
	}
	// Stable order so a seeded rng gives reproducible draws.
	sort.Strings(sources)

	weights := make([]float64, len(sources))
	var total float64
	for i, source := range sources {
		ids := bySource[source]
		reviewedInSource := 0
		for _, id := range ids {
			if _, ok := reviewed[id]; ok {
				reviewedInSource++
			}
		}
		coverage := domain.Coverage(len(ids), reviewedInSource)
		weight := math.Max(0, 1-coverage) + coverageEpsilon
		weights[i] = weight
		total += weight
	}

	r := rng.Float64() * total
	var cumulative float64
	for i, weight := range weights {
		cumulative += weight
		if r < cumulative {
			return sources[i], true
		}
	}
	// Float rounding can leave r at the very top of the range.
	return sources[len(sources)-1], true
}
