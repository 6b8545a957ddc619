// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package allelesearch assembles a candidate allele set from a locus's
// enclosing reads plus the box-constrained optimizer's proposals, then
// scores every candidate pair exhaustively to find the maximum-
// likelihood genotype. The continuous optimizer only proposes
// candidates; the exhaustive pair scan is what actually decides the
// answer.
package allelesearch

import (
	"math"

	"github.com/bioinfo-tools/strgt/boxsearch"
	"github.com/bioinfo-tools/strgt/classmodel"
	"github.com/bioinfo-tools/strgt/config"
	"github.com/bioinfo-tools/strgt/likelihood"
	"github.com/willf/bitset"
)

// Params bundles the per-locus quantities every evaluation of the
// likelihood surface needs.
type Params struct {
	ReadLen, MotifLen, RefCount, Ploidy int
	// Resampled selects which of the likelihood engine's two mirrored
	// class sets candidate pairs are scored against. The optimizer
	// seeding step still triggers an unconditional resample
	// regardless of this flag — see Search's doc comment.
	Resampled bool
}

func (p Params) bound1D() float64 {
	return float64(p.ReadLen / p.MotifLen)
}

func (p Params) bound2D() float64 {
	return float64((p.ReadLen-2*config.Margin)/p.MotifLen - 1)
}

// orderedSet is an insertion-ordered, deduplicated set of non-negative
// integer alleles. Membership tests go through a bitset for O(1)
// lookups; iteration order — which AlleleSearch's tie-breaking depends
// on — is carried separately by the slice.
type orderedSet struct {
	seen   *bitset.BitSet
	values []int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: bitset.New(64)}
}

func (s *orderedSet) add(v int) {
	if v < 0 {
		return
	}
	u := uint(v)
	if s.seen.Test(u) {
		return
	}
	s.seen.Set(u)
	s.values = append(s.values, v)
}

// Search implements the candidate-assembly and exhaustive-pair-scan
// procedure. resample is called exactly once, unconditionally, before
// any candidate is proposed — mirroring the source's
// AlleleSearch-always-resamples behavior (an open question in the
// design, resolved as intentional RNG-consumption coupling rather than
// a bug: fixing it would change bootstrap determinism relative to
// upstream).
func Search(engine *likelihood.Engine, enclosing classmodel.EnclosingExtractor, resample func(), params Params) (a1, a2 int, minNegLL float64, err error) {
	candidates := newOrderedSet()
	for _, c := range enclosing.ExtractAlleles() {
		candidates.add(c)
	}

	resample()

	ub1D := params.bound1D()
	ub2D := params.bound2D()

	if params.Ploidy == 2 {
		seeded := enclosing.ExtractAlleles() // snapshot before optimizer proposals are unioned in
		for _, c := range seeded {
			obj := func(x float64) float64 {
				a := roundAllele(x)
				return engine.Evaluate(a, c, params.ReadLen, params.MotifLen, params.RefCount, 2, params.Resampled)
			}
			if got, _, e := boxsearch.Minimize1D(obj, 0, ub1D, config.Seed1D); e == nil {
				candidates.add(got)
			}
		}
		obj2D := func(x, y float64) float64 {
			return engine.Evaluate(roundAllele(x), roundAllele(y), params.ReadLen, params.MotifLen, params.RefCount, 2, params.Resampled)
		}
		if ga1, ga2, _, e := boxsearch.Minimize2D(obj2D, 0, ub2D, config.Seed2DAllele1, config.Seed2DAllele2); e == nil {
			candidates.add(ga1)
			candidates.add(ga2)
		}
	} else {
		obj := func(x float64) float64 {
			return engine.Evaluate(roundAllele(x), 0, params.ReadLen, params.MotifLen, params.RefCount, 1, params.Resampled)
		}
		if got, _, e := boxsearch.Minimize1D(obj, 0, ub1D, config.Seed1D); e == nil {
			candidates.add(got)
		}
	}

	if len(candidates.values) == 0 {
		return 0, 0, 0, config.ErrNoCandidates
	}

	return scoreExhaustively(engine, candidates.values, params)
}

func roundAllele(x float64) int {
	a := int(math.Round(x))
	if a < 0 {
		return 0
	}
	return a
}

// scoreExhaustively evaluates negLL over every ordered pair in the
// deduplicated candidate set (or every (a,0) singleton when haploid),
// keeping the first-seen minimum on ties.
func scoreExhaustively(engine *likelihood.Engine, candidates []int, params Params) (a1, a2 int, minNegLL float64, err error) {
	best := math.Inf(1)
	bestA1, bestA2 := 0, 0
	found := false

	if params.Ploidy == 1 {
		for _, c := range candidates {
			negLL := engine.Evaluate(c, 0, params.ReadLen, params.MotifLen, params.RefCount, 1, params.Resampled)
			if negLL < best {
				best = negLL
				bestA1 = c
				found = true
			}
		}
		if !found {
			return 0, 0, 0, config.ErrNoCandidates
		}
		return bestA1, 0, best, nil
	}

	for _, x := range candidates {
		for _, y := range candidates {
			negLL := engine.Evaluate(x, y, params.ReadLen, params.MotifLen, params.RefCount, 2, params.Resampled)
			if negLL < best {
				best = negLL
				bestA1, bestA2 = x, y
				found = true
			}
		}
	}
	if !found {
		return 0, 0, 0, config.ErrNoCandidates
	}
	if bestA1 > bestA2 {
		bestA1, bestA2 = bestA2, bestA1
	}
	return bestA1, bestA2, best, nil
}
