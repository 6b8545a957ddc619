// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package likelihood aggregates the four ClassModel log-likelihoods
// into a single weighted negative log-likelihood surface the
// optimizer and the exhaustive allele search both evaluate.
package likelihood

import "github.com/bioinfo-tools/strgt/classmodel"

// ClassSet is the four per-class models backing one side of the
// original/resampled duality.
type ClassSet struct {
	Enclosing *classmodel.Enclosing
	Spanning  *classmodel.Spanning
	FRR       *classmodel.FRR
	Flanking  *classmodel.Flanking
}

// NewClassSet allocates an empty ClassSet.
func NewClassSet() *ClassSet {
	return &ClassSet{
		Enclosing: &classmodel.Enclosing{},
		Spanning:  &classmodel.Spanning{},
		FRR:       &classmodel.FRR{},
		Flanking:  &classmodel.Flanking{},
	}
}

// Reset clears all four class models' data vectors.
func (c *ClassSet) Reset() {
	c.Enclosing.Reset()
	c.Spanning.Reset()
	c.FRR.Reset()
	c.Flanking.Reset()
}

// Weights are the per-class weighting terms from Options.
type Weights struct {
	FRR      float64
	Spanning float64
	Enclosing float64
	Flanking float64
}

// Engine wraps an original ClassSet and a resampled mirror ClassSet
// (kept strictly parallel, per the design's "parallel mirror state"
// note) and exposes the negative log-likelihood surface AlleleSearch
// and the Optimizer both evaluate through Evaluate.
type Engine struct {
	Original  *ClassSet
	Resampled *ClassSet
	Weights   Weights
}

// NewEngine allocates an Engine with both class sets ready to receive
// data.
func NewEngine(weights Weights) *Engine {
	return &Engine{
		Original:  NewClassSet(),
		Resampled: NewClassSet(),
		Weights:   weights,
	}
}

// Evaluate returns negLL = -(wFRR*lFRR + wSpan*lSpan + wEncl*lEncl +
// wFlank*lFlank), consulting the resampled class set when resampled is
// true. a2 is ignored by every class model when ploidy is 1, but
// callers should still pass 0 for clarity.
func (e *Engine) Evaluate(a1, a2, readLen, motifLen, refCount, ploidy int, resampled bool) float64 {
	cs := e.Original
	if resampled {
		cs = e.Resampled
	}
	lFRR := cs.FRR.LogLikelihood(a1, a2, readLen, motifLen, refCount, ploidy)
	lSpan := cs.Spanning.LogLikelihood(a1, a2, readLen, motifLen, refCount, ploidy)
	lEncl := cs.Enclosing.LogLikelihood(a1, a2, readLen, motifLen, refCount, ploidy)
	lFlank := cs.Flanking.LogLikelihood(a1, a2, readLen, motifLen, refCount, ploidy)
	return -(e.Weights.FRR*lFRR + e.Weights.Spanning*lSpan + e.Weights.Enclosing*lEncl + e.Weights.Flanking*lFlank)
}
