// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package engine ties the read pool, the four class models (and their
// resampled mirror), the optimizer-backed allele search, and the
// bootstrap confidence estimator together into the single per-locus
// object described by the design's Lifecycle section: one Engine per
// process, Reset between loci, populated, searched, and optionally
// bootstrapped.
//
// An Engine is not safe for concurrent use: it owns a mutable read
// pool, mutable class models, a mutable resampled mirror, and a
// mutable RNG. Callers distributing loci across workers must give each
// worker its own Engine (see genotyper.ProcessLoci).
package engine

import (
	"math/rand"
	"time"

	"github.com/bioinfo-tools/strgt/allelesearch"
	"github.com/bioinfo-tools/strgt/config"
	"github.com/bioinfo-tools/strgt/confidence"
	"github.com/bioinfo-tools/strgt/likelihood"
	"github.com/bioinfo-tools/strgt/readpool"
)

// Engine is one locus-processing session's worth of state.
type Engine struct {
	Options config.Options

	pool readpool.Pool
	rng  *rand.Rand
	le   *likelihood.Engine
}

// New constructs an Engine. A zero Options.Seed draws a seed from the
// runtime clock, matching the source's time(NULL) seeding, but callers
// that need reproducibility (tests, §9's RNG-coupling test hook)
// should always pass a non-zero seed.
func New(opts config.Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		Options: opts,
		rng:     rand.New(rand.NewSource(seed)),
		le: likelihood.NewEngine(likelihood.Weights{
			FRR:       opts.FRRWeight,
			Spanning:  opts.SpanningWeight,
			Enclosing: opts.EnclosingWeight,
			Flanking:  opts.FlankingWeight,
		}),
	}
	e.le.Original.Spanning.SetDistribution(opts.DistMean, opts.DistSdev)
	e.le.Resampled.Spanning.SetDistribution(opts.DistMean, opts.DistSdev)
	e.le.Original.FRR.SetSdev(opts.DistSdev)
	e.le.Resampled.FRR.SetSdev(opts.DistSdev)
	return e, nil
}

// Reset clears the read pool and all four class models' data vectors,
// preparing the engine for the next locus. The resampled mirror is
// rebuilt lazily, on the next Resample call, not here.
func (e *Engine) Reset() {
	e.pool.Reset()
	e.le.Original.Reset()
}

func (e *Engine) AddEnclosingData(datum int) {
	e.pool.Add(readpool.Enclosing, datum)
	e.le.Original.Enclosing.AddData(datum)
}

func (e *Engine) AddSpanningData(datum int) {
	e.pool.Add(readpool.Spanning, datum)
	e.le.Original.Spanning.AddData(datum)
}

func (e *Engine) AddFRRData(datum int) {
	e.pool.Add(readpool.FRR, datum)
	e.le.Original.FRR.AddData(datum)
}

func (e *Engine) AddFlankingData(datum int) {
	e.pool.Add(readpool.Flanking, datum)
	e.le.Original.Flanking.AddData(datum)
}

// ReadPoolSize is the engine's current depth: the total number of read
// records added across all four classes.
func (e *Engine) ReadPoolSize() int {
	return e.pool.Len()
}

func (e *Engine) EnclosingDataSize() int { return e.le.Original.Enclosing.DataSize() }
func (e *Engine) SpanningDataSize() int  { return e.le.Original.Spanning.DataSize() }
func (e *Engine) FRRDataSize() int       { return e.le.Original.FRR.DataSize() }
func (e *Engine) FlankingDataSize() int  { return e.le.Original.Flanking.DataSize() }

// Resample draws a fresh with-replacement resample of the read pool
// and rebuilds the resampled class set from scratch, keeping it
// strictly parallel to (but independent of) the original class set.
func (e *Engine) Resample() {
	resampled := e.pool.Resample(e.rng)
	e.le.Resampled.Reset()
	for _, r := range resampled.Records() {
		switch r.Class {
		case readpool.Enclosing:
			e.le.Resampled.Enclosing.AddData(r.Datum)
		case readpool.Spanning:
			e.le.Resampled.Spanning.AddData(r.Datum)
		case readpool.FRR:
			e.le.Resampled.FRR.AddData(r.Datum)
		case readpool.Flanking:
			e.le.Resampled.Flanking.AddData(r.Datum)
		}
	}
}

// Evaluate is a thin pass-through to the underlying likelihood engine,
// exposed for tests and diagnostics; AlleleSearch and the optimizer
// reach the same surface directly.
func (e *Engine) Evaluate(a1, a2, readLen, motifLen, refCount int, resampled bool) float64 {
	return e.le.Evaluate(a1, a2, readLen, motifLen, refCount, e.Options.Ploidy, resampled)
}

func (e *Engine) searchParams(readLen, motifLen, refCount int, resampled bool) allelesearch.Params {
	return allelesearch.Params{
		ReadLen:   readLen,
		MotifLen:  motifLen,
		RefCount:  refCount,
		Ploidy:    e.Options.Ploidy,
		Resampled: resampled,
	}
}

// Search runs AlleleSearch against the engine's current (non-
// resampled) state, having it trigger one unconditional Resample as a
// side effect (see allelesearch.Search's doc comment).
func (e *Engine) Search(readLen, motifLen, refCount int) (a1, a2 int, negLL float64, err error) {
	return allelesearch.Search(e.le, e.le.Original.Enclosing, e.Resample, e.searchParams(readLen, motifLen, refCount, false))
}

// EstimateCI runs the bootstrap confidence-interval procedure over
// e.Options.NumBootSamp iterations of AlleleSearch with resampled=true.
func (e *Engine) EstimateCI(readLen, motifLen, refCount int) (confidence.Result, error) {
	params := e.searchParams(readLen, motifLen, refCount, true)
	return confidence.Estimate(e.le, e.le.Original.Enclosing, e.Resample, params, e.Options.NumBootSamp, e.Options.EffectiveCIAlpha())
}
