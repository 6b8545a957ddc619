// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package config holds the engine-wide tunables (Options) and the
// numerical constants the rest of the module is required to honor.
package config

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per error kind in the design's error taxonomy.
// The core never wraps these in a richer error hierarchy; callers test
// with errors.Is.
var (
	ErrInsufficientEvidence = errors.New("strgt: insufficient evidence for locus")
	ErrOptimizerDiverged    = errors.New("strgt: optimizer failed to converge to a finite minimum")
	ErrNoCandidates         = errors.New("strgt: no candidate alleles available")
	ErrBootstrapInstability = errors.New("strgt: too few valid bootstrap samples")
	ErrInputOutOfRange      = errors.New("strgt: input out of range")
)

// Numerical constants every caller and every internal package must honor.
const (
	// Margin is the allowed slack, in repeat units, between an
	// alignment boundary and the STR tract's endpoints.
	Margin = 5

	// XRelTol is the relative tolerance on x used to decide optimizer
	// convergence, for both the 1-D and 2-D passes.
	XRelTol = 1e-5

	// Seed1D is the 1-D optimizer's starting point. A deliberate
	// mid-range seed; the search is local, so any other seed is legal
	// as long as it is documented here.
	Seed1D = 45.0

	// Seed2DAllele1 and Seed2DAllele2 are the 2-D optimizer's starting
	// point, one component per allele.
	Seed2DAllele1 = 35.0
	Seed2DAllele2 = 40.0

	// MaxFuncEvaluations bounds the optimizer's evaluation budget per
	// invocation, carried over from the source's "200, TODO change for
	// number depending on the parameters".
	MaxFuncEvaluations = 200

	// DefaultCIAlpha is the two-sided miscoverage of the bootstrap
	// interval, split evenly between the tails (0.05 gives the 95%
	// central interval: 2.5th / 97.5th percentile).
	DefaultCIAlpha = 0.05

	// MinInformativeReads is the minimum number of FRR+flanking+enclosing
	// reads required before a locus is attempted at all.
	MinInformativeReads = 4
)

// Options is the engine-wide configuration, populated once by the
// caller and shared (read-only, after Validate) by every class model.
type Options struct {
	FRRWeight       float64
	SpanningWeight  float64
	EnclosingWeight float64
	FlankingWeight  float64

	Ploidy int // 1 or 2

	ReadLen int

	// RegionSize and MinMatch configure the BAM/CRAM read extraction and
	// realignment a ReadSource implementation performs before handing
	// classified reads to the engine; the core itself never reads them.
	RegionSize int
	MinMatch   int

	RealignmentFlankLen int

	DistMean float64
	DistSdev float64

	NumBootSamp int // 0 disables confidence intervals
	CIAlpha     float64

	Verbose bool

	// Seed seeds the engine's RNG. Zero means "pick one from the
	// runtime clock" (see engine.New); tests should always
	// pass a non-zero seed for reproducibility.
	Seed int64
}

// DefaultOptions returns a usable baseline: diploid, equal class
// weights, a 150bp read length, and the default 95% CI.
func DefaultOptions() Options {
	return Options{
		FRRWeight:           1,
		SpanningWeight:      1,
		EnclosingWeight:     1,
		FlankingWeight:      1,
		Ploidy:              2,
		ReadLen:             150,
		RegionSize:          1000,
		MinMatch:            10,
		RealignmentFlankLen: 50,
		DistMean:            400,
		DistSdev:            80,
		NumBootSamp:         0,
		CIAlpha:             DefaultCIAlpha,
	}
}

// Validate rejects configurations the core cannot reason about.
// Per the design's InputOutOfRange error kind, this is a programmer
// error: callers are expected to abort rather than attempt recovery.
func (o Options) Validate() error {
	if o.Ploidy != 1 && o.Ploidy != 2 {
		return fmt.Errorf("%w: ploidy must be 1 or 2, got %d", ErrInputOutOfRange, o.Ploidy)
	}
	if o.ReadLen <= 0 {
		return fmt.Errorf("%w: read_len must be positive, got %d", ErrInputOutOfRange, o.ReadLen)
	}
	if o.RealignmentFlankLen <= 0 {
		return fmt.Errorf("%w: realignment_flanklen must be positive, got %d", ErrInputOutOfRange, o.RealignmentFlankLen)
	}
	if o.FRRWeight < 0 || o.SpanningWeight < 0 || o.EnclosingWeight < 0 || o.FlankingWeight < 0 {
		return fmt.Errorf("%w: class weights must be non-negative", ErrInputOutOfRange)
	}
	if o.NumBootSamp < 0 {
		return fmt.Errorf("%w: num_boot_samp must be non-negative, got %d", ErrInputOutOfRange, o.NumBootSamp)
	}
	return nil
}

// EffectiveCIAlpha returns o.CIAlpha if set, otherwise DefaultCIAlpha.
func (o Options) EffectiveCIAlpha() float64 {
	if o.CIAlpha <= 0 || o.CIAlpha >= 1 {
		return DefaultCIAlpha
	}
	return o.CIAlpha
}
