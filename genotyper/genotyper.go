// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package genotyper implements the per-locus driver (§4.7) and the
// multi-locus distribution point: load flanks, reset and populate the
// engine, check informative-read depth, run AlleleSearch, optionally
// bootstrap a confidence interval, and persist results onto the Locus.
//
// FlankSource and ReadSource are the two external collaborators named
// in the design's §6 (reference-genome access and BAM/CRAM read
// classification); this package is their consumer, not their
// implementation — alignment, BAM/CRAM extraction, and VCF emission
// stay out of scope.
package genotyper

import (
	"fmt"
	"log"

	"github.com/bioinfo-tools/strgt/config"
	"github.com/bioinfo-tools/strgt/engine"
	"github.com/bioinfo-tools/strgt/locus"
	"github.com/exascience/pargo/parallel"
	"github.com/google/uuid"
)

// FlankSource resolves the reference sequence flanking a locus. Real
// implementations back this with an indexed FASTA; see §6.
type FlankSource interface {
	GetSequence(chrom string, start, endInclusive int) (string, error)
}

// ReadSource classifies and pushes every read overlapping a locus into
// the engine via its four AddXData methods. Real implementations back
// this with a BAM/CRAM iterator, Smith-Waterman realignment, and read-
// class assignment; see §6.
type ReadSource interface {
	ExtractReads(e *engine.Engine, l *locus.Locus) error
}

// ProcessLocus implements the six driver steps from §4.7. It returns a
// nil error exactly when locus now carries a usable point estimate
// (and, if requested and the bootstrap succeeded, a confidence
// interval). A non-nil error means the locus was skipped and no point
// estimate was written: if the flanks could not be loaded its output
// fields are left untouched; otherwise they are cleared by Reset(), and
// the per-class read counts are filled in once the reads have been
// extracted.
func ProcessLocus(e *engine.Engine, l *locus.Locus, flanks FlankSource, reads ReadSource) error {
	runID := uuid.New()
	logf := func(format string, args ...interface{}) {
		if e.Options.Verbose {
			log.Printf("[%s] locus %s:%d-%d: "+format, append([]interface{}{runID, l.Chrom, l.Start, l.End}, args...)...)
		}
	}

	pre, err := flanks.GetSequence(l.Chrom, l.Start-e.Options.RealignmentFlankLen-1, l.Start-2)
	if err != nil {
		logf("failed to load pre-flank: %v", err)
		return fmt.Errorf("loading pre-flank for %s:%d-%d: %w", l.Chrom, l.Start, l.End, err)
	}
	post, err := flanks.GetSequence(l.Chrom, l.End, l.End+e.Options.RealignmentFlankLen-1)
	if err != nil {
		logf("failed to load post-flank: %v", err)
		return fmt.Errorf("loading post-flank for %s:%d-%d: %w", l.Chrom, l.Start, l.End, err)
	}
	l.PreFlank, l.PostFlank = pre, post

	l.Reset()
	e.Reset()

	logf("loading read data")
	if err := reads.ExtractReads(e, l); err != nil {
		logf("failed to extract reads: %v", err)
		return fmt.Errorf("extracting reads for %s:%d-%d: %w", l.Chrom, l.Start, l.End, err)
	}

	l.EnclosingReads = e.EnclosingDataSize()
	l.SpanningReads = e.SpanningDataSize()
	l.FRRReads = e.FRRDataSize()
	l.FlankingReads = e.FlankingDataSize()

	if l.FRRReads+l.FlankingReads+l.EnclosingReads < config.MinInformativeReads {
		logf("not enough informative reads: enclosing=%d spanning=%d frr=%d flanking=%d",
			l.EnclosingReads, l.SpanningReads, l.FRRReads, l.FlankingReads)
		return fmt.Errorf("%w: %s:%d-%d", config.ErrInsufficientEvidence, l.Chrom, l.Start, l.End)
	}

	motifLen := len(l.Motif)
	refCount := l.RefCount()

	logf("maximizing likelihood")
	a1, a2, negLL, err := e.Search(e.Options.ReadLen, motifLen, refCount)
	if err != nil {
		logf("likelihood maximization failed: %v", err)
		return fmt.Errorf("searching alleles for %s:%d-%d: %w", l.Chrom, l.Start, l.End, err)
	}

	l.Allele1, l.Allele2, l.MinNegLogLik = a1, a2, negLL
	l.Depth = e.ReadPoolSize()

	if e.Options.NumBootSamp > 0 {
		logf("estimating confidence intervals")
		result, err := e.EstimateCI(e.Options.ReadLen, motifLen, refCount)
		if err != nil {
			logf("bootstrap CI unstable, reporting point estimate only: %v", err)
			l.HasCI = false
		} else {
			l.HasCI = true
			l.Lob1, l.Hib1, l.Lob2, l.Hib2 = result.Lob1, result.Hib1, result.Lob2, result.Hib2
			logf("genotype %d/%d, small allele bound [%v,%v], large allele bound [%v,%v]",
				a1, a2, result.Lob1, result.Hib1, result.Lob2, result.Hib2)
		}
	}

	return nil
}

// ProcessLoci distributes loci across workers goroutines, giving each
// contiguous range of loci its own Engine so concurrent workers never
// share mutable engine state, per the design's §5 concurrency model.
// With a non-zero baseOpts.Seed, the range starting at index low is
// seeded with baseOpts.Seed+low+1; with a zero seed each Engine seeds
// itself from the clock. It mirrors the teacher's
// parallel.Range-based work distribution in filters/haplotypecaller.go.
func ProcessLoci(baseOpts config.Options, loci []*locus.Locus, flanks FlankSource, reads ReadSource, workers int) []error {
	errs := make([]error, len(loci))
	if workers <= 0 {
		workers = 1
	}

	parallel.Range(0, len(loci), workers, func(low, high int) {
		opts := baseOpts
		if baseOpts.Seed != 0 {
			opts.Seed = baseOpts.Seed + int64(low) + 1
		}
		e, err := engine.New(opts)
		if err != nil {
			for i := low; i < high; i++ {
				errs[i] = err
			}
			return
		}
		for i := low; i < high; i++ {
			errs[i] = ProcessLocus(e, loci[i], flanks, reads)
		}
	})

	return errs
}
