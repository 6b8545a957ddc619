// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package locus defines the STR locus record the rest of the module
// reads input from and writes genotyping results onto.
package locus

import (
	"fmt"

	"github.com/bioinfo-tools/strgt/config"
)

// Locus is a single STR site: the reference span, motif, and flanking
// context the core needs, plus the output fields the engine populates.
type Locus struct {
	Chrom string
	Start int // 1-based, inclusive
	End   int // 1-based, inclusive

	Motif string

	PreFlank  string
	PostFlank string

	// OfftargetShare is the fraction of this locus's supporting reads
	// expected to originate from off-target amplification, in [0,1].
	OfftargetShare float64

	Ploidy int

	// Output fields, populated by genotyper.ProcessLocus.
	Allele1, Allele2 int
	MinNegLogLik     float64

	EnclosingReads int
	SpanningReads  int
	FRRReads       int
	FlankingReads  int
	Depth          int

	HasCI                      bool
	Lob1, Hib1, Lob2, Hib2 float64
}

// New constructs a Locus, validating the fields the core depends on.
func New(chrom string, start, end int, motif string, offtargetShare float64, ploidy int) (*Locus, error) {
	if motif == "" {
		return nil, fmt.Errorf("%w: motif must not be empty", config.ErrInputOutOfRange)
	}
	if end < start {
		return nil, fmt.Errorf("%w: end (%d) precedes start (%d)", config.ErrInputOutOfRange, end, start)
	}
	if ploidy != 1 && ploidy != 2 {
		return nil, fmt.Errorf("%w: ploidy must be 1 or 2, got %d", config.ErrInputOutOfRange, ploidy)
	}
	if offtargetShare < 0 || offtargetShare > 1 {
		return nil, fmt.Errorf("%w: offtarget_share must be in [0,1], got %v", config.ErrInputOutOfRange, offtargetShare)
	}
	l := &Locus{
		Chrom:          chrom,
		Start:          start,
		End:            end,
		Motif:          motif,
		OfftargetShare: offtargetShare,
		Ploidy:         ploidy,
	}
	if l.RefCount() == 0 {
		return nil, fmt.Errorf("%w: motif longer than locus span yields ref_count 0", config.ErrInputOutOfRange)
	}
	return l, nil
}

// RefCount is the number of motif copies spanned by the reference
// sequence at this locus: floor((end-start+1)/len(motif)).
func (l *Locus) RefCount() int {
	if len(l.Motif) == 0 {
		return 0
	}
	return (l.End - l.Start + 1) / len(l.Motif)
}

// Reset clears the output fields so a Locus can be reprocessed.
func (l *Locus) Reset() {
	l.Allele1, l.Allele2 = 0, 0
	l.MinNegLogLik = 0
	l.EnclosingReads, l.SpanningReads, l.FRRReads, l.FlankingReads, l.Depth = 0, 0, 0, 0, 0
	l.HasCI = false
	l.Lob1, l.Hib1, l.Lob2, l.Hib2 = 0, 0, 0, 0
}
