// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

package classmodel

import "gonum.org/v1/gonum/stat/distuv"

// FRR models fully repeat reads: reads entirely contained within the
// repeat tract, whose mate maps in a configuration only consistent
// with the tract being longer than one read. The datum is the
// per-read mate distance into the tract; larger alleles push the
// expected distance further out, so FRR reads are evidence of
// expansion beyond ReadLen.
type FRR struct {
	data []int

	DistSdev float64
}

var _ Model = (*FRR)(nil)

func (f *FRR) SetSdev(sdev float64) {
	f.DistSdev = sdev
}

func (f *FRR) Reset() {
	f.data = f.data[:0]
}

func (f *FRR) AddData(datum int) {
	f.data = append(f.data, datum)
}

func (f *FRR) DataSize() int {
	return len(f.data)
}

func (f *FRR) LogLikelihood(a1, a2, readLen, motifLen, refCount, ploidy int) float64 {
	if len(f.data) == 0 {
		return 0
	}
	sdev := f.DistSdev
	if sdev <= 0 {
		sdev = 1
	}
	total := 0.0
	for _, d := range f.data {
		la1 := distuv.Normal{Mu: f.expectedExcess(a1, readLen, motifLen, refCount), Sigma: sdev}.LogProb(float64(d))
		la2 := distuv.Normal{Mu: f.expectedExcess(a2, readLen, motifLen, refCount), Sigma: sdev}.LogProb(float64(d))
		total += mixture(la1, la2, ploidy)
	}
	return total
}

// expectedExcess is how far, in base pairs, the tract extends past a
// single read once it spans the allele-implied amplicon, clamped to 0
// since an allele too small to produce FRR reads should not predict a
// negative excess.
func (f *FRR) expectedExcess(allele, readLen, motifLen, refCount int) float64 {
	excess := (allele-refCount)*motifLen - readLen
	if excess < 0 {
		excess = 0
	}
	return float64(excess)
}
