// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

package classmodel

import "gonum.org/v1/gonum/stat/distuv"

// Spanning models read pairs whose insert spans the repeat: the
// fragment's total length is explained by the library's insert-size
// distribution, shifted by how much longer (or shorter) the allele
// makes the amplicon relative to the reference.
type Spanning struct {
	data []int

	DistMean float64
	DistSdev float64
}

var _ Model = (*Spanning)(nil)

// SetDistribution configures the underlying insert-size distribution's
// mean and standard deviation. Must be called (directly or via the
// engine wiring) before LogLikelihood is meaningful.
func (s *Spanning) SetDistribution(mean, sdev float64) {
	s.DistMean = mean
	s.DistSdev = sdev
}

func (s *Spanning) Reset() {
	s.data = s.data[:0]
}

func (s *Spanning) AddData(datum int) {
	s.data = append(s.data, datum)
}

func (s *Spanning) DataSize() int {
	return len(s.data)
}

func (s *Spanning) LogLikelihood(a1, a2, readLen, motifLen, refCount, ploidy int) float64 {
	if len(s.data) == 0 {
		return 0
	}
	sdev := s.DistSdev
	if sdev <= 0 {
		sdev = 1
	}
	total := 0.0
	for _, d := range s.data {
		la1 := distuv.Normal{Mu: s.expandedMean(a1, motifLen, refCount), Sigma: sdev}.LogProb(float64(d))
		la2 := distuv.Normal{Mu: s.expandedMean(a2, motifLen, refCount), Sigma: sdev}.LogProb(float64(d))
		total += mixture(la1, la2, ploidy)
	}
	return total
}

// expandedMean is the insert-size distribution's mean, shifted by the
// base-pair difference between the candidate allele and the reference
// copy count.
func (s *Spanning) expandedMean(allele, motifLen, refCount int) float64 {
	return s.DistMean + float64((allele-refCount)*motifLen)
}
