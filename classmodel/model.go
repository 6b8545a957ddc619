// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package classmodel implements the four per-read-class log-likelihood
// models (Enclosing, Spanning, FRR, Flanking) that LikelihoodEngine
// mixes into a locus-level negative log-likelihood.
package classmodel

import "math"

// Model is the shared capability every read-evidence class implements.
// For ploidy=2 the likelihood must be symmetric in (a1, a2); for
// ploidy=1 the second allele is ignored. A class with zero data points
// contributes 0 (log 1).
type Model interface {
	Reset()
	AddData(datum int)
	DataSize() int
	LogLikelihood(a1, a2, readLen, motifLen, refCount, ploidy int) float64
}

// EnclosingExtractor is the capability specific to the Enclosing class:
// seeding the AlleleSearch candidate list from directly observed copy
// counts.
type EnclosingExtractor interface {
	ExtractAlleles() []int
}

// mixture returns the ploidy-aware 0.5*(P(r|a1)+P(r|a2)) diploid
// mixture, or the haploid single-allele likelihood, in log space, for
// one read's per-allele log-likelihoods la1, la2.
func mixture(la1, la2 float64, ploidy int) float64 {
	if ploidy == 1 {
		return la1
	}
	// log(0.5*exp(la1) + 0.5*exp(la2)) computed in a numerically
	// stable way via the log-sum-exp identity.
	if math.IsInf(la1, -1) && math.IsInf(la2, -1) {
		return math.Inf(-1)
	}
	m := math.Max(la1, la2)
	return m + math.Log(0.5*math.Exp(la1-m)+0.5*math.Exp(la2-m))
}

// stutterLogProb is the shared noise kernel behind the Enclosing and
// Flanking classes: the probability of observing `diff` fewer repeat
// units than are truly present decays geometrically, diff >= 0.
// errRate is the per-unit probability of losing one more repeat unit
// to stutter/sequencing noise; diff < 0 is impossible (a read cannot
// enclose more copies than the chromosome it was drawn from carries).
func stutterLogProb(observed, allele int, errRate float64) float64 {
	diff := allele - observed
	if diff < 0 {
		return math.Inf(-1)
	}
	return math.Log(1-errRate) + float64(diff)*math.Log(errRate)
}
