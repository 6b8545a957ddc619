// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package confidence implements the non-parametric bootstrap
// confidence-interval procedure layered on top of AlleleSearch: it
// repeats the search against resampled read pools and summarizes the
// resulting allele distribution with empirical quantiles.
package confidence

import (
	"fmt"
	"math"
	"sort"

	"github.com/bioinfo-tools/strgt/allelesearch"
	"github.com/bioinfo-tools/strgt/classmodel"
	"github.com/bioinfo-tools/strgt/config"
	"github.com/bioinfo-tools/strgt/likelihood"
	"gonum.org/v1/gonum/stat"
)

// Result is the per-position confidence interval the estimator
// produces, tracked positionally: the smaller of (a1,a2) is binned
// with the smaller of each bootstrap sample, and the larger with the
// larger (each sample canonical-sorted first).
type Result struct {
	Lob1, Hib1 float64
	Lob2, Hib2 float64
	OK         bool
	Valid      int
	Total      int
}

// Estimate runs numBoot bootstrap iterations of AlleleSearch with
// resampled=true and returns the alpha-level central interval (e.g.
// alpha=0.05 for a 95% interval, 2.5th/97.5th percentiles) of the two
// position streams. Iterations that fail to produce a finite minimum
// are discarded; if fewer than numBoot/2 iterations (rounded down,
// minimum 1) succeed, Result.OK is false and the point estimate is left untouched
// by the caller.
func Estimate(engine *likelihood.Engine, enclosing classmodel.EnclosingExtractor, resample func(), params allelesearch.Params, numBoot int, alpha float64) (Result, error) {
	if numBoot <= 0 {
		return Result{}, fmt.Errorf("%w: num_boot_samp must be positive to estimate a CI", config.ErrInputOutOfRange)
	}
	params.Resampled = true

	small := make([]float64, 0, numBoot)
	large := make([]float64, 0, numBoot)

	for i := 0; i < numBoot; i++ {
		a1, a2, negLL, err := allelesearch.Search(engine, enclosing, resample, params)
		if err != nil || math.IsInf(negLL, 0) || math.IsNaN(negLL) {
			continue
		}
		lo, hi := a1, a2
		if lo > hi {
			lo, hi = hi, lo
		}
		small = append(small, float64(lo))
		large = append(large, float64(hi))
	}

	valid := len(small)
	minValid := numBoot / 2
	if minValid < 1 {
		minValid = 1
	}
	if valid < minValid {
		return Result{Valid: valid, Total: numBoot}, fmt.Errorf("%w: %d/%d bootstrap samples valid, need >= %d", config.ErrBootstrapInstability, valid, numBoot, minValid)
	}

	sort.Float64s(small)
	sort.Float64s(large)

	lob1, hib1 := quantileInterval(small, alpha)
	lob2, hib2 := quantileInterval(large, alpha)

	return Result{
		Lob1: lob1, Hib1: hib1,
		Lob2: lob2, Hib2: hib2,
		OK:    true,
		Valid: valid,
		Total: numBoot,
	}, nil
}

func quantileInterval(sorted []float64, alpha float64) (lo, hi float64) {
	lo = stat.Quantile(alpha/2, stat.Empirical, sorted, nil)
	hi = stat.Quantile(1-alpha/2, stat.Empirical, sorted, nil)
	return lo, hi
}
