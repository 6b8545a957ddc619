package classmodel

import (
	"math"
	"testing"
)

func TestZeroDataYieldsZeroLogLikelihood(t *testing.T) {
	models := []Model{&Enclosing{}, &Spanning{DistMean: 400, DistSdev: 80}, &FRR{DistSdev: 80}, &Flanking{}}
	for _, m := range models {
		if got := m.LogLikelihood(8, 20, 150, 2, 10, 2); got != 0 {
			t.Errorf("%T: zero-data LogLikelihood = %v, want 0", m, got)
		}
	}
}

func TestEnclosingSymmetry(t *testing.T) {
	e := &Enclosing{}
	e.AddData(8)
	e.AddData(20)
	a := e.LogLikelihood(8, 20, 150, 2, 10, 2)
	b := e.LogLikelihood(20, 8, 150, 2, 10, 2)
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("Enclosing not symmetric: %v vs %v", a, b)
	}
}

func TestSpanningSymmetry(t *testing.T) {
	s := &Spanning{DistMean: 400, DistSdev: 80}
	s.AddData(450)
	s.AddData(500)
	a := s.LogLikelihood(8, 20, 150, 2, 10, 2)
	b := s.LogLikelihood(20, 8, 150, 2, 10, 2)
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("Spanning not symmetric: %v vs %v", a, b)
	}
}

func TestFlankingSymmetry(t *testing.T) {
	fl := &Flanking{}
	fl.AddData(5)
	a := fl.LogLikelihood(8, 20, 150, 2, 10, 2)
	b := fl.LogLikelihood(20, 8, 150, 2, 10, 2)
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("Flanking not symmetric: %v vs %v", a, b)
	}
}

func TestFRRSymmetry(t *testing.T) {
	f := &FRR{DistSdev: 80}
	f.AddData(30)
	a := f.LogLikelihood(8, 60, 150, 2, 10, 2)
	b := f.LogLikelihood(60, 8, 150, 2, 10, 2)
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("FRR not symmetric: %v vs %v", a, b)
	}
}

func TestEnclosingImpossibleObservationIsNegInf(t *testing.T) {
	e := &Enclosing{}
	e.AddData(20) // observed 20 copies, but both candidate alleles are smaller.
	got := e.LogLikelihood(5, 5, 150, 2, 10, 2)
	if !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf, got %v", got)
	}
}

func TestEnclosingHomozygousReferenceExactFormula(t *testing.T) {
	e := &Enclosing{}
	for i := 0; i < 20; i++ {
		e.AddData(10)
	}
	got := e.LogLikelihood(10, 10, 150, 2, 10, 2)
	want := 20 * stutterLogProb(10, 10, stutterErrorRate)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEnclosingExtractAllelesDedupsAndSorts(t *testing.T) {
	e := &Enclosing{}
	for _, d := range []int{20, 8, 8, 20, 14} {
		e.AddData(d)
	}
	got := e.ExtractAlleles()
	want := []int{8, 14, 20}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestHaploidIgnoresSecondAllele(t *testing.T) {
	e := &Enclosing{}
	e.AddData(30)
	a := e.LogLikelihood(30, 0, 150, 2, 10, 1)
	b := e.LogLikelihood(30, 999, 150, 2, 10, 1)
	if a != b {
		t.Fatalf("haploid likelihood depends on a2: %v vs %v", a, b)
	}
}
