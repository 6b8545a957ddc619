package genotyper

import (
	"errors"
	"testing"

	"github.com/bioinfo-tools/strgt/config"
	"github.com/bioinfo-tools/strgt/engine"
	"github.com/bioinfo-tools/strgt/locus"
)

type fakeFlanks struct{ fail bool }

func (f fakeFlanks) GetSequence(chrom string, start, end int) (string, error) {
	if f.fail {
		return "", errors.New("no such contig")
	}
	n := end - start + 1
	if n < 0 {
		n = 0
	}
	return string(make([]byte, n)), nil
}

type fakeReads struct {
	enclosing []int
	fail      bool
}

func (f fakeReads) ExtractReads(e *engine.Engine, l *locus.Locus) error {
	if f.fail {
		return errors.New("bam iterator exploded")
	}
	for _, d := range f.enclosing {
		e.AddEnclosingData(d)
	}
	return nil
}

func testOptions() config.Options {
	o := config.DefaultOptions()
	o.Seed = 99
	return o
}

func testLocus(t *testing.T) *locus.Locus {
	l, err := locus.New("chr1", 1000, 1020, "AC", 0, 2)
	if err != nil {
		t.Fatalf("unexpected error building locus: %v", err)
	}
	return l
}

func TestProcessLocusSkipsInsufficientEvidence(t *testing.T) {
	e, err := engine.New(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := testLocus(t)

	err = ProcessLocus(e, l, fakeFlanks{}, fakeReads{enclosing: []int{10, 10}})
	if !errors.Is(err, config.ErrInsufficientEvidence) {
		t.Fatalf("expected ErrInsufficientEvidence, got %v", err)
	}
}

func TestProcessLocusSucceedsWithEnoughEvidence(t *testing.T) {
	e, err := engine.New(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := testLocus(t)

	data := make([]int, 0, 20)
	for i := 0; i < 20; i++ {
		data = append(data, 10)
	}

	err = ProcessLocus(e, l, fakeFlanks{}, fakeReads{enclosing: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Allele1 != 10 || l.Allele2 != 10 {
		t.Fatalf("got alleles (%d,%d), want (10,10)", l.Allele1, l.Allele2)
	}
	if l.EnclosingReads != 20 {
		t.Fatalf("EnclosingReads = %d, want 20", l.EnclosingReads)
	}
	if l.HasCI {
		t.Fatalf("HasCI = true, want false when NumBootSamp is 0")
	}
}

func TestProcessLocusPropagatesFlankFailure(t *testing.T) {
	e, err := engine.New(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := testLocus(t)

	err = ProcessLocus(e, l, fakeFlanks{fail: true}, fakeReads{})
	if err == nil {
		t.Fatalf("expected an error when flank loading fails")
	}
}

func TestProcessLocusPropagatesReadExtractionFailure(t *testing.T) {
	e, err := engine.New(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := testLocus(t)

	err = ProcessLocus(e, l, fakeFlanks{}, fakeReads{fail: true})
	if err == nil {
		t.Fatalf("expected an error when read extraction fails")
	}
}

func TestProcessLocusEstimatesCIWhenRequested(t *testing.T) {
	opts := testOptions()
	opts.NumBootSamp = 20
	e, err := engine.New(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := testLocus(t)

	data := make([]int, 0, 20)
	for i := 0; i < 20; i++ {
		data = append(data, 10)
	}

	err = ProcessLocus(e, l, fakeFlanks{}, fakeReads{enclosing: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.HasCI {
		t.Fatalf("HasCI = false, want true when NumBootSamp > 0 and the bootstrap succeeds")
	}
}

func TestProcessLociDistributesAcrossWorkers(t *testing.T) {
	loci := make([]*locus.Locus, 0, 6)
	for i := 0; i < 6; i++ {
		loci = append(loci, testLocus(t))
	}

	data := make([]int, 0, 20)
	for i := 0; i < 20; i++ {
		data = append(data, 10)
	}

	errs := ProcessLoci(testOptions(), loci, fakeFlanks{}, fakeReads{enclosing: data}, 3)
	if len(errs) != len(loci) {
		t.Fatalf("got %d results, want %d", len(errs), len(loci))
	}
	for i, err := range errs {
		if err != nil {
			t.Fatalf("locus %d: unexpected error: %v", i, err)
		}
		if loci[i].Allele1 != 10 || loci[i].Allele2 != 10 {
			t.Fatalf("locus %d: got alleles (%d,%d), want (10,10)", i, loci[i].Allele1, loci[i].Allele2)
		}
	}
}
