package allelesearch

import (
	"errors"
	"testing"

	"github.com/bioinfo-tools/strgt/classmodel"
	"github.com/bioinfo-tools/strgt/config"
	"github.com/bioinfo-tools/strgt/likelihood"
)

func weights() likelihood.Weights {
	return likelihood.Weights{FRR: 1, Spanning: 1, Enclosing: 1, Flanking: 1}
}

func TestSearchHomozygousReference(t *testing.T) {
	engine := likelihood.NewEngine(weights())
	for i := 0; i < 20; i++ {
		engine.Original.Enclosing.AddData(10)
	}
	params := Params{ReadLen: 150, MotifLen: 2, RefCount: 10, Ploidy: 2}
	a1, a2, negLL, err := Search(engine, engine.Original.Enclosing, func() {}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a1 != 10 || a2 != 10 {
		t.Fatalf("got (%d,%d), want (10,10)", a1, a2)
	}
	if negLL <= 0 {
		t.Fatalf("expected positive negLL, got %v", negLL)
	}
}

func TestSearchHeterozygousTwoPeaks(t *testing.T) {
	engine := likelihood.NewEngine(weights())
	for i := 0; i < 15; i++ {
		engine.Original.Enclosing.AddData(8)
	}
	for i := 0; i < 15; i++ {
		engine.Original.Enclosing.AddData(20)
	}
	params := Params{ReadLen: 150, MotifLen: 2, RefCount: 10, Ploidy: 2}
	a1, a2, negLL, err := Search(engine, engine.Original.Enclosing, func() {}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a1 != 8 || a2 != 20 {
		t.Fatalf("got (%d,%d), want (8,20)", a1, a2)
	}
	homLow := engine.Evaluate(8, 8, 150, 2, 10, 2, false)
	homHigh := engine.Evaluate(20, 20, 150, 2, 10, 2, false)
	if negLL >= homLow || negLL >= homHigh {
		t.Fatalf("heterozygous negLL %v not better than homozygous alternatives %v, %v", negLL, homLow, homHigh)
	}
}

func TestSearchCanonicalOrdering(t *testing.T) {
	engine := likelihood.NewEngine(weights())
	engine.Original.Enclosing.AddData(20)
	engine.Original.Enclosing.AddData(8)
	params := Params{ReadLen: 150, MotifLen: 2, RefCount: 10, Ploidy: 2}
	a1, a2, _, err := Search(engine, engine.Original.Enclosing, func() {}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a1 > a2 {
		t.Fatalf("result not canonically sorted: (%d,%d)", a1, a2)
	}
}

func TestSearchHaploidReturnsZeroSecondAllele(t *testing.T) {
	engine := likelihood.NewEngine(weights())
	engine.Original.FRR.SetSdev(50)
	for i := 0; i < 30; i++ {
		engine.Original.FRR.AddData(100)
	}
	params := Params{ReadLen: 150, MotifLen: 2, RefCount: 10, Ploidy: 1}
	a1, a2, _, err := Search(engine, &classmodel.Enclosing{}, func() {}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a2 != 0 {
		t.Fatalf("a2 = %d, want 0 in haploid mode", a2)
	}
	_ = a1
}

func TestSearchNoCandidatesFails(t *testing.T) {
	// No enclosing data to seed candidates, and a 2-D search bound
	// ((readLen-2*Margin)/motifLen - 1) that is negative, so the 2-D
	// pass has no feasible point and proposes nothing.
	engine := likelihood.NewEngine(weights())
	params := Params{ReadLen: 10, MotifLen: 5, RefCount: 1, Ploidy: 2}
	_, _, _, err := Search(engine, &classmodel.Enclosing{}, func() {}, params)
	if !errors.Is(err, config.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSearchCallsResampleExactlyOnce(t *testing.T) {
	engine := likelihood.NewEngine(weights())
	engine.Original.Enclosing.AddData(10)
	calls := 0
	params := Params{ReadLen: 150, MotifLen: 2, RefCount: 10, Ploidy: 2}
	_, _, _, err := Search(engine, engine.Original.Enclosing, func() { calls++ }, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("resample called %d times, want exactly 1 (unconditional-resample coupling)", calls)
	}
}

func TestSearchIsDeterministicOnUnmodifiedPool(t *testing.T) {
	build := func() *likelihood.Engine {
		e := likelihood.NewEngine(weights())
		e.Original.Enclosing.AddData(8)
		e.Original.Enclosing.AddData(20)
		return e
	}
	params := Params{ReadLen: 150, MotifLen: 2, RefCount: 10, Ploidy: 2}

	e1 := build()
	a1a, a2a, lla, err := Search(e1, e1.Original.Enclosing, func() {}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e2 := build()
	a1b, a2b, llb, err := Search(e2, e2.Original.Enclosing, func() {}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a1a != a1b || a2a != a2b || lla != llb {
		t.Fatalf("Search not deterministic: (%d,%d,%v) vs (%d,%d,%v)", a1a, a2a, lla, a1b, a2b, llb)
	}
}
