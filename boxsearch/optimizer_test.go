package boxsearch

import (
	"errors"
	"math"
	"testing"

	"github.com/bioinfo-tools/strgt/config"
)

func TestMinimize1DFindsKnownMinimum(t *testing.T) {
	obj := func(x float64) float64 { return (x - 12) * (x - 12) }
	got, f, err := Minimize1D(obj, 0, 75, config.Seed1D)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12 {
		t.Fatalf("got %d, want 12 (f=%v)", got, f)
	}
}

func TestMinimize2DFindsKnownMinimum(t *testing.T) {
	obj := func(x, y float64) float64 { return (x-8)*(x-8) + (y-20)*(y-20) }
	a1, a2, _, err := Minimize2D(obj, 0, 75, config.Seed2DAllele1, config.Seed2DAllele2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a1 != 8 || a2 != 20 {
		t.Fatalf("got (%d,%d), want (8,20)", a1, a2)
	}
}

func TestMinimize1DResultNeverNegative(t *testing.T) {
	obj := func(x float64) float64 { return (x + 50) * (x + 50) }
	got, _, err := Minimize1D(obj, 0, 75, config.Seed1D)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 0 {
		t.Fatalf("got negative allele %d", got)
	}
}

func TestMinimize1DDivergesOnInfeasibleObjective(t *testing.T) {
	obj := func(x float64) float64 { return math.Inf(1) }
	_, _, err := Minimize1D(obj, 0, 75, config.Seed1D)
	if !errors.Is(err, config.ErrOptimizerDiverged) {
		t.Fatalf("expected ErrOptimizerDiverged, got %v", err)
	}
}

func TestMinimize1DClampsOutOfRangeStart(t *testing.T) {
	obj := func(x float64) float64 { return (x - 5) * (x - 5) }
	got, _, err := Minimize1D(obj, 0, 10, 999) // seed far outside bounds
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 0 || got > 10 {
		t.Fatalf("got %d, want within [0,10]", got)
	}
}
