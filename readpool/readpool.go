// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package readpool implements the ordered multiset of read evidence
// (ReadPool) that backs one locus's likelihood computation, along with
// its with-replacement resampling used by the bootstrap.
package readpool

import "math/rand"

// Class tags a ReadRecord with which likelihood model it belongs to.
type Class int

const (
	Enclosing Class = iota
	Spanning
	FRR
	Flanking
)

func (c Class) String() string {
	switch c {
	case Enclosing:
		return "Enclosing"
	case Spanning:
		return "Spanning"
	case FRR:
		return "FRR"
	case Flanking:
		return "Flanking"
	default:
		return "Unknown"
	}
}

// Record is a single (class, datum) read observation.
type Record struct {
	Class Class
	Datum int
}

// Pool is an insertion-ordered multiset of Records. The zero value is
// an empty pool ready to use.
type Pool struct {
	records []Record
}

// Add appends a record, preserving insertion order. This is the single
// choke point every class-specific accumulator funnels through, so the
// invariant "every added record appears in the pool exactly once, in
// insertion order" holds by construction.
func (p *Pool) Add(class Class, datum int) {
	p.records = append(p.records, Record{Class: class, Datum: datum})
}

// Len returns the number of records currently in the pool.
func (p *Pool) Len() int {
	return len(p.records)
}

// Reset empties the pool.
func (p *Pool) Reset() {
	p.records = p.records[:0]
}

// Records returns the pool's contents in insertion order. The caller
// must not mutate the returned slice.
func (p *Pool) Records() []Record {
	return p.records
}

// CountByClass returns how many records in the pool have the given
// class.
func (p *Pool) CountByClass(class Class) int {
	n := 0
	for _, r := range p.records {
		if r.Class == class {
			n++
		}
	}
	return n
}

// Resample draws Len() records with replacement, uniformly, from p
// into a freshly allocated Pool. Insertion order within the drawn
// sequence is the draw order, not the source order: the contract is on
// set membership and counts, not on reproducing p's original ordering.
func (p *Pool) Resample(rng *rand.Rand) *Pool {
	n := p.Len()
	out := &Pool{records: make([]Record, n)}
	for i := 0; i < n; i++ {
		out.records[i] = p.records[rng.Intn(n)]
	}
	return out
}
