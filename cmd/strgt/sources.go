// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bioinfo-tools/strgt/engine"
	"github.com/bioinfo-tools/strgt/genotyper"
	"github.com/bioinfo-tools/strgt/locus"
	"github.com/bioinfo-tools/strgt/readpool"
)

// contigFlankSource resolves flanking sequence from a tab-separated
// chrom/sequence file loaded entirely into memory. A real driver backs
// FlankSource with an indexed FASTA; building and querying that index
// is explicitly out of scope here (see Non-goals).
type contigFlankSource struct {
	sequences map[string]string
}

func loadContigFlankSource(path string) (*contigFlankSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening contig file %v: %w", path, err)
	}
	defer f.Close()

	src := &contigFlankSource{sequences: make(map[string]string)}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("contig file %v: expected 2 tab-separated fields, got %d", path, len(fields))
		}
		src.sequences[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading contig file %v: %w", path, err)
	}
	return src, nil
}

// GetSequence implements genotyper.FlankSource with 0-based, half-open
// slicing clamped to the contig's bounds.
func (s *contigFlankSource) GetSequence(chrom string, start, endInclusive int) (string, error) {
	seq, ok := s.sequences[chrom]
	if !ok {
		return "", fmt.Errorf("unknown contig %v", chrom)
	}
	if start < 0 {
		start = 0
	}
	end := endInclusive + 1
	if end > len(seq) {
		end = len(seq)
	}
	if start >= end {
		return "", nil
	}
	return seq[start:end], nil
}

var _ genotyper.FlankSource = (*contigFlankSource)(nil)

// evidenceRecord is one pre-classified read, keyed to the exact locus
// it supports. A real driver backs ReadSource with a BAM/CRAM iterator
// plus Smith-Waterman realignment against the flanks; classifying raw
// alignments into read classes is explicitly out of scope here.
type evidenceRecord struct {
	chrom      string
	start, end int
	class      readpool.Class
	datum      int
}

type tableReadSource struct {
	byLocus map[string][]evidenceRecord
}

func locusKey(chrom string, start, end int) string {
	return fmt.Sprintf("%s:%d-%d", chrom, start, end)
}

func loadTableReadSource(path string) (*tableReadSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening evidence table %v: %w", path, err)
	}
	defer f.Close()

	classByName := map[string]readpool.Class{
		"enclosing": readpool.Enclosing,
		"spanning":  readpool.Spanning,
		"frr":       readpool.FRR,
		"flanking":  readpool.Flanking,
	}

	src := &tableReadSource{byLocus: make(map[string][]evidenceRecord)}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			return nil, fmt.Errorf("evidence table %v line %d: expected 5 tab-separated fields, got %d", path, lineNo, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("evidence table %v line %d: bad start: %w", path, lineNo, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("evidence table %v line %d: bad end: %w", path, lineNo, err)
		}
		class, ok := classByName[strings.ToLower(fields[3])]
		if !ok {
			return nil, fmt.Errorf("evidence table %v line %d: unknown read class %q", path, lineNo, fields[3])
		}
		datum, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("evidence table %v line %d: bad datum: %w", path, lineNo, err)
		}
		rec := evidenceRecord{chrom: fields[0], start: start, end: end, class: class, datum: datum}
		key := locusKey(rec.chrom, rec.start, rec.end)
		src.byLocus[key] = append(src.byLocus[key], rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading evidence table %v: %w", path, err)
	}
	return src, nil
}

// ExtractReads implements genotyper.ReadSource by looking up every
// evidence record filed under l's exact chrom/start/end and funneling
// it through the matching AddXData method.
func (s *tableReadSource) ExtractReads(e *engine.Engine, l *locus.Locus) error {
	for _, rec := range s.byLocus[locusKey(l.Chrom, l.Start, l.End)] {
		switch rec.class {
		case readpool.Enclosing:
			e.AddEnclosingData(rec.datum)
		case readpool.Spanning:
			e.AddSpanningData(rec.datum)
		case readpool.FRR:
			e.AddFRRData(rec.datum)
		case readpool.Flanking:
			e.AddFlankingData(rec.datum)
		}
	}
	return nil
}

var _ genotyper.ReadSource = (*tableReadSource)(nil)
