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

	"github.com/bioinfo-tools/strgt/locus"
)

// loadLoci reads a plain tab-separated locus catalog: chrom, start,
// end, motif, ploidy, offtarget_share, one locus per line. This is the
// minimal catalog format needed to demonstrate driver wiring; it is not
// a BED or VCF reader.
func loadLoci(path string) ([]*locus.Locus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening locus catalog %v: %w", path, err)
	}
	defer f.Close()

	var loci []*locus.Locus
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			return nil, fmt.Errorf("locus catalog %v line %d: expected 6 tab-separated fields, got %d", path, lineNo, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("locus catalog %v line %d: bad start: %w", path, lineNo, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("locus catalog %v line %d: bad end: %w", path, lineNo, err)
		}
		ploidy, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("locus catalog %v line %d: bad ploidy: %w", path, lineNo, err)
		}
		offtargetShare, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, fmt.Errorf("locus catalog %v line %d: bad offtarget_share: %w", path, lineNo, err)
		}
		l, err := locus.New(fields[0], start, end, fields[3], offtargetShare, ploidy)
		if err != nil {
			return nil, fmt.Errorf("locus catalog %v line %d: %w", path, lineNo, err)
		}
		loci = append(loci, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading locus catalog %v: %w", path, err)
	}
	return loci, nil
}
