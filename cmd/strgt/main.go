// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// strgt is a minimal command-line driver wiring the core packages
// together: it loads a locus catalog and a pre-classified evidence
// table, raises the open-file rlimit the way a real multi-sample run
// needs to, runs genotyper.ProcessLoci across a worker pool, and
// prints one genotype line per locus. It exists to demonstrate wiring,
// not to be a full genotyping CLI (BAM/CRAM extraction, VCF emission,
// and FASTA indexing stay out of scope).
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/bioinfo-tools/strgt/config"
	"github.com/bioinfo-tools/strgt/genotyper"
	"golang.org/x/sys/unix"
)

// HelpMessage documents strgt's minimal flag surface.
const HelpMessage = "Usage: strgt --loci loci.tsv --contigs contigs.tsv --evidence evidence.tsv [options]\n" +
	"[--loci file]            tab-separated chrom,start,end,motif,ploidy,offtarget_share\n" +
	"[--contigs file]         tab-separated chrom,sequence\n" +
	"[--evidence file]        tab-separated chrom,locus_start,locus_end,class,datum\n" +
	"[--workers n]            number of concurrent worker engines (default 1)\n" +
	"[--boot-samples n]       non-parametric bootstrap iterations, 0 disables CIs (default 0)\n" +
	"[--seed n]               RNG seed, 0 picks one from the runtime clock (default 0)\n" +
	"[--verbose]              log per-locus progress\n" +
	"[--help]\n"

func parseFlags() (lociPath, contigsPath, evidencePath string, workers, bootSamples int, seed int64, verbose bool) {
	flags := flag.NewFlagSet("strgt", flag.ContinueOnError)
	flags.SetOutput(ioutil.Discard)
	flags.StringVar(&lociPath, "loci", "", "locus catalog path")
	flags.StringVar(&contigsPath, "contigs", "", "contig sequence path")
	flags.StringVar(&evidencePath, "evidence", "", "evidence table path")
	flags.IntVar(&workers, "workers", 1, "worker count")
	flags.IntVar(&bootSamples, "boot-samples", 0, "bootstrap sample count")
	var seedInt int
	flags.IntVar(&seedInt, "seed", 0, "RNG seed")
	flags.BoolVar(&verbose, "verbose", false, "verbose logging")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Fprint(os.Stderr, HelpMessage)
		os.Exit(0)
	}
	if lociPath == "" || contigsPath == "" || evidencePath == "" {
		fmt.Fprintln(os.Stderr, "Missing required --loci, --contigs, or --evidence.")
		fmt.Fprint(os.Stderr, HelpMessage)
		os.Exit(1)
	}
	return lociPath, contigsPath, evidencePath, workers, bootSamples, int64(seedInt), verbose
}

// raiseOpenFileLimit bumps RLIMIT_NOFILE to its hard ceiling, the same
// getrlimit/setrlimit pattern the teacher's cmd package uses for
// unix.Dup/Dup2 around log redirection, needed here because a
// multi-worker run against a real catalog opens many per-contig and
// per-sample file descriptors concurrently.
func raiseOpenFileLimit() {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		log.Println("Warning: could not read RLIMIT_NOFILE:", err)
		return
	}
	if rlimit.Cur >= rlimit.Max {
		return
	}
	rlimit.Cur = rlimit.Max
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		log.Println("Warning: could not raise RLIMIT_NOFILE:", err)
	}
}

func main() {
	lociPath, contigsPath, evidencePath, workers, bootSamples, seed, verbose := parseFlags()

	raiseOpenFileLimit()

	loci, err := loadLoci(lociPath)
	if err != nil {
		log.Fatal(err)
	}
	flanks, err := loadContigFlankSource(contigsPath)
	if err != nil {
		log.Fatal(err)
	}
	reads, err := loadTableReadSource(evidencePath)
	if err != nil {
		log.Fatal(err)
	}

	opts := config.DefaultOptions()
	opts.NumBootSamp = bootSamples
	opts.Seed = seed
	opts.Verbose = verbose

	log.Printf("genotyping %d loci across %d workers\n", len(loci), workers)
	errs := genotyper.ProcessLoci(opts, loci, flanks, reads, workers)

	failed := 0
	for i, l := range loci {
		if err := errs[i]; err != nil {
			log.Printf("%s:%d-%d: %v\n", l.Chrom, l.Start, l.End, err)
			failed++
			continue
		}
		if l.HasCI {
			fmt.Printf("%s\t%d\t%d\t%s\t%d\t%d\t%v\t[%v,%v]\t[%v,%v]\n",
				l.Chrom, l.Start, l.End, l.Motif, l.Allele1, l.Allele2, l.MinNegLogLik,
				l.Lob1, l.Hib1, l.Lob2, l.Hib2)
		} else {
			fmt.Printf("%s\t%d\t%d\t%s\t%d\t%d\t%v\n",
				l.Chrom, l.Start, l.End, l.Motif, l.Allele1, l.Allele2, l.MinNegLogLik)
		}
	}
	if failed > 0 {
		log.Printf("%d/%d loci skipped\n", failed, len(loci))
	}
}
