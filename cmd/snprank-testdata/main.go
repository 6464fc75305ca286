// Test Data Generator for snprank
//
// This tool generates a synthetic aligned reference and query set for
// exercising and benchmarking snprank on realistic input sizes.
//
// Usage:
//
//	go run ./cmd/snprank-testdata [options]
//
// Options:
//
//	-mode       Generation mode: random, clades (default: clades)
//	-count      Number of query sequences to generate (default: 2000)
//	-length     Aligned sequence length (default: 29903)
//	-clades     Number of clades for 'clades' mode (default: 20)
//	-gap-rate   Fraction of positions masked with the gap byte (default: 0.02)
//	-line-width Wrap sequence lines at this width, 0 = single line (default: 60)
//	-output     Output directory (default: ./data/snprank-test)
//	-seed       Random seed for reproducibility (default: 42)
//
// Examples:
//
//	# 2000 queries in 20 clades around a SARS-CoV-2 sized reference
//	go run ./cmd/snprank-testdata -mode clades -count 2000
//
//	# Then rank them
//	go run ./cmd/snprank --reference data/snprank-test/ref.fa --queries data/snprank-test/queries.fa 10
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/orneryd/snprank/pkg/fasta"
	"github.com/orneryd/snprank/pkg/rank"
	"github.com/orneryd/snprank/pkg/scorer"
	"github.com/orneryd/snprank/pkg/simd"
)

const bases = "ACGT"

func main() {
	mode := flag.String("mode", "clades", "Generation mode: random, clades")
	count := flag.Int("count", 2000, "Number of query sequences to generate")
	length := flag.Int("length", 29903, "Aligned sequence length")
	numClades := flag.Int("clades", 20, "Number of clades (for clades mode)")
	gapRate := flag.Float64("gap-rate", 0.02, "Fraction of positions replaced by the gap byte")
	lineWidth := flag.Int("line-width", 60, "Sequence line width (0 = single line)")
	outputDir := flag.String("output", "./data/snprank-test", "Output directory")
	seed := flag.Int64("seed", 42, "Random seed for reproducibility")
	flag.Parse()

	r := rand.New(rand.NewSource(*seed))

	log.Printf("🧪 snprank Test Data Generator")
	log.Printf("   Mode: %s", *mode)
	log.Printf("   Seed: %d", *seed)
	log.Printf("   Count: %d", *count)
	log.Printf("   Length: %d", *length)

	ref := randomSequence(r, *length)

	var queries []fasta.Record
	switch *mode {
	case "random":
		log.Printf("📊 Generating %d random sequences...", *count)
		queries = generateRandom(r, *count, *length, *gapRate)
	case "clades":
		log.Printf("📊 Generating %d sequences in %d clades...", *count, *numClades)
		queries = generateClades(r, ref, *count, *numClades, *gapRate)
	default:
		log.Fatalf("Unknown mode: %s", *mode)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	refPath := filepath.Join(*outputDir, "ref.fa")
	queryPath := filepath.Join(*outputDir, "queries.fa")

	if err := saveRecords([]fasta.Record{{ID: "really", Seq: ref}}, refPath, *lineWidth); err != nil {
		log.Fatalf("Failed to save reference: %v", err)
	}
	if err := saveRecords(queries, queryPath, *lineWidth); err != nil {
		log.Fatalf("Failed to save queries: %v", err)
	}
	log.Printf("✅ Saved %s and %s", refPath, queryPath)

	if err := printStats(refPath, queryPath); err != nil {
		log.Fatalf("Failed to verify output: %v", err)
	}
}

func randomSequence(r *rand.Rand, n int) []byte {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = bases[r.Intn(len(bases))]
	}
	return seq
}

// mutate copies src, substitutes roughly rate*len positions with a different
// base and masks gapRate*len positions with the gap byte.
func mutate(r *rand.Rand, src []byte, rate, gapRate float64) []byte {
	seq := append([]byte(nil), src...)
	for i := range seq {
		switch p := r.Float64(); {
		case p < gapRate:
			seq[i] = simd.DefaultGap
		case p < gapRate+rate:
			b := bases[r.Intn(len(bases))]
			for b == seq[i] {
				b = bases[r.Intn(len(bases))]
			}
			seq[i] = b
		}
	}
	return seq
}

// generateRandom generates unrelated sequences
func generateRandom(r *rand.Rand, count, length int, gapRate float64) []fasta.Record {
	records := make([]fasta.Record, count)
	for i := range records {
		records[i] = fasta.Record{
			ID:  fmt.Sprintf("sample-%06d", i),
			Seq: mutate(r, randomSequence(r, length), 0, gapRate),
		}
	}
	return records
}

// generateClades derives clade founders from the reference at increasing
// divergence and samples queries around each founder, so the closest queries
// come from the least diverged clades.
func generateClades(r *rand.Rand, ref []byte, count, numClades int, gapRate float64) []fasta.Record {
	numClades = max(numClades, 1)
	founders := make([][]byte, numClades)
	for c := range founders {
		founders[c] = mutate(r, ref, 0.0005*float64(c+1), 0)
	}

	records := make([]fasta.Record, count)
	for i := range records {
		c := r.Intn(numClades)
		records[i] = fasta.Record{
			ID:  fmt.Sprintf("clade%02d-%06d", c, i),
			Seq: mutate(r, founders[c], 0.0002, gapRate),
		}
	}
	return records
}

// saveRecords writes records in marker-delimited format
func saveRecords(records []fasta.Record, filename string, lineWidth int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	for _, rec := range records {
		fmt.Fprintf(w, ">%s\n", rec.ID)
		seq := rec.Seq
		for len(seq) > 0 {
			n := len(seq)
			if lineWidth > 0 {
				n = min(n, lineWidth)
			}
			w.Write(seq[:n])
			w.WriteByte('\n')
			seq = seq[n:]
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// printStats re-reads the generated files and reports the distance spread
func printStats(refPath, queryPath string) error {
	refFile, err := fasta.Open(refPath)
	if err != nil {
		return err
	}
	defer refFile.Close()
	queryFile, err := fasta.Open(queryPath)
	if err != nil {
		return err
	}
	defer queryFile.Close()

	ref, err := refFile.First()
	if err != nil {
		return err
	}
	bag, err := scorer.ScoreAll(simd.Default(), ref.Seq, queryFile.Records, scorer.DefaultConfig())
	if err != nil {
		return err
	}
	s := rank.Summarize(bag)

	log.Printf("")
	log.Printf("📈 Statistics:")
	log.Printf("   Total queries: %d", s.Count)
	log.Printf("   Distance: min=%.0f max=%.0f mean=%.1f", s.Min, s.Max, s.Mean)
	log.Printf("   Kernel: %s", simd.Info().Tier)
	log.Printf("   File size: %.1f MB", float64(queryFile.Size())/(1024*1024))
	return nil
}
