// Package snprank ranks query sequences by discordance with a reference.
//
// A run is a single linear pipeline:
//
//	Load → Parse → Score (fan-out/fan-in) → Rank → Emit
//
// Both input files are memory-mapped and parsed before any scoring starts,
// so malformed input fails fast. Scoring uses one distance kernel for the
// whole run. Output is produced only after ranking completes; a failed run
// writes nothing.
//
// Example:
//
//	opts := snprank.DefaultOptions()
//	opts.ReferencePath = "ref.fa"
//	opts.QueryPath = "queries.fa"
//	opts.K = 10
//	res, err := snprank.Run(opts, os.Stdout)
package snprank

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/orneryd/snprank/pkg/config"
	"github.com/orneryd/snprank/pkg/fasta"
	"github.com/orneryd/snprank/pkg/rank"
	"github.com/orneryd/snprank/pkg/report"
	"github.com/orneryd/snprank/pkg/scorer"
	"github.com/orneryd/snprank/pkg/simd"
)

// Options configures one run.
type Options struct {
	ReferencePath string
	QueryPath     string
	// OutputPath is written atomically; empty writes to the stdout argument of Run.
	OutputPath string
	Header     string

	K    int
	Gap  byte
	Tier simd.Tier

	Workers      int
	MinBatchSize int

	// Stats computes and logs the distance distribution.
	Stats bool
	// Logger receives progress messages. nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns options equivalent to config.LoadDefaults.
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.LoadDefaults())
	return opts
}

// OptionsFromConfig converts a validated configuration into run options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	tier, err := simd.ParseTier(cfg.Kernel.Tier)
	if err != nil {
		return Options{}, err
	}
	return Options{
		ReferencePath: cfg.Input.ReferencePath,
		QueryPath:     cfg.Input.QueryPath,
		OutputPath:    cfg.Output.Path,
		Header:        cfg.Output.Header,
		K:             cfg.Ranking.K,
		Gap:           cfg.Kernel.Gap,
		Tier:          tier,
		Workers:       cfg.Parallel.Workers,
		MinBatchSize:  cfg.Parallel.MinBatchSize,
		Stats:         cfg.Logging.Stats,
	}, nil
}

// Result describes a completed run.
type Result struct {
	RunID   string
	Kernel  simd.Tier
	Queries int
	Ranked  []scorer.ScoreRecord
	Summary rank.Summary

	LoadTime  time.Duration
	ScoreTime time.Duration
	RankTime  time.Duration
}

// IDs returns the emitted identifiers in rank order.
func (r *Result) IDs() []string {
	return rank.IDs(r.Ranked)
}

// Run executes the pipeline and writes the ranking to opts.OutputPath, or to
// stdout when no path is set.
func Run(opts Options, stdout io.Writer) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	res := &Result{RunID: uuid.NewString()}
	logf := func(format string, args ...any) {
		logger.Printf("[snprank] run=%s "+format, append([]any{res.RunID[:8]}, args...)...)
	}

	// Load + Parse
	start := time.Now()
	refFile, err := fasta.Open(opts.ReferencePath)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	defer refFile.Close()
	reference, err := refFile.First()
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if len(refFile.Records) > 1 {
		logf("reference %s has %d records, using %q", opts.ReferencePath, len(refFile.Records), reference.ID)
	}

	queryFile, err := fasta.Open(opts.QueryPath)
	if err != nil {
		return nil, fmt.Errorf("queries: %w", err)
	}
	defer queryFile.Close()
	res.Queries = len(queryFile.Records)
	res.LoadTime = time.Since(start)
	logf("loaded reference %q (%d bp) and %d queries in %v",
		reference.ID, len(reference.Seq), res.Queries, res.LoadTime)

	// Score
	kernel, err := simd.NewKernel(opts.Tier, opts.Gap)
	if err != nil {
		return nil, err
	}
	res.Kernel = kernel.Tier()

	start = time.Now()
	bag, err := scorer.ScoreAll(kernel, reference.Seq, queryFile.Records, scorer.Config{
		MaxWorkers:   opts.Workers,
		MinBatchSize: opts.MinBatchSize,
	})
	if err != nil {
		return nil, err
	}
	res.ScoreTime = time.Since(start)
	logf("scored %d queries with %s kernel in %v", len(bag), res.Kernel, res.ScoreTime)

	// Rank
	start = time.Now()
	res.Ranked = rank.Rank(bag, opts.K)
	res.RankTime = time.Since(start)
	if opts.Stats {
		res.Summary = rank.Summarize(bag)
		logf("distances: n=%d min=%.0f max=%.0f mean=%.2f",
			res.Summary.Count, res.Summary.Min, res.Summary.Max, res.Summary.Mean)
	}

	// Emit
	header := opts.Header
	if header == "" {
		header = report.DefaultHeader
	}
	ids := res.IDs()
	if opts.OutputPath != "" {
		if err := report.WriteFile(opts.OutputPath, header, ids); err != nil {
			return nil, err
		}
		logf("wrote %d identifiers to %s", len(ids), opts.OutputPath)
		return res, nil
	}
	if err := report.Write(stdout, header, ids); err != nil && !report.IsBrokenPipe(err) {
		return nil, fmt.Errorf("writing results: %w", err)
	}
	return res, nil
}
