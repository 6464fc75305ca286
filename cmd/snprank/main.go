// Package main provides the snprank CLI entry point.
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orneryd/snprank/pkg/config"
	"github.com/orneryd/snprank/pkg/rank"
	"github.com/orneryd/snprank/pkg/simd"
	"github.com/orneryd/snprank/pkg/snprank"
)

var (
	version   = "0.1.0"
	commit    = "dev"
	buildTime = "unknown" // Set via ldflags: -X main.buildTime=$(date +%Y%m%d-%H%M%S)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "snprank: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.LoadDefaults()

	rootCmd := &cobra.Command{
		Use:   "snprank [k]",
		Short: "Rank aligned sequences by SNP distance to a reference",
		Long: `snprank compares one aligned reference sequence against every sequence in a
query file and prints the identifiers of the k closest queries (default 20).

Distance is the number of aligned positions where both sequences carry a
known base and the bases differ. Gap positions are ignored, and only the
overlapping prefix of sequences of different length is compared.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRank,
	}

	flags := rootCmd.Flags()
	flags.String("config", "", "Config file (default: search ~/.snprank/config.yaml, ./snprank.yaml)")
	flags.String("reference", defaults.Input.ReferencePath, "Reference sequence file (first record is used)")
	flags.String("queries", defaults.Input.QueryPath, "Query sequence file")
	flags.StringP("output", "o", "", "Write results atomically to this file instead of stdout")
	flags.String("header", defaults.Output.Header, "Header line written before the identifiers")
	flags.String("gap", string(defaults.Kernel.Gap), "Gap marker excluded from comparison (single byte)")
	flags.String("kernel", defaults.Kernel.Tier, "Distance kernel: auto, wide, narrow, scalar")
	flags.Int("workers", defaults.Parallel.Workers, "Max scoring workers (0 = auto, uses all CPUs)")
	flags.Int("min-batch-size", defaults.Parallel.MinBatchSize, "Min query count before scoring in parallel")
	flags.Bool("stats", false, "Log distance distribution statistics to stderr")
	flags.BoolP("verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snprank v%s (%s) built %s\n", version, commit, buildTime)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the distance kernel selected for this CPU",
		Run: func(cmd *cobra.Command, args []string) {
			info := simd.Info()
			accel := "no"
			if info.Accelerated {
				accel = "yes"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Kernel:       %s\n", info.Tier)
			fmt.Fprintf(w, "Accelerated:  %s\n", accel)
			fmt.Fprintf(w, "CPU features: %s\n", strings.Join(info.Features, ", "))
		},
	})

	return rootCmd
}

func runRank(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return err
	}

	// Command-line flags override file and environment settings
	if flags.Changed("reference") {
		cfg.Input.ReferencePath, _ = flags.GetString("reference")
	}
	if flags.Changed("queries") {
		cfg.Input.QueryPath, _ = flags.GetString("queries")
	}
	if flags.Changed("output") {
		cfg.Output.Path, _ = flags.GetString("output")
	}
	if flags.Changed("header") {
		cfg.Output.Header, _ = flags.GetString("header")
	}
	if flags.Changed("gap") {
		s, _ := flags.GetString("gap")
		if cfg.Kernel.Gap, err = config.ParseGap(s); err != nil {
			return err
		}
	}
	if flags.Changed("kernel") {
		cfg.Kernel.Tier, _ = flags.GetString("kernel")
	}
	if flags.Changed("workers") {
		cfg.Parallel.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("min-batch-size") {
		cfg.Parallel.MinBatchSize, _ = flags.GetInt("min-batch-size")
	}
	if flags.Changed("stats") {
		cfg.Logging.Stats, _ = flags.GetBool("stats")
	}
	if flags.Changed("verbose") {
		cfg.Logging.Verbose, _ = flags.GetBool("verbose")
	}
	if len(args) == 1 {
		cfg.Ranking.K = parseK(args[0])
	}

	opts, err := snprank.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	if cfg.Logging.Verbose || cfg.Logging.Stats {
		opts.Logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
		opts.Logger.Printf("[snprank] %s", cfg)
		if configPath != "" {
			opts.Logger.Printf("[snprank] config file: %s", configPath)
		}
	}

	_, err = snprank.Run(opts, cmd.OutOrStdout())
	return err
}

// parseK parses the positional result count: an unsigned decimal with an
// optional leading '+'. Anything else, including values that overflow 64
// bits, selects the default. Counts above math.MaxInt are clamped, which
// still selects every query.
func parseK(s string) int {
	k, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return rank.DefaultK
	}
	if k > math.MaxInt {
		return math.MaxInt
	}
	return int(k)
}
