// Command freqsort reads a batch of integers and prints the distinct
// values ordered by ascending frequency of occurrence.
//
// Input is "n" followed by n integers, whitespace separated, from
// stdin or from -input (gzip and zstd files are decompressed by
// extension).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/TallyKit/tally/pkg/common/log"
	"github.com/TallyKit/tally/pkg/config"
	"github.com/TallyKit/tally/pkg/freqsort"
	"github.com/TallyKit/tally/pkg/input"
)

func main() {
	inputPath := flag.String("input", "", "Input file (default: stdin); .gz and .zst are decompressed")
	configPath := flag.String("config", "", "Path to a JSON configuration file")
	arity := flag.Int("arity", 0, "Heap branching factor (overrides the config)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "freqsort - sort values by frequency of occurrence\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: freqsort [options]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Reads \"n\" followed by n integers, prints the distinct values\n")
		fmt.Fprintf(flag.CommandLine.Output(), "one per line, least frequent first.\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewStandardLogger()
	if *verbose {
		logger.SetLevel(log.LevelDebug)
	}

	cfg := config.NewDefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfigFromFile(*configPath)
		if err != nil {
			logger.Fatal("failed to load config: %v", err)
		}
		cfg = loaded
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil && !*verbose {
			logger.SetLevel(level)
		}
	}
	if *arity != 0 {
		cfg.HeapArity = *arity
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration: %v", err)
	}

	var in io.Reader = os.Stdin
	if *inputPath != "" {
		src, err := input.Open(*inputPath)
		if err != nil {
			logger.Fatal("failed to open input: %v", err)
		}
		defer src.Close()
		in = src
	}

	if err := run(in, os.Stdout, cfg, logger); err != nil {
		logger.Error("freqsort failed: %v", err)
		os.Exit(1)
	}
}

// run executes the pipeline over one input stream.
func run(in io.Reader, out io.Writer, cfg *config.Config, logger log.Logger) error {
	r := input.NewReader(in)

	n, err := r.Count()
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	values, err := r.Values(n)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	sorted, err := freqsort.SortByFrequency(values, freqsort.Options{
		Arity:          cfg.HeapArity,
		InitialBuckets: cfg.InitialBuckets,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	for _, v := range sorted {
		if _, err := fmt.Fprintln(out, v); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}
