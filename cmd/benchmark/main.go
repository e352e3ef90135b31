// Command benchmark runs the rvcore microbenchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv     Output results in CSV format (default: table)
//	-json    Output results in JSON format
//	-core    Run only the core benchmarks
//	-config  Board configuration file (JSON or YAML)
//	-legacy  Run with the legacy quirk set
//
// Every benchmark runs on the pin-level board and is replayed on the
// functional emulator; the exit status is 1 if any of them fails or the two
// disagree.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvcore/benchmarks"
	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/timing/config"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	configPath := flag.String("config", "", "Board configuration file (JSON or YAML)")
	legacy := flag.Bool("legacy", false, "Run with the legacy quirk set")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	cfg := benchmarks.DefaultConfig()
	cfg.Output = os.Stdout
	cfg.Verbose = *verbose

	if *configPath != "" {
		boardConfig, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			atexit.Exit(1)
		}
		cfg.Board = boardConfig
	}
	if *legacy {
		cfg.Board.Quirks = emu.LegacyQuirks()
	}

	harness := benchmarks.NewHarness(cfg)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			atexit.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	summary := benchmarks.Summarize(results)
	if summary.Passed != summary.TotalBenchmarks {
		fmt.Fprintf(os.Stderr, "%d of %d benchmarks failed\n",
			summary.TotalBenchmarks-summary.Passed, summary.TotalBenchmarks)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
