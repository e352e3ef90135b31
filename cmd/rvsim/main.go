// Package main provides the entry point for rvsim.
// rvsim runs an RV32I program on a pin-level core wired to a memory board.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvcore/loader"
	"github.com/sarchlab/rvcore/timing/config"
	"github.com/sarchlab/rvcore/timing/core"
)

var (
	configPath = flag.String("config", "", "Path to board configuration file (JSON or YAML)")
	raw        = flag.Bool("raw", false, "Treat the program as a flat binary instead of ELF")
	base       = flag.Uint("base", 0, "Load address of a flat binary")
	maxCycles  = flag.Uint64("max-cycles", 0, "Override the cycle budget (0 keeps the config value)")
	emulate    = flag.Bool("emulate", false, "Run the functional emulator instead of the board")
	trace      = flag.Bool("trace", false, "Log every retired instruction")
	traceFile  = flag.String("trace-file", "", "Write log records to this file instead of stderr")
	logJSON    = flag.Bool("log-json", false, "Write log records as JSON")
	verbose    = flag.Bool("v", false, "Verbose output")
	cpuProfile = flag.String("cpuprofile", "", "Write a CPU profile to file")
	memProfile = flag.String("memprofile", "", "Write a memory profile to file on exit")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rvsim [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	programPath := flag.Arg(0)

	if err := setupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		atexit.Exit(1)
	}

	if err := setupProfiling(); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up profiling: %v\n", err)
		atexit.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		atexit.Exit(1)
	}

	prog, err := loadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		atexit.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	var rep *report
	if *emulate {
		rep, err = runEmulation(prog, cfg)
	} else {
		rep, err = runBoard(prog, cfg, slog.Default())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	rep.print(os.Stdout, programPath)

	atexit.Exit(0)
}

func setupLogging() error {
	var w io.Writer = os.Stderr
	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			return err
		}
		atexit.Register(func() { _ = f.Close() })
		w = f
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	if *trace {
		level = core.LevelTrace
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if *logJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))

	return nil
}

// setupProfiling starts the CPU profile and registers the profile writers
// with atexit, so they run however the simulator exits.
func setupProfiling() error {
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return err
		}
		atexit.Register(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}

	if *memProfile != "" {
		path := *memProfile
		atexit.Register(func() {
			f, err := os.Create(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
				return
			}
			defer func() { _ = f.Close() }()
			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
			}
		})
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *maxCycles > 0 {
		cfg.MaxCycles = *maxCycles
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadProgram(path string) (*loader.Program, error) {
	if *raw {
		return loader.LoadRaw(path, uint32(*base))
	}
	return loader.Load(path)
}
