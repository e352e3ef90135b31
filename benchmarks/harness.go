// Package benchmarks runs RV32I microbenchmarks on the pin-level board and
// checks each run against the functional emulator.
package benchmarks

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/timing/board"
	"github.com/sarchlab/rvcore/timing/bus"
	"github.com/sarchlab/rvcore/timing/config"
	"github.com/sarchlab/rvcore/timing/core"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Cycles is the number of clock cycles the board ran, reset included
	Cycles uint64 `json:"cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is rising edges per retired instruction
	CPI float64 `json:"cpi"`

	Loads         uint64 `json:"loads"`
	Stores        uint64 `json:"stores"`
	TakenBranches uint64 `json:"taken_branches"`

	// Value is a0 when the board stopped
	Value    uint32 `json:"value"`
	Expected uint32 `json:"expected"`

	// Passed is set when Value matches Expected
	Passed bool `json:"passed"`

	// Agrees is set when the functional emulator ends with the same
	// registers, PC and instruction count as the board
	Agrees bool `json:"agrees"`

	// Error is set when the board could not finish the run
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program. The program is loaded at
// address 0 and runs until it stalls on an unrecognized opcode.
type Benchmark struct {
	Name        string
	Description string

	// Setup prepares memory before the run
	Setup func(memory *emu.Memory)

	// Program is the RV32I machine code to execute
	Program []uint32

	// Expected is the value a0 holds when the program ends
	Expected uint32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Board configures every board the harness builds
	Board *config.Config

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives the board's log records (default: slog.Default())
	Logger *slog.Logger

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	boardConfig := config.DefaultConfig()
	boardConfig.MemorySize = 1 << 16
	boardConfig.MaxCycles = 100000

	return HarnessConfig{
		Board:  boardConfig,
		Output: os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(cfg HarnessConfig) *Harness {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Board == nil {
		cfg.Board = DefaultConfig().Board
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Harness{
		config:     cfg,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for i, bench := range h.benchmarks {
		result := h.runBenchmark(i, bench)
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "%s: a0=0x%x, cycles=%d, insts=%d\n",
				result.Name, result.Value, result.Cycles, result.InstructionsRetired)
		}
		results = append(results, result)
	}

	return results
}

func (h *Harness) newMemory(bench Benchmark) (*emu.Memory, error) {
	memory := emu.NewMemoryWithSize(h.config.Board.MemorySize)
	if bench.Setup != nil {
		bench.Setup(memory)
	}
	if err := memory.LoadBytes(0, BuildProgram(bench.Program...)); err != nil {
		return nil, err
	}
	return memory, nil
}

// runBenchmark executes a single benchmark on a fresh board, then replays
// it on the functional emulator. Components are named by position since
// benchmark names are not valid Akita names.
func (h *Harness) runBenchmark(index int, bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
		Expected:    bench.Expected,
	}

	cfg := h.config.Board
	name := sim.BuildNameWithIndex("Bench", index)

	memory, err := h.newMemory(bench)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	c := core.NewCore(
		core.WithName(sim.BuildName(name, "Core")),
		core.WithLogger(h.config.Logger),
		core.WithQuirks(cfg.Quirks),
		core.WithResetClearsRegisters(cfg.ResetClearsRegisters),
	)

	b := board.NewBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithConfig(cfg).
		WithCore(c).
		WithDevice(bus.NewMemory(memory, bus.WithLogger(h.config.Logger))).
		WithLogger(h.config.Logger).
		Build(sim.BuildName(name, "Board"))

	start := time.Now()
	run := b.Run()
	result.WallTime = time.Since(start)

	if run.Err != nil {
		result.Error = run.Err.Error()
		return result
	}

	result.Cycles = run.Cycles
	result.InstructionsRetired = run.Stats.Retired
	result.CPI = run.Stats.CPI()
	result.Loads = run.Stats.Loads
	result.Stores = run.Stats.Stores
	result.TakenBranches = run.Stats.TakenBranches
	result.Value = c.RegFile().ReadReg(10)
	result.Passed = run.Reason == board.StopStalled && result.Value == bench.Expected

	result.Agrees = h.agrees(bench, c.RegFile(), run.Stats.Retired)

	return result
}

// agrees replays the benchmark on the emulator and compares final state.
func (h *Harness) agrees(bench Benchmark, regs *emu.RegFile, retired uint64) bool {
	memory, err := h.newMemory(bench)
	if err != nil {
		return false
	}

	e := emu.NewEmulator(
		emu.WithMemory(memory),
		emu.WithQuirks(h.config.Board.Quirks),
		emu.WithMaxInstructions(h.config.Board.MaxCycles),
		emu.WithLogger(h.config.Logger),
	)
	if err := e.Run(); err != nil {
		return false
	}

	return e.RegFile().X == regs.X &&
		e.RegFile().PC == regs.PC &&
		e.InstructionCount() == retired
}

// PrintResults outputs benchmark results as a table.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	t := table.NewWriter()
	t.SetOutputMirror(h.config.Output)
	t.SetTitle("rvcore Benchmark Results")
	t.AppendHeader(table.Row{
		"Benchmark", "Cycles", "Insts", "CPI", "Loads", "Stores", "Taken",
		"a0", "Expected", "Status",
	})

	for _, r := range results {
		t.AppendRow(table.Row{
			r.Name,
			r.Cycles,
			r.InstructionsRetired,
			fmt.Sprintf("%.3f", r.CPI),
			r.Loads,
			r.Stores,
			r.TakenBranches,
			fmt.Sprintf("0x%x", r.Value),
			fmt.Sprintf("0x%x", r.Expected),
			status(r),
		})
	}

	t.Render()
}

func status(r BenchmarkResult) string {
	switch {
	case r.Error != "":
		return "ERROR: " + r.Error
	case !r.Passed:
		return "FAIL"
	case !r.Agrees:
		return "MISMATCH"
	}
	return "ok"
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,loads,stores,taken_branches,value,expected,passed,agrees")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%d,%t,%t\n",
			r.Name,
			r.Cycles,
			r.InstructionsRetired,
			r.CPI,
			r.Loads,
			r.Stores,
			r.TakenBranches,
			r.Value,
			r.Expected,
			r.Passed,
			r.Agrees,
		)
	}
}

// BuildProgram assembles instruction words into a little-endian image.
func BuildProgram(words ...uint32) []byte {
	program := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(program[4*i:], w)
	}
	return program
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	Metadata ReportMetadata    `json:"metadata"`
	Results  []BenchmarkResult `json:"results"`
	Summary  ReportSummary     `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	Timestamp string         `json:"timestamp"`
	Board     *config.Config `json:"board"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	TotalBenchmarks   int           `json:"total_benchmarks"`
	Passed            int           `json:"passed"`
	TotalCycles       uint64        `json:"total_cycles"`
	TotalInstructions uint64        `json:"total_instructions"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates results.
func Summarize(results []BenchmarkResult) ReportSummary {
	s := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		if r.Passed && r.Agrees {
			s.Passed++
		}
		s.TotalCycles += r.Cycles
		s.TotalInstructions += r.InstructionsRetired
		s.TotalWallTime += r.WallTime
	}
	return s
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Board:     h.config.Board,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
