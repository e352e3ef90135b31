package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/insts"
	"github.com/sarchlab/rvcore/loader"
	"github.com/sarchlab/rvcore/timing/board"
	"github.com/sarchlab/rvcore/timing/bus"
	"github.com/sarchlab/rvcore/timing/config"
	"github.com/sarchlab/rvcore/timing/core"
)

// report is what a run leaves behind for printing.
type report struct {
	regs    *emu.RegFile
	reason  string
	retired uint64

	// Board runs only.
	result   *board.Result
	busStats *bus.Stats
}

// prepareMemory builds the memory image a run starts from.
func prepareMemory(prog *loader.Program, cfg *config.Config) (*emu.Memory, error) {
	memory := emu.NewMemoryWithSize(cfg.MemorySize)
	if err := prog.LoadInto(memory); err != nil {
		return nil, err
	}
	return memory, nil
}

// runBoard runs the program on the pin-level core until it stalls or the
// cycle budget is spent.
func runBoard(prog *loader.Program, cfg *config.Config, logger *slog.Logger) (*report, error) {
	memory, err := prepareMemory(prog, cfg)
	if err != nil {
		return nil, err
	}

	c := core.NewCore(
		core.WithLogger(logger),
		core.WithQuirks(cfg.Quirks),
		core.WithResetClearsRegisters(cfg.ResetClearsRegisters),
	)
	c.RegFile().WriteReg(2, loader.StackTop(cfg.MemorySize))

	device := bus.NewMemory(memory, bus.WithLogger(logger))

	b := board.NewBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithConfig(cfg).
		WithCore(c).
		WithDevice(device).
		WithLogger(logger).
		Build("Board")

	result := b.Run()
	if result.Err != nil {
		return nil, fmt.Errorf("simulation failed: %w", result.Err)
	}

	busStats := device.Stats()

	return &report{
		regs:     c.RegFile(),
		reason:   result.Reason.String(),
		retired:  result.Stats.Retired,
		result:   &result,
		busStats: &busStats,
	}, nil
}

// runEmulation runs the program on the functional emulator, one
// instruction per step, with the cycle budget used as instruction budget.
func runEmulation(prog *loader.Program, cfg *config.Config) (*report, error) {
	memory, err := prepareMemory(prog, cfg)
	if err != nil {
		return nil, err
	}

	e := emu.NewEmulator(
		emu.WithMemory(memory),
		emu.WithQuirks(cfg.Quirks),
		emu.WithMaxInstructions(cfg.MaxCycles),
	)
	e.RegFile().WriteReg(2, loader.StackTop(cfg.MemorySize))

	reason := "stalled"
	if err := e.Run(); err != nil {
		if !errors.Is(err, emu.ErrMaxInstructions) {
			return nil, err
		}
		reason = "instruction budget"
	}

	return &report{
		regs:    e.RegFile(),
		reason:  reason,
		retired: e.InstructionCount(),
	}, nil
}

func (r *report) print(w io.Writer, programPath string) {
	fmt.Fprintf(w, "\nProgram: %s\n", programPath)
	fmt.Fprintf(w, "Stopped: %s at PC 0x%08X\n\n", r.reason, r.regs.PC)

	fmt.Fprintln(w, registerTable(r.regs).Render())
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.statsTable().Render())
}

// registerTable lays the 32 registers out in 8 rows of 4.
func registerTable(regs *emu.RegFile) table.Writer {
	t := table.NewWriter()
	t.SetTitle("Registers")
	t.AppendHeader(table.Row{"Reg", "Value", "Reg", "Value", "Reg", "Value", "Reg", "Value"})

	for row := 0; row < 8; row++ {
		cells := make(table.Row, 0, 8)
		for col := 0; col < 4; col++ {
			r := uint8(col*8 + row)
			cells = append(cells,
				fmt.Sprintf("x%d/%s", r, insts.RegName(r)),
				fmt.Sprintf("0x%08X", regs.ReadReg(r)))
		}
		t.AppendRow(cells)
	}

	return t
}

func (r *report) statsTable() table.Writer {
	t := table.NewWriter()
	t.SetTitle("Statistics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Instructions retired", r.retired})

	if r.result != nil {
		stats := r.result.Stats
		t.AppendRows([]table.Row{
			{"Clock cycles", r.result.Cycles},
			{"Rising edges", stats.RisingEdges},
			{"Edges per instruction", fmt.Sprintf("%.2f", stats.CPI())},
			{"Loads", stats.Loads},
			{"Stores", stats.Stores},
			{"Taken branches", stats.TakenBranches},
			{"Stall edges", stats.StallEdges},
			{"Simulated time (s)", fmt.Sprintf("%.9f", float64(r.result.Time))},
		})
	}

	if r.busStats != nil {
		t.AppendRows([]table.Row{
			{"Bus reads", r.busStats.Reads},
			{"Bus writes", r.busStats.Writes},
			{"Bus out-of-range", r.busStats.OutOfRange},
		})
	}

	return t
}
