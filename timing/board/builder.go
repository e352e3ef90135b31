package board

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvcore/timing/bus"
	"github.com/sarchlab/rvcore/timing/config"
	"github.com/sarchlab/rvcore/timing/core"
)

// Builder can create new boards.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	core       *core.Core
	device     bus.Device
	logger     *slog.Logger
	resetTicks uint64
	maxCycles  uint64
}

// NewBuilder returns a builder with the default configuration.
func NewBuilder() Builder {
	return Builder{}.WithConfig(config.DefaultConfig())
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency. The board ticks at twice this rate.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithCore sets the core.
func (b Builder) WithCore(c *core.Core) Builder {
	b.core = c
	return b
}

// WithDevice sets the memory device behind the bus.
func (b Builder) WithDevice(device bus.Device) Builder {
	b.device = device
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithResetTicks sets how many leading ticks hold reset.
func (b Builder) WithResetTicks(ticks uint64) Builder {
	b.resetTicks = ticks
	return b
}

// WithMaxCycles sets the cycle budget. 0 means no limit.
func (b Builder) WithMaxCycles(cycles uint64) Builder {
	b.maxCycles = cycles
	return b
}

// WithConfig takes the clock, reset and budget settings from c.
func (b Builder) WithConfig(c *config.Config) Builder {
	b.freq = c.Frequency()
	b.resetTicks = c.ResetTicks
	b.maxCycles = c.MaxCycles
	return b
}

// Build creates a board.
func (b Builder) Build(name string) *Board {
	if b.engine == nil {
		panic("board needs an engine")
	}
	if b.freq <= 0 {
		panic("board needs a positive clock frequency")
	}
	if b.core == nil || b.device == nil {
		panic("board needs a core and a device")
	}

	board := &Board{
		core:       b.core,
		device:     b.device,
		logger:     b.logger,
		resetTicks: b.resetTicks,
		maxCycles:  b.maxCycles,
	}

	if board.logger == nil {
		board.logger = slog.Default()
	}

	board.TickingComponent = sim.NewTickingComponent(name, b.engine, 2*b.freq, board)

	return board
}
