// Package bus provides memory devices that answer the core's command lines.
package bus

import (
	"log/slog"

	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/pins"
)

// Device answers the memory command the core drives on its output lines.
//
// For a read command, Respond returns the addressed byte, halfword or word
// zero-extended in the low bits of the result. For a write command it stores
// the low byte, halfword or word of the data-out lines and returns 0.
type Device interface {
	Respond(out pins.Outputs) (data uint32)
}

// Stats counts the transactions a Memory device has served.
type Stats struct {
	Reads        uint64
	Writes       uint64
	OutOfRange   uint64
	BytesRead    uint64
	BytesWritten uint64
}

// Memory is a Device backed by an emu.Memory.
type Memory struct {
	name    string
	storage *emu.Memory
	logger  *slog.Logger
	stats   Stats
}

// MemoryOption is a functional option for configuring a Memory device.
type MemoryOption func(*Memory)

// WithLogger sets the logger for out-of-range warnings.
func WithLogger(logger *slog.Logger) MemoryOption {
	return func(m *Memory) {
		m.logger = logger
	}
}

// WithName sets the name used in log records.
func WithName(name string) MemoryOption {
	return func(m *Memory) {
		m.name = name
	}
}

// NewMemory creates a device serving accesses from storage.
func NewMemory(storage *emu.Memory, opts ...MemoryOption) *Memory {
	m := &Memory{
		name:    "Memory",
		storage: storage,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m
}

// Storage returns the backing memory.
func (m *Memory) Storage() *emu.Memory {
	return m.storage
}

// Stats returns the transaction counts.
func (m *Memory) Stats() Stats {
	return m.stats
}

// Respond serves the single asserted command line. Nothing is done, and 0
// returned, when no line or more than one line is asserted. Out-of-range
// reads return 0 and out-of-range writes are dropped.
func (m *Memory) Respond(out pins.Outputs) uint32 {
	cmd, ok := out.ActiveCommand()
	if !ok {
		return 0
	}

	addr := out.Address()
	size := cmd.Size()

	if cmd.IsRead() {
		data, err := m.storage.Read(addr, size)
		if err != nil {
			m.outOfRange(cmd, addr, err)
			return 0
		}

		m.stats.Reads++
		m.stats.BytesRead += uint64(size)

		return data
	}

	if err := m.storage.Write(addr, size, out.Data()); err != nil {
		m.outOfRange(cmd, addr, err)
		return 0
	}

	m.stats.Writes++
	m.stats.BytesWritten += uint64(size)

	return 0
}

func (m *Memory) outOfRange(cmd pins.Command, addr uint32, err error) {
	m.stats.OutOfRange++
	m.logger.Warn("memory access out of range",
		"device", m.name,
		"command", cmd.String(),
		"address", addr,
		"error", err)
}
