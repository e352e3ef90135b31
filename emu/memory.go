// Package emu provides functional RV32I emulation.
package emu

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// DefaultMemorySize is the capacity of a memory made by NewMemory.
const DefaultMemorySize uint64 = 16 << 20

// Memory is a little-endian, byte-addressable memory backed by an Akita
// storage. Pages are allocated on first touch.
type Memory struct {
	storage *mem.Storage
	size    uint64
}

// NewMemory creates a memory of DefaultMemorySize bytes.
func NewMemory() *Memory {
	return NewMemoryWithSize(DefaultMemorySize)
}

// NewMemoryWithSize creates a memory of the given capacity in bytes.
func NewMemoryWithSize(size uint64) *Memory {
	return &Memory{
		storage: mem.NewStorage(size),
		size:    size,
	}
}

// Size returns the capacity in bytes.
func (m *Memory) Size() uint64 {
	return m.size
}

// Contains reports whether the size-byte access at addr is in range.
func (m *Memory) Contains(addr uint32, size int) bool {
	return uint64(addr)+uint64(size) <= m.size
}

// Read returns the size-byte (1, 2 or 4) little-endian value at addr,
// zero-extended.
func (m *Memory) Read(addr uint32, size int) (uint32, error) {
	if !m.Contains(addr, size) {
		return 0, fmt.Errorf("read of %d bytes at 0x%08x outside memory of %d bytes",
			size, addr, m.size)
	}

	data, err := m.storage.Read(uint64(addr), uint64(size))
	if err != nil {
		return 0, fmt.Errorf("failed to read memory at 0x%08x: %w", addr, err)
	}

	var buf [4]byte
	copy(buf[:], data)

	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Write stores the low size bytes (1, 2 or 4) of value at addr.
func (m *Memory) Write(addr uint32, size int, value uint32) error {
	if !m.Contains(addr, size) {
		return fmt.Errorf("write of %d bytes at 0x%08x outside memory of %d bytes",
			size, addr, m.size)
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)

	if err := m.storage.Write(uint64(addr), buf[:size]); err != nil {
		return fmt.Errorf("failed to write memory at 0x%08x: %w", addr, err)
	}

	return nil
}

// LoadBytes copies data into memory starting at addr.
func (m *Memory) LoadBytes(addr uint32, data []byte) error {
	if !m.Contains(addr, len(data)) {
		return fmt.Errorf("image of %d bytes at 0x%08x does not fit in memory of %d bytes",
			len(data), addr, m.size)
	}

	if err := m.storage.Write(uint64(addr), data); err != nil {
		return fmt.Errorf("failed to load image at 0x%08x: %w", addr, err)
	}

	return nil
}

// Read8 reads a byte. Out-of-range reads return 0.
func (m *Memory) Read8(addr uint32) uint8 {
	v, _ := m.Read(addr, 1)
	return uint8(v)
}

// Read16 reads a halfword. Out-of-range reads return 0.
func (m *Memory) Read16(addr uint32) uint16 {
	v, _ := m.Read(addr, 2)
	return uint16(v)
}

// Read32 reads a word. Out-of-range reads return 0.
func (m *Memory) Read32(addr uint32) uint32 {
	v, _ := m.Read(addr, 4)
	return v
}

// Write8 writes a byte. Out-of-range writes are dropped.
func (m *Memory) Write8(addr uint32, value uint8) {
	_ = m.Write(addr, 1, uint32(value))
}

// Write16 writes a halfword. Out-of-range writes are dropped.
func (m *Memory) Write16(addr uint32, value uint16) {
	_ = m.Write(addr, 2, uint32(value))
}

// Write32 writes a word. Out-of-range writes are dropped.
func (m *Memory) Write32(addr uint32, value uint32) {
	_ = m.Write(addr, 4, value)
}
