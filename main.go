// Package main provides the entry point for rvcore.
// rvcore is a pin-level RV32I core simulator built on Akita.
//
// For the full CLI, use: go run ./cmd/rvsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvcore - pin-level RV32I core simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: rvsim [options] <program>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to board configuration file (JSON or YAML)")
	fmt.Println("  -raw       Load a flat binary instead of an ELF file")
	fmt.Println("  -emulate   Run the functional emulator instead of the board")
	fmt.Println("  -trace     Log every retired instruction")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvsim' for the full CLI and")
	fmt.Println("'go run ./cmd/rvdis' to disassemble a program.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvsim' instead.")
	}
}
