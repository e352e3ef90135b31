package benchmarks_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvcore/benchmarks"
	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/insts"
)

var _ = Describe("Harness", func() {
	var (
		out     *bytes.Buffer
		cfg     benchmarks.HarnessConfig
		harness *benchmarks.Harness
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		cfg = benchmarks.DefaultConfig()
		cfg.Output = out
		cfg.Logger = slog.New(slog.NewTextHandler(GinkgoWriter, nil))
		harness = benchmarks.NewHarness(cfg)
	})

	byName := func(results []benchmarks.BenchmarkResult, name string) benchmarks.BenchmarkResult {
		for _, r := range results {
			if r.Name == name {
				return r
			}
		}
		Fail("no result named " + name)
		return benchmarks.BenchmarkResult{}
	}

	It("should pass every microbenchmark on the board and the emulator", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

		results := harness.RunAll()

		Expect(results).To(HaveLen(8))
		for _, r := range results {
			Expect(r.Error).To(BeEmpty(), r.Name)
			Expect(r.Value).To(Equal(r.Expected), r.Name)
			Expect(r.Passed).To(BeTrue(), r.Name)
			Expect(r.Agrees).To(BeTrue(), r.Name)
			Expect(r.InstructionsRetired).NotTo(BeZero(), r.Name)
		}
	})

	It("should accept any benchmark name", func() {
		for _, name := range []string{"lower_case", "with-dash", "has space", ""} {
			harness.AddBenchmark(benchmarks.Benchmark{
				Name:     name,
				Program:  []uint32{insts.Encode(insts.OpADDI, 10, 0, 0, 1), 0x00000073},
				Expected: 1,
			})
		}

		var results []benchmarks.BenchmarkResult
		Expect(func() { results = harness.RunAll() }).NotTo(Panic())

		Expect(results).To(HaveLen(4))
		Expect(results[1].Name).To(Equal("with-dash"))
		for _, r := range results {
			Expect(r.Passed).To(BeTrue(), r.Name)
		}
	})

	It("should count memory traffic", func() {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())

		results := harness.RunAll()

		mem := byName(results, "memory_sequential")
		Expect(mem.Loads).To(Equal(uint64(4)))
		Expect(mem.Stores).To(Equal(uint64(4)))
		Expect(mem.InstructionsRetired).To(Equal(uint64(16)))

		loop := byName(results, "branch_loop")
		Expect(loop.TakenBranches).To(Equal(uint64(9)))
		Expect(loop.InstructionsRetired).To(Equal(uint64(3 + 3*10)))
	})

	It("should spend two rising edges per instruction without memory traffic", func() {
		harness.AddBenchmark(benchmarks.GetMicrobenchmarks()[1])

		r := harness.RunAll()[0]

		Expect(r.Name).To(Equal("dependency_chain"))
		Expect(r.InstructionsRetired).To(Equal(uint64(20)))
		Expect(r.CPI).To(BeNumerically(">=", 2.0))
		Expect(r.CPI).To(BeNumerically("<", 2.5))
	})

	It("should flag a wrong expectation", func() {
		harness.AddBenchmark(benchmarks.Benchmark{
			Name: "wrong",
			Program: []uint32{
				insts.Encode(insts.OpADDI, 10, 0, 0, 3),
				0x00000073,
			},
			Expected: 4,
		})

		r := harness.RunAll()[0]

		Expect(r.Value).To(Equal(uint32(3)))
		Expect(r.Passed).To(BeFalse())
		Expect(r.Agrees).To(BeTrue())
	})

	It("should run Setup before the program", func() {
		harness.AddBenchmark(benchmarks.Benchmark{
			Name: "setup",
			Setup: func(memory *emu.Memory) {
				memory.Write32(0x400, 77)
			},
			Program: []uint32{
				insts.Encode(insts.OpLW, 10, 0, 0, 0x400),
				0x00000073,
			},
			Expected: 77,
		})

		r := harness.RunAll()[0]

		Expect(r.Passed).To(BeTrue())
	})

	It("should report a program that does not fit", func() {
		cfg.Board.MemorySize = 8
		harness = benchmarks.NewHarness(cfg)
		harness.AddBenchmark(benchmarks.GetMicrobenchmarks()[0])

		r := harness.RunAll()[0]

		Expect(r.Error).NotTo(BeEmpty())
		Expect(r.Passed).To(BeFalse())
	})

	Describe("output", func() {
		var results []benchmarks.BenchmarkResult

		BeforeEach(func() {
			harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
			results = harness.RunAll()
		})

		It("should print a table", func() {
			harness.PrintResults(results)

			Expect(out.String()).To(ContainSubstring("branch_loop"))
			Expect(out.String()).To(ContainSubstring("0x2d"))
		})

		It("should print one CSV line per benchmark", func() {
			harness.PrintCSV(results)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[0]).To(HavePrefix("name,cycles,"))
			Expect(lines[1]).To(HavePrefix("branch_loop,"))
			Expect(lines[1]).To(HaveSuffix(",45,45,true,true"))
		})

		It("should print a JSON report with a summary", func() {
			Expect(harness.PrintJSON(results)).To(Succeed())

			var report benchmarks.BenchmarkReport
			Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
			Expect(report.Results).To(HaveLen(3))
			Expect(report.Summary.TotalBenchmarks).To(Equal(3))
			Expect(report.Summary.Passed).To(Equal(3))
			Expect(report.Metadata.Board.MaxCycles).To(Equal(uint64(100000)))
		})
	})
})
