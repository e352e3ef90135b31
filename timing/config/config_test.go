package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvcore/emu"
	"github.com/sarchlab/rvcore/timing/config"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should have the default values", func() {
			c := config.DefaultConfig()

			Expect(c.ClockFrequencyMHz).To(Equal(uint64(1)))
			Expect(c.MaxCycles).To(Equal(uint64(1_000_000)))
			Expect(c.ResetTicks).To(Equal(uint64(2)))
			Expect(c.MemorySize).To(Equal(uint64(16 << 20)))
			Expect(c.ResetClearsRegisters).To(BeFalse())
			Expect(c.Quirks.Any()).To(BeFalse())
		})

		It("should validate", func() {
			Expect(config.DefaultConfig().Validate()).To(Succeed())
		})

		It("should convert the clock to an Akita frequency", func() {
			Expect(config.DefaultConfig().Frequency()).To(Equal(1 * sim.MHz))
		})
	})

	Describe("Validate", func() {
		var c *config.Config

		BeforeEach(func() {
			c = config.DefaultConfig()
		})

		It("should reject a zero clock", func() {
			c.ClockFrequencyMHz = 0
			Expect(c.Validate()).To(MatchError(ContainSubstring("clock_frequency_mhz")))
		})

		It("should reject zero reset ticks", func() {
			c.ResetTicks = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject an empty memory", func() {
			c.MemorySize = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject a memory beyond 4 GiB", func() {
			c.MemorySize = 1<<32 + 1
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should allow an unlimited cycle budget", func() {
			c.MaxCycles = 0
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("Clone", func() {
		It("should produce an independent copy", func() {
			original := config.DefaultConfig()
			original.Quirks = emu.LegacyQuirks()

			clone := original.Clone()
			clone.MaxCycles = 5
			clone.Quirks.SwapAndOr = false

			Expect(original.MaxCycles).To(Equal(uint64(1_000_000)))
			Expect(original.Quirks.SwapAndOr).To(BeTrue())
		})
	})

	Describe("Load and Save", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		DescribeTable("round trip",
			func(name string) {
				original := config.DefaultConfig()
				original.MaxCycles = 500
				original.ResetClearsRegisters = true
				original.Quirks.ArithmeticSRL = true

				path := filepath.Join(tempDir, name)
				Expect(original.Save(path)).To(Succeed())

				loaded, err := config.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(loaded).To(Equal(original))
			},
			Entry("JSON", "board.json"),
			Entry("YAML", "board.yaml"),
			Entry("YML", "board.yml"),
		)

		It("should keep defaults for fields missing from a YAML file", func() {
			path := filepath.Join(tempDir, "partial.yaml")
			content := "max_cycles: 42\nquirks:\n  swap_and_or: true\n"
			Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())

			loaded, err := config.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MaxCycles).To(Equal(uint64(42)))
			Expect(loaded.Quirks.SwapAndOr).To(BeTrue())
			Expect(loaded.ClockFrequencyMHz).To(Equal(uint64(1)))
			Expect(loaded.ResetTicks).To(Equal(uint64(2)))
		})

		It("should keep defaults for fields missing from a JSON file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"reset_ticks": 6}`), 0644)).To(Succeed())

			loaded, err := config.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.ResetTicks).To(Equal(uint64(6)))
			Expect(loaded.MemorySize).To(Equal(emu.DefaultMemorySize))
		})

		It("should fail for a missing file", func() {
			_, err := config.Load("/nonexistent/path/board.json")
			Expect(err).To(HaveOccurred())
		})

		It("should fail for invalid content", func() {
			path := filepath.Join(tempDir, "bad.json")
			Expect(os.WriteFile(path, []byte("not valid json"), 0644)).To(Succeed())

			_, err := config.Load(path)
			Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
		})
	})
})
