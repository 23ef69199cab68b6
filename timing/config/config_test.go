package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ooosim/timing/config"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should describe the reference machine", func() {
			c := config.DefaultConfig()

			Expect(c.BaseAddress).To(Equal(uint32(256)))
			Expect(c.FetchWidth).To(Equal(2))
			Expect(c.PreIssueSize).To(Equal(4))
			Expect(c.PreMemUnitSize).To(Equal(2))
			Expect(c.UnitBufferSize).To(Equal(1))
			Expect(c.MaxCycles).To(Equal(uint64(100000)))
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("LoadConfig/SaveConfig", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should round trip through a file", func() {
			c := config.DefaultConfig()
			c.PreIssueSize = 8
			path := filepath.Join(dir, "pipeline.json")

			Expect(c.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(c))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(dir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"max_cycles": 50}`), 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MaxCycles).To(Equal(uint64(50)))
			Expect(loaded.PreIssueSize).To(Equal(4))
		})

		It("should fail on a missing file", func() {
			_, err := config.LoadConfig(filepath.Join(dir, "nope.json"))
			Expect(err).To(MatchError(ContainSubstring("failed to read")))
		})

		It("should fail on malformed JSON", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{`), 0644)).To(Succeed())

			_, err := config.LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("failed to parse")))
		})
	})

	Describe("Validate", func() {
		DescribeTable("should reject",
			func(mutate func(*config.Config)) {
				c := config.DefaultConfig()
				mutate(c)
				Expect(c.Validate()).NotTo(Succeed())
			},
			Entry("unaligned base", func(c *config.Config) { c.BaseAddress = 258 }),
			Entry("zero fetch width", func(c *config.Config) { c.FetchWidth = 0 }),
			Entry("issue queue narrower than fetch", func(c *config.Config) { c.PreIssueSize = 1 }),
			Entry("empty memory unit queue", func(c *config.Config) { c.PreMemUnitSize = 0 }),
			Entry("empty unit buffers", func(c *config.Config) { c.UnitBufferSize = 0 }),
		)
	})

	It("should clone independently", func() {
		c := config.DefaultConfig()
		clone := c.Clone()
		clone.FetchWidth = 1

		Expect(c.FetchWidth).To(Equal(2))
	})
})
