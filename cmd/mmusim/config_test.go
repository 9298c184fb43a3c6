package main

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/mmusim/mem/vm/replacement"
)

func mapLookup(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

var _ = Describe("Config", func() {
	var cfg config

	BeforeEach(func() {
		cfg = defaultConfig()
		cfg.TracePath = "trace.txt"
	})

	It("should apply environment variables", func() {
		err := cfg.applyEnv(mapLookup(map[string]string{
			"MMUSIM_PAGE_SIZE":          "0x10",
			"MMUSIM_FRAMES":             "3",
			"MMUSIM_PAGES":              "32",
			"MMUSIM_NRU_RESET_INTERVAL": "5",
			"MMUSIM_ALGORITHM":          "nru",
			"MMUSIM_DISK_IMAGE":         "disk.bin",
			"MMUSIM_STEP":               "true",
			"MMUSIM_MONITOR":            "1",
			"MMUSIM_MONITOR_PORT":       "32776",
		}))

		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.PageSize).To(Equal(uint64(16)))
		Expect(cfg.Frames).To(Equal(uint64(3)))
		Expect(cfg.Pages).To(Equal(uint64(32)))
		Expect(cfg.NRUResetInterval).To(Equal(uint64(5)))
		Expect(cfg.Algorithm).To(Equal("nru"))
		Expect(cfg.DiskImagePath).To(Equal("disk.bin"))
		Expect(cfg.Step).To(BeTrue())
		Expect(cfg.Monitor).To(BeTrue())
		Expect(cfg.MonitorPort).To(Equal(32776))
		Expect(cfg.TracePath).To(Equal("trace.txt"))
		Expect(cfg.validate()).To(Succeed())
	})

	It("should reject malformed environment variables", func() {
		Expect(cfg.applyEnv(mapLookup(map[string]string{
			"MMUSIM_FRAMES": "many",
		}))).To(MatchError(ContainSubstring("MMUSIM_FRAMES")))

		Expect(cfg.applyEnv(mapLookup(map[string]string{
			"MMUSIM_STEP": "maybe",
		}))).To(MatchError(ContainSubstring("MMUSIM_STEP")))

		Expect(cfg.applyEnv(mapLookup(map[string]string{
			"MMUSIM_MONITOR_PORT": "http",
		}))).To(MatchError(ContainSubstring("MMUSIM_MONITOR_PORT")))
	})

	It("should validate the settings", func() {
		Expect(cfg.validate()).To(Succeed())

		bad := cfg
		bad.Frames = 0
		Expect(bad.validate()).ToNot(Succeed())

		bad = cfg
		bad.TracePath = ""
		Expect(bad.validate()).ToNot(Succeed())

		bad = cfg
		bad.Algorithm = "clock"
		Expect(bad.validate()).
			To(MatchError(replacement.ErrPolicyNotImplemented))

		bad = cfg
		bad.MonitorPort = 32776
		Expect(bad.validate()).ToNot(Succeed())

		bad = cfg
		bad.OutputPath = "out"
		Expect(bad.validate()).ToNot(Succeed())
	})

	It("should ignore a missing .env file", func() {
		path := filepath.Join(GinkgoT().TempDir(), ".env")

		Expect(loadEnvFile(path)).To(Succeed())
	})

	It("should load a .env file", func() {
		path := filepath.Join(GinkgoT().TempDir(), ".env")
		Expect(os.WriteFile(path, []byte("MMUSIM_TEST_FRAMES=7\n"), 0o644)).
			To(Succeed())
		DeferCleanup(os.Unsetenv, "MMUSIM_TEST_FRAMES")

		Expect(loadEnvFile(path)).To(Succeed())
		Expect(os.Getenv("MMUSIM_TEST_FRAMES")).To(Equal("7"))
	})

	Context("disk image", func() {
		BeforeEach(func() {
			cfg.PageSize = 4
			cfg.Pages = 4
		})

		It("should fill bytes with their address by default", func() {
			image, err := cfg.loadDiskImage()

			Expect(err).ToNot(HaveOccurred())
			Expect(image).To(HaveLen(16))
			Expect(image[13]).To(Equal(byte(13)))
		})

		It("should read the image file", func() {
			cfg.DiskImagePath = filepath.Join(GinkgoT().TempDir(), "disk")
			Expect(os.WriteFile(cfg.DiskImagePath, []byte{9, 8, 7}, 0o644)).
				To(Succeed())

			image, err := cfg.loadDiskImage()

			Expect(err).ToNot(HaveOccurred())
			Expect(image).To(Equal([]byte{9, 8, 7}))
		})

		It("should reject images larger than the address space", func() {
			cfg.DiskImagePath = filepath.Join(GinkgoT().TempDir(), "disk")
			Expect(os.WriteFile(cfg.DiskImagePath, make([]byte, 17), 0o644)).
				To(Succeed())

			_, err := cfg.loadDiskImage()

			Expect(err).To(HaveOccurred())
		})
	})
})
