package cmd

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config file loading", func() {
	var dir string

	setenv := func(key, value string) {
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(os.Unsetenv, key)
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "directory-config")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	It("should read config.yml and apply defaults", func() {
		yml := "http_server:\n  port: 8080\nstore:\n  driver: sqlite\n  source: \"file::memory:\"\n"
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600)).To(Succeed())

		cfg, err := readConfigFile(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Store.Driver).To(Equal("sqlite"))
		Expect(cfg.Security.TokenDuration).To(Equal(7 * 24 * time.Hour))
		Expect(cfg.App.Env).To(Equal("development"))
	})

	It("should let ENV_ variables override keys missing from the file", func() {
		setenv("ENV_SECURITY_BCRYPT_COST", "12")
		setenv("ENV_OBSERVABILITY_METRICS_ENABLED", "true")

		cfg, err := readConfigFile(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Security.BCryptCost).To(Equal(12))
		Expect(cfg.Observability.Metrics.Enabled).To(BeTrue())
	})

	It("should tolerate a missing config file", func() {
		cfg, err := readConfigFile(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(4000))
		Expect(cfg.Store.Driver).To(Equal("memory"))
	})

	It("should reject a malformed config file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte("http_server: [\n"), 0o600)).To(Succeed())

		_, err := readConfigFile(dir)
		Expect(err).To(HaveOccurred())
	})
})
