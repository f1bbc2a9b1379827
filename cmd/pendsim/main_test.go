package main

import (
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/config"
)

func TestRootCmdFlagDefaults(t *testing.T) {
	g := NewWithT(t)
	root := newRootCmd()

	live, _, err := root.Find([]string{"live"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(live.Flags().Lookup("gif").DefValue).To(Equal("pendulum.gif"))

	// Later registrations must not clobber the live recording path.
	g.Expect(gifFile).To(Equal("pendulum.gif"))
	g.Expect(outFile).To(BeEmpty())

	for _, name := range []string{"export-csv", "export-json"} {
		cmd, _, err := root.Find([]string{name})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(cmd.Flags().Lookup("output").DefValue).To(BeEmpty())
	}
}

func TestConfigInitWritesResolvedConfig(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "pendsim.yaml")

	root := newRootCmd()
	root.SetArgs([]string{"config", "init", path, "--theta", "30", "--damping", "0.2", "--steps", "1000"})
	g.Expect(root.Execute()).To(Succeed())

	cfg, err := config.Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.InitialAngleDeg).To(Equal(30.0))
	g.Expect(cfg.Damping).To(Equal(0.2))
	g.Expect(cfg.Simulation.StepsPerPeriod).To(Equal(1000))
	g.Expect(cfg.Integrator).To(Equal(config.DefaultIntegrator))
}

func TestConfigInitRejectsBadAngle(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "pendsim.yaml")

	root := newRootCmd()
	root.SetArgs([]string{"config", "init", path, "--theta", "200"})
	g.Expect(root.Execute()).To(MatchError(config.ErrInvalidAngle))
	g.Expect(path).NotTo(BeAnExistingFile())
}
