package main

import (
	"github.com/rotisserie/eris"

	"github.com/clientpulse/health-cli/internal/config"
	"github.com/clientpulse/health-cli/internal/customer"
	"github.com/clientpulse/health-cli/internal/health"
	"github.com/clientpulse/health-cli/internal/intel"
)

// appEnv bundles the core components shared by commands.
type appEnv struct {
	Engine    *health.Engine
	Intel     *intel.Service
	Customers customer.Store
}

// initApp wires the engine, intelligence service, and seeded customer store
// from the loaded config.
func initApp(c *config.Config) (*appEnv, error) {
	engine := health.NewEngine(c.Scoring.Weights)

	gen := intel.NewSimulatedGenerator(c.Intel.GenLatency(), c.Intel.GenRatePerSecond)
	svc := intel.NewService(intel.NewMemoryStore(), gen, intel.ServiceConfig{
		TTL:           c.Intel.TTL(),
		SweepInterval: c.Intel.SweepInterval(),
		MaxEntries:    c.Intel.MaxEntries,
	})

	store := customer.NewMemoryStore()
	if err := customer.Seed(store); err != nil {
		return nil, eris.Wrap(err, "seed customers")
	}

	return &appEnv{
		Engine:    engine,
		Intel:     svc,
		Customers: store,
	}, nil
}
