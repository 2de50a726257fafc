package config

import (
	"github.com/dd0wney/graphqubo/pkg/solver"
)

// Registry builds the solver registry described by the solvers section.
func (c *Config) Registry() *solver.Registry {
	s := c.Solvers
	reg := solver.NewRegistry(solver.NewAnnealer(solver.LocalSimulator, solver.AnnealerConfig{
		Sweeps:  s.Annealer.Sweeps,
		Workers: s.Annealer.Workers,
	}))
	if s.Exact.Enabled {
		reg.Register(solver.NewExact(solver.ExactSolver, s.Exact.MaxVariables))
	}
	for _, r := range s.Remote {
		reg.Register(solver.NewRemote(r.Name, solver.RemoteConfig{
			Endpoint: r.Endpoint,
			Device:   r.Device,
			Token:    r.Token,
			Timeout:  r.Timeout,
		}))
	}
	return reg
}
