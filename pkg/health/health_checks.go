package health

import (
	"fmt"
	"runtime"
	"slices"
	"time"
)

// Common health check functions

// SimpleCheck creates a simple health check that always returns healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// SolverRegistryCheck reports unhealthy when the default solver is not among
// the registered ones. Both are read on every check so reloads are seen.
func SolverRegistryCheck(defaultSolver func() string, names func() []string) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "solvers",
			Details: make(map[string]any),
		}

		registered := names()
		def := defaultSolver()
		check.Details["registered"] = registered
		check.Details["default"] = def

		switch {
		case len(registered) == 0:
			check.Status = StatusUnhealthy
			check.Message = "No solvers registered"
		case !slices.Contains(registered, def):
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("Default solver %q not registered", def)
		default:
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("%d solvers available", len(registered))
		}

		return check
	}
}

// RemoteSolversCheck pings every solver that runs out of process. A failed
// ping degrades the service rather than failing it, since the local solvers
// keep working.
func RemoteSolversCheck(pings func() map[string]func() error) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "remote_solvers",
			Details: make(map[string]any),
		}

		targets := pings()
		names := make([]string, 0, len(targets))
		for name := range targets {
			names = append(names, name)
		}
		slices.Sort(names)

		var failed []string
		for _, name := range names {
			if err := targets[name](); err != nil {
				check.Details[name] = err.Error()
				failed = append(failed, name)
			} else {
				check.Details[name] = "reachable"
			}
		}

		switch {
		case len(targets) == 0:
			check.Status = StatusHealthy
			check.Message = "No remote solvers configured"
		case len(failed) > 0:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("%d of %d remote solvers unreachable", len(failed), len(targets))
		default:
			check.Status = StatusHealthy
			check.Message = "All remote solvers reachable"
		}

		return check
	}
}

// CapacityCheck creates a health check for the number of runs in flight
func CapacityCheck(getCapacity func() (running, limit int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "capacity",
			Details: make(map[string]any),
		}

		running, limit := getCapacity()

		check.Details["runs_in_flight"] = running
		check.Details["max_concurrent_runs"] = limit

		if limit > 0 && running >= limit {
			check.Status = StatusDegraded
			check.Message = "All run slots busy"
		} else {
			check.Status = StatusHealthy
			check.Message = "Accepting runs"
		}

		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		usagePercent := 0.0
		if sys > 0 {
			usagePercent = float64(alloc) / float64(sys) * 100
		}

		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}

// RuntimeMemory reads heap allocation and memory obtained from the OS
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
