package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/graphqubo/pkg/solver"
	"github.com/dd0wney/graphqubo/pkg/validation"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Community.DefaultVertices)
	assert.Equal(t, 4, cfg.Community.DefaultCommunities)
	assert.Equal(t, 0.1, cfg.Community.Penalty)
	assert.Equal(t, 2000, cfg.Solvers.DefaultNumReads)
	assert.Equal(t, solver.LocalSimulator, cfg.Solvers.Default)
	assert.Equal(t, []string{solver.LocalSimulator, solver.ExactSolver}, cfg.SolverNames())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9090
  write_timeout: 2m
community_detection:
  max_vertices: 40
  reference: louvain
solvers:
  default: Advantage_system6.4
  remote:
    - name: Advantage_system6.4
      endpoint: https://solver.example.com/v1/sample
      device: Advantage_system6.4
      timeout: 90s
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "untouched fields keep defaults")
	assert.Equal(t, 40, cfg.Community.MaxVertices)
	assert.Equal(t, 5, cfg.Community.MinVertices)
	assert.Equal(t, "louvain", cfg.Community.Reference)
	require.Len(t, cfg.Solvers.Remote, 1)
	assert.Equal(t, 90*time.Second, cfg.Solvers.Remote[0].Timeout)
	assert.Equal(t, []string{solver.LocalSimulator, solver.ExactSolver, "Advantage_system6.4"}, cfg.SolverNames())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("server:\n  prot: 80\n"))
	assert.Error(t, err)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Community.Penalty = 0
	cfg.Community.Reference = "spectral"
	cfg.Logging.Level = "verbose"
	cfg.Solvers.Default = "missing"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrValidation)
	for _, field := range []string{
		"config.server.port",
		"config.community_detection.penalty",
		"config.community_detection.reference",
		"config.logging.level",
		"config.solvers.default",
	} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidate_RemoteSolvers(t *testing.T) {
	cfg := Default()
	cfg.Solvers.Remote = []RemoteConfig{
		{Name: "cloud hybrid solver", Endpoint: "https://solver.example.com"},
		{Name: "cloud hybrid solver", Endpoint: "https://other.example.com"},
		{Name: "broken", Endpoint: "not a url"},
		{Name: solver.LocalSimulator, Endpoint: "https://solver.example.com"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.solvers.remote[1].name")
	assert.Contains(t, err.Error(), "config.solvers.remote[2].endpoint")
	assert.Contains(t, err.Error(), "config.solvers.remote[3].name")
	assert.NotContains(t, err.Error(), "config.solvers.remote[0]")
}

func TestValidate_ServerNetworking(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  cors_allowed_origins: ["https://demo.example.com"]
  trusted_proxies: ["10.0.0.0/8", "192.168.1.1"]
  rate_limit:
    enabled: true
    requests_per_second: 0.5
    burst: 3
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://demo.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3, cfg.Server.RateLimit.Burst)

	cfg.Server.TrustedProxies = append(cfg.Server.TrustedProxies, "10.0.0.0/99", "proxy.local")
	cfg.Server.RateLimit.Burst = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.server.trusted_proxies[2]")
	assert.Contains(t, err.Error(), "config.server.trusted_proxies[3]")
	assert.Contains(t, err.Error(), "config.server.rate_limit.burst")

	cfg.Server.RateLimit.Enabled = false
	cfg.Server.TrustedProxies = nil
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ExactDisabled(t *testing.T) {
	cfg := Default()
	cfg.Solvers.Exact = ExactConfig{Enabled: false}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{solver.LocalSimulator}, cfg.SolverNames())

	cfg.Solvers.Default = solver.ExactSolver
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.Solvers.Remote = []RemoteConfig{{
		Name:     "cloud hybrid solver",
		Endpoint: "https://solver.example.com",
		Token:    "from-file",
		TokenEnv: "CLOUD_TOKEN",
	}}

	env := map[string]string{
		"PORT":        "9191",
		"LOG_LEVEL":   "debug",
		"CLOUD_TOKEN": "from-env",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "from-env", cfg.Solvers.Remote[0].Token)

	env["PORT"] = "eighty"
	assert.Error(t, cfg.ApplyEnv(lookup))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphqubo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("isomorphism:\n  max_vertices: 12\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Isomorphism.MaxVertices)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLimits(t *testing.T) {
	cfg := Default()

	cd := cfg.CommunityLimits()
	assert.Equal(t, 5, cd.MinVertices)
	assert.Equal(t, 60, cd.MaxVertices)
	assert.Equal(t, 10, cd.MaxCommunities)
	assert.Equal(t, 10000, cd.MaxNumReads)

	gi := cfg.IsomorphismLimits()
	assert.Equal(t, 20, gi.MaxVertices)
	assert.Equal(t, cfg.SolverNames(), gi.Solvers)
}

func TestRegistry(t *testing.T) {
	cfg := Default()
	cfg.Solvers.Remote = []RemoteConfig{{Name: "Advantage_system4.1", Endpoint: "https://solver.example.com"}}

	reg := cfg.Registry()
	assert.Equal(t, cfg.SolverNames(), reg.Names())

	s, err := reg.Get("Advantage_system4.1")
	require.NoError(t, err)
	assert.Equal(t, "Advantage_system4.1", s.Name())
}

func TestFillDefaults(t *testing.T) {
	cfg := Default()

	cd := validation.CommunityRequest{Communities: 2, Structure: "0-1"}
	cfg.FillCommunity(&cd)
	assert.Equal(t, 7, cd.Vertices)
	assert.Equal(t, 2, cd.Communities, "explicit values are kept")
	assert.Equal(t, 2000, cd.NumReads)
	assert.Equal(t, solver.LocalSimulator, cd.Solver)
	assert.Equal(t, "greedy", cd.Reference)

	gi := validation.IsomorphismRequest{Solver: solver.ExactSolver}
	cfg.FillIsomorphism(&gi)
	assert.Equal(t, 7, gi.Vertices)
	assert.Equal(t, 2000, gi.NumReads)
	assert.Equal(t, solver.ExactSolver, gi.Solver)
}
