package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dd0wney/graphqubo/pkg/api"
	"github.com/dd0wney/graphqubo/pkg/config"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/metrics"
	"github.com/dd0wney/graphqubo/pkg/pipeline"
	"github.com/dd0wney/graphqubo/pkg/server"
)

var version = "dev"

const systemMetricsInterval = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML configuration file (defaults when empty)")
	port := flag.Int("port", 0, "HTTP port, overrides the configuration and PORT")
	logLevel := flag.String("log-level", "", "debug, info, warn or error; overrides the configuration and LOG_LEVEL")
	flag.Parse()

	logger := logging.NewJSONLogger(os.Stdout, logging.InfoLevel)
	logging.SetDefaultLogger(logger)

	if err := run(*configPath, *port, *logLevel, logger); err != nil {
		logger.Error("server exited", logging.Error(err))
		os.Exit(1)
	}
}

// load reads the configuration and applies the command line overrides
func load(path string, port int, level string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(configPath string, port int, level string, logger *logging.JSONLogger) error {
	cfg, err := load(configPath, port, level)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	logger.Info("graphqubo server starting",
		logging.String("version", version),
		logging.String("config", configPath),
		logging.Any("solvers", cfg.SolverNames()),
	)

	reg := metrics.NewRegistry()
	if err := reg.RegisterRuntimeCollectors(); err != nil {
		return fmt.Errorf("register runtime collectors: %w", err)
	}
	reg.SetBuildInfo(version)

	runner := pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(reg))
	apiServer, err := api.NewServer(runner,
		api.WithLogger(logger),
		api.WithMetrics(reg),
		api.WithVersion(version),
	)
	if err != nil {
		return fmt.Errorf("create API server: %w", err)
	}
	defer apiServer.Close()

	gs := server.NewGracefulServer(server.Options{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, apiServer.Handler(), logger)

	gs.SetConfigReloadFunc(func() error {
		next, err := load(configPath, port, level)
		if err != nil {
			return err
		}
		logger.SetLevel(logging.ParseLevel(next.Logging.Level))
		runner.Reconfigure(next)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go apiServer.RunSystemMetrics(ctx, systemMetricsInterval)

	return gs.Run(ctx)
}
