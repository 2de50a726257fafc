package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/graphqubo/pkg/config"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/pipeline"
	"github.com/dd0wney/graphqubo/pkg/validation"
)

// rootOptions holds the persistent flags and what PersistentPreRunE builds
// from them.
type rootOptions struct {
	configPath string
	jsonOut    bool
	logLevel   string

	cfg    *config.Config
	runner *pipeline.Runner
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "graphqubo",
		Short: "Community detection and graph isomorphism as QUBO problems",
		Long: `graphqubo turns a graph problem into a QUBO, samples it with a local or
remote solver and grades the lowest-energy sample against a classical result.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if cmd.Flags().Changed("log-level") {
				level = opts.logLevel
			}
			logger := logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(level))
			opts.cfg = cfg
			opts.runner = pipeline.New(cfg, pipeline.WithLogger(logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("GRAPHQUBO_CONFIG"), "path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print the full result as JSON")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	rootCmd.AddCommand(newCommunityCmd(opts), newIsomorphismCmd(opts), newSolversCmd(opts))
	return rootCmd
}

func newCommunityCmd(opts *rootOptions) *cobra.Command {
	req := &validation.CommunityRequest{}
	var weighted bool

	cmd := &cobra.Command{
		Use:     "cd",
		Aliases: []string{"community"},
		Short:   "Detect communities by sampling a modularity QUBO",
		Example: `  graphqubo cd --vertices 6 --communities 2 --structure "0-1,1-2,2-0,3-4,4-5,5-3" --solver exact`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("weighted") {
				req.Weighted = &weighted
			}
			opts.cfg.FillCommunity(req)

			res, err := opts.runner.Community(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("community detection: %w", err)
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			renderCommunity(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&req.Vertices, "vertices", "n", 0, "number of vertices (default from config)")
	f.IntVarP(&req.Communities, "communities", "k", 0, "number of communities (default from config)")
	f.StringVarP(&req.Structure, "structure", "s", "", `edge list such as "0-1,1-2"; empty draws a random graph`)
	f.StringVar(&req.Solver, "solver", "", "solver name (default from config)")
	f.IntVar(&req.NumReads, "num-reads", 0, "number of samples to draw (default from config)")
	f.Uint64Var(&req.Seed, "seed", 0, "seed for the random graph and the annealer")
	f.Float64Var(&req.Penalty, "penalty", 0, "one-hot penalty weight (default from config)")
	f.StringVar(&req.Reference, "reference", "", "classical partition to grade against: greedy, louvain or label-propagation")
	f.BoolVar(&weighted, "weighted", true, "draw random edge weights for a generated graph")
	f.StringVar(&req.Token, "token", os.Getenv("GRAPHQUBO_TOKEN"), "API token for a remote solver")
	return cmd
}

func newIsomorphismCmd(opts *rootOptions) *cobra.Command {
	req := &validation.IsomorphismRequest{}

	cmd := &cobra.Command{
		Use:     "gi",
		Aliases: []string{"isomorphism"},
		Short:   "Test two graphs for isomorphism by sampling a QUBO",
		Long: `gi checks a graph against a second one. Without --structure2 the second graph
is a random relabelling of the first, so a working solver reports them as isomorphic.`,
		Example: `  graphqubo gi --vertices 4 --structure "0-1,1-2,2-3,3-0" --solver exact --seed 7`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg.FillIsomorphism(req)

			res, err := opts.runner.Isomorphism(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("graph isomorphism: %w", err)
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			renderIsomorphism(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&req.Vertices, "vertices", "n", 0, "number of vertices (default from config)")
	f.StringVarP(&req.Structure, "structure", "s", "", `edge list of the first graph; empty draws a random graph`)
	f.StringVar(&req.Structure2, "structure2", "", "edge list of the second graph; empty permutes the first")
	f.StringVar(&req.Solver, "solver", "", "solver name (default from config)")
	f.IntVar(&req.NumReads, "num-reads", 0, "number of samples to draw (default from config)")
	f.Uint64Var(&req.Seed, "seed", 0, "seed for the random graph, the permutation and the annealer")
	f.Float64Var(&req.Penalty, "penalty", 0, "bijection penalty weight (default: vertex count)")
	f.StringVar(&req.Token, "token", os.Getenv("GRAPHQUBO_TOKEN"), "API token for a remote solver")
	return cmd
}

func newSolversCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "List the configured solvers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := opts.runner.Solvers()
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"default": opts.cfg.Solvers.Default,
					"solvers": names,
				})
			}
			renderSolvers(cmd.OutOrStdout(), names, opts.cfg.Solvers.Default)
			return nil
		},
	}
}
