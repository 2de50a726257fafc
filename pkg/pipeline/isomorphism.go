package pipeline

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/graphqubo/pkg/graph"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/qubo"
	"github.com/dd0wney/graphqubo/pkg/solver"
	"github.com/dd0wney/graphqubo/pkg/validation"
	"github.com/dd0wney/graphqubo/pkg/verify"
)

// permutationStream separates the permutation generator from the
// annealer's streams for the same seed
const permutationStream = 0x6a09e667f3bcc909

// Isomorphism runs graph isomorphism for req. Without a second structure
// the second graph is a random vertex permutation of the first, drawn from
// req.Seed (or a random seed, reported in the result).
func (r *Runner) Isomorphism(ctx context.Context, req *validation.IsomorphismRequest) (*IsomorphismResult, error) {
	const problem = ProblemIsomorphism

	cfg, reg := r.snapshot()
	if err := validation.ValidateIsomorphismRequest(req, cfg.IsomorphismLimits()); err != nil {
		return nil, err
	}

	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	runID := uuid.NewString()
	logger := logging.ContextLogger(ctx, r.logger).With(logging.RunID(runID), logging.Problem(problem))

	g1, err := graph.Parse(req.Vertices, req.Structure, false)
	if err != nil {
		return nil, r.structureError(problem, qubo.GraphStructureError("parse graph", err))
	}

	result := &IsomorphismResult{RunID: runID, Problem: problem}
	var g2 *graph.Graph
	if strings.TrimSpace(req.Structure2) == "" {
		seed := validation.DefaultOr(req.Seed, cfg.Solvers.Annealer.Seed)
		if seed == 0 {
			seed = rand.Uint64()
		}
		g2, result.Permutation, err = graph.RandomPermutation(g1, rand.New(rand.NewPCG(seed, permutationStream)))
		if err != nil {
			return nil, err
		}
		result.PermutationSeed = seed
	} else {
		g2, err = graph.Parse(req.Vertices, req.Structure2, false)
		if err != nil {
			return nil, r.structureError(problem, qubo.GraphStructureError("parse second graph", err))
		}
	}
	logger.Debug("graphs ready", logging.Vertices(g1.Order()), logging.Edges(g1.Size()), logging.Int("edges2", g2.Size()))

	var opts []qubo.Option
	result.Penalty = float64(req.Vertices)
	if req.Penalty > 0 {
		opts = append(opts, qubo.WithPenalty(req.Penalty))
		result.Penalty = req.Penalty
	}

	start := time.Now()
	m, err := qubo.BuildIsomorphism(g1, g2, opts...)
	if err != nil {
		return nil, r.structureError(problem, err)
	}
	model, err := qubo.LabelIsomorphism(m, g1)
	if err != nil {
		return nil, err
	}
	buildTime := time.Since(start)
	r.recordBuild(problem, model, buildTime)
	logger.Info("qubo built",
		logging.Variables(model.NumVariables()),
		logging.Interactions(model.NumInteractions()),
		logging.Duration("build_time", buildTime),
	)

	set, solveTime, err := r.solve(ctx, logger, reg, model, req.Solver, solver.Params{
		NumReads: req.NumReads,
		Seed:     validation.DefaultOr(req.Seed, cfg.Solvers.Annealer.Seed),
		Token:    req.Token,
	})
	if err != nil {
		return nil, err
	}
	best, _ := set.First()

	expected := qubo.ExpectedIsomorphismEnergy(g1)
	verdict := verify.Isomorphism(best, expected, req.Vertices)
	if verdict != verify.BijectionError {
		result.Mapping, _ = verify.Mapping(best, req.Vertices)
	}

	if r.metrics != nil {
		r.metrics.RecordVerdict(problem, verdict.String())
		if verdict == verify.BijectionError {
			r.metrics.RecordInfeasible(problem)
		}
	}
	logger.Info("run verified",
		logging.Energy(best.Energy),
		logging.Float64("expected_energy", expected),
		logging.Verdict(verdict.String()),
	)

	stats := basicStats(g1, model)
	stats.Solver = req.Solver
	stats.NumReads = req.NumReads
	stats.Samples = set.Len()
	stats.BuildTimeMs = float64(buildTime) / float64(time.Millisecond)
	stats.SolveTimeMs = float64(solveTime) / float64(time.Millisecond)

	result.Graph1 = graph.ToNodeLink(g1)
	result.Graph2 = graph.ToNodeLink(g2)
	result.Matrix = matrixData(m)
	result.Offset = m.Offset
	result.Stats = stats
	result.Best = best
	result.ExpectedEnergy = expected
	result.Success = verify.Round3(best.Energy - expected)
	result.Verdict = verdict
	return result, nil
}
