package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/graphqubo/pkg/graph"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/qubo"
	"github.com/dd0wney/graphqubo/pkg/solver"
	"github.com/dd0wney/graphqubo/pkg/validation"
	"github.com/dd0wney/graphqubo/pkg/verify"
)

// Community runs community detection for req. Validation failures match
// validation.ErrValidation, unusable graphs qubo.ErrGraphStructure, and
// sampler failures are *solver.Error.
func (r *Runner) Community(ctx context.Context, req *validation.CommunityRequest) (*CommunityResult, error) {
	const problem = ProblemCommunityDetection

	cfg, reg := r.snapshot()
	if err := validation.ValidateCommunityRequest(req, cfg.CommunityLimits()); err != nil {
		return nil, err
	}

	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	runID := uuid.NewString()
	logger := logging.ContextLogger(ctx, r.logger).With(logging.RunID(runID), logging.Problem(problem))

	weighted := req.Weighted == nil || *req.Weighted
	g, err := graph.Parse(req.Vertices, req.Structure, weighted)
	if err != nil {
		return nil, r.structureError(problem, qubo.GraphStructureError("parse graph", err))
	}
	logger.Debug("graph parsed", logging.Vertices(g.Order()), logging.Edges(g.Size()))

	penalty := validation.DefaultOr(req.Penalty, cfg.Community.Penalty)
	start := time.Now()
	m, err := qubo.BuildCommunityDetection(g, req.Communities, qubo.WithPenalty(penalty))
	if err != nil {
		return nil, r.structureError(problem, err)
	}
	model, err := qubo.LabelCommunityDetection(m, g, req.Communities)
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

	reference := verify.Reference(validation.DefaultOr(req.Reference, cfg.Community.Reference))
	report, err := verify.Community(g, best, req.Communities, verify.WithReference(reference))
	if err != nil {
		return nil, err
	}

	r.recordCommunity(report)
	logger.Info("run verified",
		logging.Energy(best.Energy),
		logging.String("gap", report.Gap),
		logging.Bool("feasible", report.Feasible),
	)

	stats := basicStats(g, model)
	stats.Solver = req.Solver
	stats.NumReads = req.NumReads
	stats.Samples = set.Len()
	stats.BuildTimeMs = float64(buildTime) / float64(time.Millisecond)
	stats.SolveTimeMs = float64(solveTime) / float64(time.Millisecond)

	return &CommunityResult{
		RunID:       runID,
		Problem:     problem,
		Communities: req.Communities,
		Penalty:     penalty,
		Graph:       graph.ToNodeLink(g),
		Matrix:      matrixData(m),
		Offset:      m.Offset,
		Stats:       stats,
		Best:        best,
		Report:      report,
		Success:     report.Gap,
	}, nil
}

func (r *Runner) recordCommunity(report *verify.CommunityReport) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordCommunityGap(report.GapValue)
	verdict := "matched"
	if report.GapValue > 0 {
		verdict = "gap"
	}
	r.metrics.RecordVerdict(ProblemCommunityDetection, verdict)
	if !report.Feasible {
		r.metrics.RecordInfeasible(ProblemCommunityDetection)
	}
}
