// Command solve reads a group-mixing problem as JSON, runs the
// configured local-search strategy, and writes the resulting schedule
// and score breakdown as JSON. It is a thin flag-based wrapper over the
// core packages, not a product surface in its own right.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"groupmix/internal/anneal"
	"groupmix/internal/constraints"
	"groupmix/internal/genetic"
	"groupmix/internal/indexmap"
	"groupmix/internal/opt"
	"groupmix/internal/placement"
	"groupmix/internal/problem"
	"groupmix/internal/state"
	"groupmix/internal/tabu"
)

func main() {
	inputPath := flag.String("input", "", "path to the problem JSON file (required)")
	outputPath := flag.String("output", "", "path to write the result JSON (default stdout)")
	solverOverride := flag.String("solver", "", "override solver.solver_type: SimulatedAnnealing, TabuSearch, or GeneticSearch")
	seed := flag.Int64("seed", 0, "RNG seed (0 picks one from the current time)")
	logLevel := flag.String("log-level", "off", "off, debug, or info")
	flag.Parse()

	if err := run(*inputPath, *outputPath, *solverOverride, *seed, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "solve:", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath, solverOverride string, seedFlag int64, logLevel string) error {
	if inputPath == "" {
		return fmt.Errorf("-input is required")
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	var in problem.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("validating input: %w", err)
	}

	runID := uuid.New().String()
	logger := buildLogger(logLevel, runID)

	seed := seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	maps, err := indexmap.Build(in.Problem)
	if err != nil {
		return fmt.Errorf("building index maps: %w", err)
	}
	pre, err := constraints.Preprocess(maps, in.Constraints)
	if err != nil {
		return fmt.Errorf("preprocessing constraints: %w", err)
	}

	s, err := state.New(maps, pre, in, uint64(seed))
	if err != nil {
		return fmt.Errorf("building state: %w", err)
	}
	if in.Solver.Logging.LogInitialState && logger != nil {
		logger.Info("initial problem", "people", maps.NumPeople(), "groups", maps.NumGroups(), "sessions", maps.NumSessions)
	}
	if err := placement.Place(s); err != nil {
		return fmt.Errorf("placement: %w", err)
	}
	if in.Solver.Logging.LogInitialScoreBreakdown && logger != nil {
		logScoreBreakdown(logger, "initial score", s)
	}

	solverType := in.Solver.SolverType
	if solverOverride != "" {
		solverType = solverOverride
	}

	optimizer, err := buildOptimizer(solverType, in, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if lim := in.Solver.StopConditions.TimeLimitSeconds; lim != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*lim)*time.Second)
		defer cancel()
	}

	begin := time.Now()
	res, err := optimizer.Solve(ctx, s)
	duration := time.Since(begin)
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}

	if in.Solver.Logging.LogDurationAndScore && logger != nil {
		logger.Info("run complete", "run_id", runID, "duration", duration, "final_score", res.FinalScore, "termination", string(res.Termination))
	}
	if in.Solver.Logging.LogStopCondition && logger != nil {
		logger.Info("stop condition", "termination", string(res.Termination), "iterations", res.Iterations)
	}
	if in.Solver.Logging.LogFinalScoreBreakdown && logger != nil {
		logScoreBreakdown(logger, "final score", res.Best)
	}

	out := toResult(res.Best, res.FinalScore)
	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if outputPath == "" {
		fmt.Println(string(body))
		return nil
	}
	return os.WriteFile(outputPath, body, 0o644)
}

func buildLogger(level, runID string) hclog.Logger {
	var lvl hclog.Level
	switch level {
	case "debug":
		lvl = hclog.Debug
	case "info":
		lvl = hclog.Info
	default:
		return nil
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "groupmix",
		Level: lvl,
	}).With("run_id", runID)
}

func logScoreBreakdown(logger hclog.Logger, label string, s *state.State) {
	logger.Info(label,
		"unique_contacts", s.UniqueContacts,
		"repetition_penalty", s.RepetitionPenalty,
		"attribute_balance_penalty", s.AttributeBalancePenalty,
		"constraint_penalty", s.ConstraintPenalty,
		"weighted", s.Weighted())
}

func buildOptimizer(solverType string, in problem.Input, logger hclog.Logger) (opt.Optimizer, error) {
	switch solverType {
	case "", "SimulatedAnnealing":
		cfg := anneal.DefaultConfig()
		if p := in.Solver.SolverParams.SimulatedAnnealing; p != nil {
			if p.InitialTemperature > 0 {
				cfg.InitialTemp = p.InitialTemperature
			}
			if p.FinalTemperature > 0 {
				cfg.FinalTemp = p.FinalTemperature
			}
		}
		applyStopConditions(&cfg.MaxIterations, &cfg.NoImprovementLimit, in.Solver.StopConditions)
		cfg.Logger = logger
		return anneal.New(cfg)
	case "TabuSearch":
		cfg := tabu.DefaultConfig()
		applyStopConditions(&cfg.MaxIterations, nil, in.Solver.StopConditions)
		return tabu.New(cfg)
	case "GeneticSearch":
		cfg := genetic.DefaultConfig()
		if lim := in.Solver.StopConditions.MaxIterations; lim != nil {
			cfg.Generations = int(*lim)
		}
		return genetic.New(cfg)
	default:
		return nil, fmt.Errorf("unknown solver_type %q", solverType)
	}
}

func applyStopConditions(maxIter, noImprovement *int, stop problem.StopConditions) {
	if maxIter != nil && stop.MaxIterations != nil {
		*maxIter = int(*stop.MaxIterations)
	}
	if noImprovement != nil && stop.NoImprovementIterations != nil {
		*noImprovement = int(*stop.NoImprovementIterations)
	}
}

func toResult(s *state.State, finalScore float64) problem.Result {
	schedule := make(map[string]map[string][]string, s.NumSessions)
	for sess := range s.Schedule {
		key := fmt.Sprintf("session_%d", sess)
		groups := make(map[string][]string, len(s.Schedule[sess]))
		for g, members := range s.Schedule[sess] {
			ids := make([]string, len(members))
			for i, p := range members {
				ids[i] = s.Maps.PersonIdxToID[p]
			}
			groups[s.Maps.GroupIdxToID[g]] = ids
		}
		schedule[key] = groups
	}

	return problem.Result{
		FinalScore:              finalScore,
		Schedule:                schedule,
		UniqueContacts:          s.UniqueContacts,
		RepetitionPenalty:       int(s.RepetitionPenalty),
		AttributeBalancePenalty: int(s.AttributeBalancePenalty),
		ConstraintPenalty:       int(s.ConstraintPenalty),
	}
}
