// Package bench runs independent, seeded solver invocations over the
// same problem and reports aggregate statistics, the shape an external
// job manager running parallel independent invocations would consume.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"groupmix/internal/constraints"
	"groupmix/internal/indexmap"
	"groupmix/internal/opt"
	"groupmix/internal/placement"
	"groupmix/internal/problem"
	"groupmix/internal/state"
)

// Algorithm names one opt.Optimizer factory, seeded fresh per run.
type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Record summarizes Runs independent invocations of one algorithm
// against one problem.
type Record struct {
	Algo string
	Runs int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	ScoreBest float64
	ScoreMean float64
	ScoreStd  float64

	IterationsBest int
	IterationsMean float64
	IterationsStd  float64
}

// Runner fans out independent seeded solver invocations with bounded
// concurrency via golang.org/x/sync/errgroup. The index map and
// preprocessed constraints are shared read-only across invocations;
// each invocation gets its own State and RNG.
type Runner struct {
	Runs          int
	BaseSeed      int64
	Concurrency   int
	PerRunTimeout time.Duration // 0 = no timeout
}

// RunCase runs algo.Factory Runs times against in, each with a distinct
// seed, and aggregates timing and final-score statistics.
func (r Runner) RunCase(ctx context.Context, in problem.Input, algo Algorithm) (Record, error) {
	maps, err := indexmap.Build(in.Problem)
	if err != nil {
		return Record{}, fmt.Errorf("bench: building index maps: %w", err)
	}
	pre, err := constraints.Preprocess(maps, in.Constraints)
	if err != nil {
		return Record{}, fmt.Errorf("bench: preprocessing constraints: %w", err)
	}

	scores := make([]float64, r.Runs)
	timesMs := make([]float64, r.Runs)
	iterations := make([]int, r.Runs)

	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}

	for i := 0; i < r.Runs; i++ {
		i := i
		g.Go(func() error {
			seed := uint64(r.BaseSeed + int64(i))
			s, err := state.New(maps, pre, in, seed)
			if err != nil {
				return fmt.Errorf("run %d: building state: %w", i, err)
			}
			if err := placement.Place(s); err != nil {
				return fmt.Errorf("run %d: placement: %w", i, err)
			}

			runCtx := gctx
			cancel := func() {}
			if r.PerRunTimeout > 0 {
				runCtx, cancel = context.WithTimeout(gctx, r.PerRunTimeout)
			}
			defer cancel()

			begin := time.Now()
			res, err := algo.Factory(int64(seed)).Solve(runCtx, s)
			dur := time.Since(begin)
			if err != nil {
				return fmt.Errorf("run %d: solve: %w", i, err)
			}

			scores[i] = res.FinalScore
			timesMs[i] = float64(dur.Microseconds()) / 1000.0
			iterations[i] = res.Iterations
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Record{}, err
	}

	sStats := CalcFloatStats(scores)
	tStats := CalcFloatStats(timesMs)
	iStats := CalcIntStats(iterations)

	return Record{
		Algo: algo.Name,
		Runs: r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		ScoreBest: sStats.Best,
		ScoreMean: sStats.Mean,
		ScoreStd:  sStats.Std,

		IterationsBest: iStats.Best,
		IterationsMean: iStats.Mean,
		IterationsStd:  iStats.Std,
	}, nil
}

// WriteCSV writes one row per Record to path, creating parent
// directories as needed.
func WriteCSV(path string, records []Record) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"algo", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"score_best", "score_mean", "score_std",
		"iterations_best", "iterations_mean", "iterations_std",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Algo,
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.ScoreBest),
			ftoa(r.ScoreMean),
			ftoa(r.ScoreStd),

			itoa(r.IterationsBest),
			ftoa(r.IterationsMean),
			ftoa(r.IterationsStd),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
