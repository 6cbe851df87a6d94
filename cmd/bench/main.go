// Command bench compares the three search strategies (simulated
// annealing, tabu search, genetic search) across a set of problem files,
// running each Runs times with distinct seeds, and writes a CSV summary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"groupmix/internal/anneal"
	"groupmix/internal/bench"
	"groupmix/internal/genetic"
	"groupmix/internal/opt"
	"groupmix/internal/problem"
	"groupmix/internal/tabu"
)

func newSAFactory(cfg anneal.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := anneal.New(cfg)
		return solver
	}
}

func newTSFactory(cfg tabu.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := tabu.New(cfg)
		return solver
	}
}

func newGAFactory(cfg genetic.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := genetic.New(cfg)
		return solver
	}
}

func main() {
	var (
		out      = flag.String("out", "artifacts/results.csv", "path to the output CSV file")
		problems = flag.String("problems", "", "comma-separated list of problem JSON files (required)")
		algos    = flag.String("algos", "SA,TS,GA", "algorithms to run: SA, TS, GA (comma-separated)")
		runs     = flag.Int("runs", 30, "number of runs per algorithm per problem")
		baseSeed = flag.Int64("seed", 1000, "base seed for solver runs")
		perRunTO = flag.Duration("per_run_timeout", 0, "timeout per run; 0 means unbounded")

		saInitT = flag.Float64("sa_t0", 2000.0, "initial temperature")
		saFinT  = flag.Float64("sa_tmin", 0.5, "final temperature")
		saAlpha = flag.Float64("sa_alpha", 0.995, "cooling rate")
		saIter  = flag.Int("sa_iter", 200_000, "max iterations")

		tsIter    = flag.Int("ts_iter", 50_000, "max iterations")
		tsTenure  = flag.Int("ts_tenure", 7, "tabu tenure")
		tsNeigh   = flag.Int("ts_neighbors", 40, "candidates sampled per iteration")
		tsTenureR = flag.Int("ts_tenure_rand", 3, "randomized addition to tenure [0..rand]")

		gaPop   = flag.Int("ga_pop", 150, "population size")
		gaGen   = flag.Int("ga_gen", 400, "generations")
		gaElite = flag.Int("ga_elite", 4, "elite count")
		gaTour  = flag.Int("ga_tour", 5, "tournament size")
		gaCx    = flag.Float64("ga_cx", 0.90, "crossover rate")
		gaMut   = flag.Float64("ga_mut", 0.15, "mutation rate")
	)
	flag.Parse()

	ctx := context.Background()

	if *problems == "" {
		fmt.Fprintln(os.Stderr, "conflict: -problems is required")
		os.Exit(2)
	}
	cases, err := loadProblems(splitCSV(*problems))
	if err != nil {
		fmt.Fprintln(os.Stderr, "conflict:", err)
		os.Exit(2)
	}

	saCfg := anneal.DefaultConfig()
	saCfg.InitialTemp, saCfg.FinalTemp, saCfg.Alpha, saCfg.MaxIterations = *saInitT, *saFinT, *saAlpha, *saIter
	if err := saCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "conflict in simulated annealing configuration:", err)
		os.Exit(2)
	}

	tsCfg := tabu.DefaultConfig()
	tsCfg.MaxIterations, tsCfg.TabuTenure, tsCfg.TabuTenureRand, tsCfg.NeighborsPerIter = *tsIter, *tsTenure, *tsTenureR, *tsNeigh
	if err := tsCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "conflict in tabu search configuration:", err)
		os.Exit(2)
	}

	gaCfg := genetic.DefaultConfig()
	gaCfg.Population, gaCfg.Generations, gaCfg.Elite = *gaPop, *gaGen, *gaElite
	gaCfg.TournamentSize, gaCfg.CrossoverRate, gaCfg.MutationRate = *gaTour, *gaCx, *gaMut
	if err := gaCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "conflict in genetic search configuration:", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"SA": {Name: "SA", Factory: newSAFactory(saCfg)},
		"TS": {Name: "TS", Factory: newTSFactory(tsCfg)},
		"GA": {Name: "GA", Factory: newGAFactory(gaCfg)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(*algos) {
		al, ok := available[a]
		if !ok {
			fmt.Fprintf(os.Stderr, "algorithm not registered %q; available: %v\n", a, keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		PerRunTimeout: *perRunTO,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			fmt.Printf("running %s on %s (runs=%d)...\n", a.Name, c.path, runner.Runs)

			rec, err := runner.RunCase(ctx, c.input, a)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("  score: best=%.2f mean=%.2f std=%.2f | time: mean=%.2fms std=%.2fms\n",
				rec.ScoreBest, rec.ScoreMean, rec.ScoreStd,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		fmt.Fprintln(os.Stderr, "error writing CSV:", err)
		os.Exit(1)
	}
	fmt.Println("Saved:", *out)
}

type problemCase struct {
	path  string
	input problem.Input
}

func loadProblems(paths []string) ([]problemCase, error) {
	cases := make([]problemCase, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		var in problem.Input
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		cases = append(cases, problemCase{path: p, input: in})
	}
	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
