package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/problem"
)

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	in := problem.Input{
		Problem: problem.Definition{
			NumSessions: 2,
			People: []problem.Person{
				{ID: "p0", Attributes: map[string]string{"team": "a"}},
				{ID: "p1", Attributes: map[string]string{"team": "b"}},
				{ID: "p2", Attributes: map[string]string{"team": "a"}},
				{ID: "p3", Attributes: map[string]string{"team": "b"}},
			},
			Groups: []problem.Group{{ID: "g0", Size: 2}, {ID: "g1", Size: 2}},
		},
		Objectives: []problem.Objective{
			{Type: "maximize_unique_contacts", Weight: 1},
			{Type: "minimize_repetition_penalty", Weight: 5},
		},
		Solver: problem.SolverConfig{
			SolverType:     "SimulatedAnnealing",
			StopConditions: problem.StopConditions{MaxIterations: intPtr(200)},
		},
	}
	body, err := json.Marshal(in)
	require.NoError(t, err)
	path := filepath.Join(dir, "problem.json")
	require.NoError(t, os.WriteFile(path, body, 0o644))
	return path
}

func intPtr(v int) *int { return &v }

func TestRunProducesAValidResult(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	inputPath := writeFixture(t, dir)
	outputPath := filepath.Join(dir, "result.json")

	require.NoError(run(inputPath, outputPath, "", 1, "off"))

	raw, err := os.ReadFile(outputPath)
	require.NoError(err)

	var res problem.Result
	require.NoError(json.Unmarshal(raw, &res))
	require.Len(res.Schedule, 2)
	require.Contains(res.Schedule, "session_0")
}

func TestRunRejectsMissingInput(t *testing.T) {
	require.Error(t, run("", "", "", 1, "off"))
}
