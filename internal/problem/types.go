// Package problem defines the JSON-facing input and output envelopes for
// the group-mixing scheduler: the structural problem definition,
// objectives, the constraint union, and the solver configuration.
//
// Nothing in this package touches the optimizer. It is the boundary the
// rest of the system (internal/indexmap, internal/constraints,
// internal/state, ...) consumes to build the integer-indexed core.
package problem

// Input is the top-level request envelope.
type Input struct {
	Problem     Definition   `json:"problem"`
	Objectives  []Objective  `json:"objectives"`
	Constraints []Constraint `json:"constraints"`
	Solver      SolverConfig `json:"solver"`
}

// Definition is the structural description of people, groups and sessions.
type Definition struct {
	People      []Person `json:"people"`
	Groups      []Group  `json:"groups"`
	NumSessions int      `json:"num_sessions"`
}

// Person describes one participant. Sessions is nil when the person
// participates in every session; otherwise it is the 0-based list of
// session indices they attend.
type Person struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
	Sessions   *[]int            `json:"sessions,omitempty"`
}

// Group describes one fixed-capacity container.
type Group struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

// Objective is one weighted scoring term. Recognized Type values:
// "maximize_unique_contacts", "minimize_repetition_penalty". Unknown
// types are not an error here; state.New skips them without logging
// or reporting a warning.
type Objective struct {
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// RepeatEncounterParams tunes the repetition penalty's shape.
type RepeatEncounterParams struct {
	MaxAllowedEncounters int     `json:"max_allowed_encounters"`
	PenaltyFunction      string  `json:"penalty_function"` // "squared" or "linear"
	PenaltyWeight        float64 `json:"penalty_weight"`
}

// AttributeBalanceParams targets a per-group (or "ALL") attribute-value
// distribution.
type AttributeBalanceParams struct {
	GroupID       string         `json:"group_id"`
	AttributeKey  string         `json:"attribute_key"`
	DesiredValues map[string]int `json:"desired_values"`
	PenaltyWeight float64        `json:"penalty_weight"`
}

// ImmovablePersonParams pins a person to a group for specific sessions.
type ImmovablePersonParams struct {
	PersonID string `json:"person_id"`
	GroupID  string `json:"group_id"`
	Sessions []int  `json:"sessions"`
}

// GroupingParams backs both MustStayTogether and CannotBeTogether: a set
// of people and the sessions the constraint applies to (nil = all
// sessions).
type GroupingParams struct {
	People        []string `json:"people"`
	PenaltyWeight float64  `json:"penalty_weight"`
	Sessions      *[]int   `json:"sessions,omitempty"`
}

// StopConditions bounds an annealing run. A nil field means "unbounded"
// for that dimension.
type StopConditions struct {
	MaxIterations           *int `json:"max_iterations,omitempty"`
	TimeLimitSeconds        *int `json:"time_limit_seconds,omitempty"`
	NoImprovementIterations *int `json:"no_improvement_iterations,omitempty"`
}

// SimulatedAnnealingParams configures the geometric cooling schedule.
type SimulatedAnnealingParams struct {
	InitialTemperature float64 `json:"initial_temperature"`
	FinalTemperature   float64 `json:"final_temperature"`
	CoolingSchedule    string  `json:"cooling_schedule"` // "geometric"
}

// SolverParamsEnvelope is keyed by solver_type:
// `{"SimulatedAnnealing": {...}}`.
type SolverParamsEnvelope struct {
	SimulatedAnnealing *SimulatedAnnealingParams `json:"SimulatedAnnealing,omitempty"`
}

// LoggingOptions controls what the external driver (cmd/solve) logs
// around a run. The core itself never reads these; it only ever logs
// through the optional hclog.Logger passed to the Annealer.
type LoggingOptions struct {
	LogFrequency             *int `json:"log_frequency,omitempty"`
	LogInitialState          bool `json:"log_initial_state"`
	LogDurationAndScore      bool `json:"log_duration_and_score"`
	DisplayFinalSchedule     bool `json:"display_final_schedule"`
	LogInitialScoreBreakdown bool `json:"log_initial_score_breakdown"`
	LogFinalScoreBreakdown   bool `json:"log_final_score_breakdown"`
	LogStopCondition         bool `json:"log_stop_condition"`
}

// SolverConfig selects and configures the search strategy.
type SolverConfig struct {
	SolverType     string               `json:"solver_type"`
	StopConditions StopConditions       `json:"stop_conditions"`
	SolverParams   SolverParamsEnvelope `json:"solver_params"`
	Logging        LoggingOptions       `json:"logging"`
}

// Result is the output envelope: the final schedule plus the score
// components that produced it.
type Result struct {
	FinalScore              float64                         `json:"final_score"`
	Schedule                map[string]map[string][]string `json:"schedule"`
	UniqueContacts          int                             `json:"unique_contacts"`
	RepetitionPenalty       int                             `json:"repetition_penalty"`
	AttributeBalancePenalty int                             `json:"attribute_balance_penalty"`
	ConstraintPenalty       int                             `json:"constraint_penalty"`
}
