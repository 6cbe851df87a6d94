package anneal

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Config configures one annealing run: the geometric cooling schedule,
// stop conditions (iteration cap, wall-clock limit, no-improvement
// cutoff), and an optional structured logger.
type Config struct {
	InitialTemp float64
	FinalTemp   float64

	// Alpha is the per-iteration multiplicative cooling rate used only
	// when MaxIterations is unbounded (a time-limited run with no
	// iteration cap to key T(i) = T0*(Tf/T0)^(i/N) off). Whenever
	// MaxIterations > 0, the schedule is computed directly from
	// InitialTemp/FinalTemp/MaxIterations instead, and this field is
	// ignored.
	Alpha float64

	MaxIterations      int
	TimeLimit          time.Duration
	NoImprovementLimit int

	// ProgressStride is how many iterations pass between progress log
	// records. 0 disables periodic logging. Cancellation is checked
	// every iteration regardless of this value.
	ProgressStride int

	// Logger receives Debug-level progress records at ProgressStride
	// and an Info-level summary at the end. Nil means silent, which is
	// the default for the core.
	Logger hclog.Logger
}

// DefaultConfig returns reasonable defaults for the group-mixing cost's
// typical magnitude.
func DefaultConfig() Config {
	return Config{
		InitialTemp:        2000,
		FinalTemp:          0.5,
		Alpha:              0.995,
		MaxIterations:      200_000,
		TimeLimit:          0,
		NoImprovementLimit: 0,
		ProgressStride:     1000,
	}
}

// Validate checks the configuration is internally consistent before a
// run starts.
func (c Config) Validate() error {
	if c.InitialTemp <= 0 {
		return fmt.Errorf("anneal: InitialTemp must be > 0")
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf("anneal: FinalTemp must be > 0")
	}
	if c.FinalTemp > c.InitialTemp {
		return fmt.Errorf("anneal: FinalTemp must be <= InitialTemp")
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("anneal: Alpha must be in (0, 1)")
	}
	if c.MaxIterations <= 0 && c.TimeLimit <= 0 {
		return fmt.Errorf("anneal: must set MaxIterations > 0 or TimeLimit > 0")
	}
	return nil
}
