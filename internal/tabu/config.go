package tabu

import "fmt"

// Config configures one tabu-search run over the group-mixing move set.
type Config struct {
	MaxIterations    int
	TabuTenure       int
	TabuTenureRand   int
	NeighborsPerIter int
	CliqueMoveProb   float64
}

// DefaultConfig returns reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations:    50_000,
		TabuTenure:       7,
		TabuTenureRand:   3,
		NeighborsPerIter: 40,
		CliqueMoveProb:   0.2,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("tabu: MaxIterations must be > 0")
	}
	if c.TabuTenure < 0 {
		return fmt.Errorf("tabu: TabuTenure must be >= 0")
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf("tabu: TabuTenureRand must be >= 0")
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf("tabu: NeighborsPerIter must be > 0")
	}
	return nil
}
