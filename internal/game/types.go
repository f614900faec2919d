// types.go
package game

// RawConfig is the YAML rule file as written; nil pointers mean "inherit".
type RawConfig struct {
	Version      string       `yaml:"version"`
	BaseRate     *float64     `yaml:"base_rate,omitempty"`
	LevelPenalty *float64     `yaml:"level_penalty,omitempty"`
	Items        []ItemConfig `yaml:"items,omitempty"`
	Orbs         []OrbConfig  `yaml:"orbs,omitempty"`
	Fallback     map[int]int  `yaml:"fallback,omitempty"` // item tier -> orb tier
	Simulation   *SimConfig   `yaml:"simulation,omitempty"`
	Notes        string       `yaml:"notes,omitempty"`
}

// ItemConfig is one item tier row. Tier is the key when merging.
type ItemConfig struct {
	Tier    int      `yaml:"tier"`
	Name    string   `yaml:"name,omitempty"`
	Color   string   `yaml:"color,omitempty"`
	Divisor *float64 `yaml:"divisor,omitempty"`
	Cap     *int     `yaml:"cap,omitempty"`
}

// OrbConfig is one orb tier row. Tier is the key when merging.
type OrbConfig struct {
	Tier       int      `yaml:"tier"`
	Name       string   `yaml:"name,omitempty"`
	Color      string   `yaml:"color,omitempty"`
	Multiplier *float64 `yaml:"multiplier,omitempty"`
}

type SimConfig struct {
	DefaultRuns      *int     `yaml:"default_runs,omitempty"`
	MaxRuns          *int     `yaml:"max_runs,omitempty"`
	MaxAttempts      *int     `yaml:"max_attempts,omitempty"`
	HistogramBuckets *int     `yaml:"histogram_buckets,omitempty"`
	SlowAbove        *float64 `yaml:"slow_above,omitempty"`
	ImpracticalAbove *float64 `yaml:"impractical_above,omitempty"`
}
