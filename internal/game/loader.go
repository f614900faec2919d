package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/enchant-engine/internal/enchant"
)

// Paths helper for default/game rule files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/configs
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "games", "default.yaml")
}
func (p Paths) GamePath(game string) string {
	return filepath.Join(p.BaseDir, "games", game+".yaml")
}

// Files lists the files that make up a game's rules, in merge order.
func (p Paths) Files(game string) []string {
	if game == "" {
		return []string{p.DefaultPath()}
	}
	return []string{p.DefaultPath(), p.GamePath(game)}
}

// Loader reads YAML rule files and merges builtin → default → game.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: game name, "" for default only
}

// NewLoader creates a rules loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges the builtin tables, default.yaml and the
// game's file (both optional). It returns the merged RawConfig without
// normalization.
func (l *Loader) LoadMerged(game string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[game]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	var gameCfg RawConfig
	if game != "" {
		gameCfg, err = readYAML(l.paths.GamePath(game))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read game %q: %w", game, err)
		}
	}

	merged := mergeRaw(FromRules(enchant.DefaultRules()), defCfg)
	merged = mergeRaw(merged, gameCfg)

	l.mu.Lock()
	l.cache[game] = merged
	l.mu.Unlock()

	return merged, nil
}

// Resolve loads, validates and normalizes the rules for game.
func (l *Loader) Resolve(game string) (RawConfig, enchant.Rules, error) {
	raw, err := l.LoadMerged(game)
	if err != nil {
		return RawConfig{}, enchant.Rules{}, err
	}
	rules, err := Resolve(raw)
	if err != nil {
		return RawConfig{}, enchant.Rules{}, err
	}
	return raw, rules, nil
}

// Invalidate clears loader's cache. Call after the watcher detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b onto a: set scalars and pointers in b win, item and
// orb rows merge field by field keyed on tier, fallback entries are replaced
// per key.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.BaseRate != nil {
		out.BaseRate = b.BaseRate
	}
	if b.LevelPenalty != nil {
		out.LevelPenalty = b.LevelPenalty
	}

	out.Items = mergeItems(a.Items, b.Items)
	out.Orbs = mergeOrbs(a.Orbs, b.Orbs)

	if len(b.Fallback) > 0 {
		fb := make(map[int]int, len(a.Fallback)+len(b.Fallback))
		for k, v := range a.Fallback {
			fb[k] = v
		}
		for k, v := range b.Fallback {
			fb[k] = v
		}
		out.Fallback = fb
	}

	// simulation
	switch {
	case a.Simulation == nil && b.Simulation != nil:
		c := *b.Simulation
		out.Simulation = &c
	case a.Simulation != nil && b.Simulation != nil:
		c := *a.Simulation
		s := b.Simulation
		if s.DefaultRuns != nil {
			c.DefaultRuns = s.DefaultRuns
		}
		if s.MaxRuns != nil {
			c.MaxRuns = s.MaxRuns
		}
		if s.MaxAttempts != nil {
			c.MaxAttempts = s.MaxAttempts
		}
		if s.HistogramBuckets != nil {
			c.HistogramBuckets = s.HistogramBuckets
		}
		if s.SlowAbove != nil {
			c.SlowAbove = s.SlowAbove
		}
		if s.ImpracticalAbove != nil {
			c.ImpracticalAbove = s.ImpracticalAbove
		}
		out.Simulation = &c
	}

	return out
}

func mergeItems(a, b []ItemConfig) []ItemConfig {
	byTier := make(map[int]ItemConfig, len(a)+len(b))
	for _, it := range a {
		byTier[it.Tier] = it
	}
	for _, it := range b {
		cur, ok := byTier[it.Tier]
		if !ok {
			byTier[it.Tier] = it
			continue
		}
		if it.Name != "" {
			cur.Name = it.Name
		}
		if it.Color != "" {
			cur.Color = it.Color
		}
		if it.Divisor != nil {
			cur.Divisor = it.Divisor
		}
		if it.Cap != nil {
			cur.Cap = it.Cap
		}
		byTier[it.Tier] = cur
	}
	out := make([]ItemConfig, 0, len(byTier))
	for _, it := range byTier {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

func mergeOrbs(a, b []OrbConfig) []OrbConfig {
	byTier := make(map[int]OrbConfig, len(a)+len(b))
	for _, o := range a {
		byTier[o.Tier] = o
	}
	for _, o := range b {
		cur, ok := byTier[o.Tier]
		if !ok {
			byTier[o.Tier] = o
			continue
		}
		if o.Name != "" {
			cur.Name = o.Name
		}
		if o.Color != "" {
			cur.Color = o.Color
		}
		if o.Multiplier != nil {
			cur.Multiplier = o.Multiplier
		}
		byTier[o.Tier] = cur
	}
	out := make([]OrbConfig, 0, len(byTier))
	for _, o := range byTier {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}
