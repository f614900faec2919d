package enchant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidParams = errors.New("invalid simulation parameters")

// CapExceeded is the reason reported for a trial stopped by the attempt cap.
const CapExceeded = "cap_exceeded"

// SimParams describes one simulation request.
type SimParams struct {
	StartLevel  int
	TargetLevel int
	Item        ItemTier
	Orb         OrbTier
	Runs        int

	// MaxAttempts overrides Limits.MaxAttempts when > 0.
	MaxAttempts int

	// RNG defaults to DefaultRNG when nil.
	RNG RandomSource
}

// RunOutcome is the result of a single trial. Converged is false when the
// trial hit the attempt cap, in which case Attempts is the cap and not a sample.
type RunOutcome struct {
	Attempts  int
	Converged bool
}

// Reason returns "" for converged trials and CapExceeded otherwise.
func (o RunOutcome) Reason() string {
	if o.Converged {
		return ""
	}
	return CapExceeded
}

// Bucket is one histogram bin [Lower, Upper). The last bin also includes Upper.
type Bucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// LevelStat counts attempts made while standing at Level.
type LevelStat struct {
	Level     int `json:"level"`
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// ObservedRate is the empirical success rate in percent.
func (s LevelStat) ObservedRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts) * 100
}

// SimulationStats aggregates a batch of trials. Summary fields cover
// converged trials only; capped trials are counted in Capped.
type SimulationStats struct {
	Runs      int         `json:"runs"`
	Converged int         `json:"converged"`
	Capped    int         `json:"capped"`
	Mean      float64     `json:"mean"`
	Median    float64     `json:"median"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	P10       float64     `json:"p10"`
	P25       float64     `json:"p25"`
	P75       float64     `json:"p75"`
	P80       float64     `json:"p80"`
	P90       float64     `json:"p90"`
	P95       float64     `json:"p95"`
	Histogram []Bucket    `json:"histogram"`
	Levels    []LevelStat `json:"levels"`

	// Sorted attempts of converged trials.
	Samples []int `json:"-"`
}

// ChanceWithin returns the fraction of all runs that reached the target
// using at most orbLimit orbs. Capped runs never count.
func (s SimulationStats) ChanceWithin(orbLimit int) float64 {
	if s.Runs == 0 || orbLimit < 0 {
		return 0
	}
	n := sort.SearchInts(s.Samples, orbLimit+1)
	return float64(n) / float64(s.Runs)
}

// levelCounter accumulates per-level attempt counts across trials.
type levelCounter []LevelStat

func newLevelCounter(target int) levelCounter {
	c := make(levelCounter, target)
	for i := range c {
		c[i].Level = i
	}
	return c
}

func (c levelCounter) record(level int, success bool) {
	if level < 0 || level >= len(c) {
		return
	}
	c[level].Attempts++
	if success {
		c[level].Successes++
	} else {
		c[level].Failures++
	}
}

// simulateOne walks one trial from start to target. Success moves up a level,
// failure moves down one level but never below zero.
func simulateOne(p []float64, start, target, maxAttempts int, rng RandomSource, levels levelCounter) RunOutcome {
	level := start
	attempts := 0
	for level < target {
		if attempts >= maxAttempts {
			return RunOutcome{Attempts: attempts, Converged: false}
		}
		attempts++
		ok := rng.Float64() < p[level]
		levels.record(level, ok)
		if ok {
			level++
		} else if level > 0 {
			level--
		}
	}
	return RunOutcome{Attempts: attempts, Converged: true}
}

// Simulate runs params.Runs independent trials. ctx is checked between
// trials; on cancellation the partial result is discarded and ctx.Err()
// returned. A start at or above the target converges with zero attempts;
// otherwise the target may not exceed the item cap, which bounds the
// per-level tables.
func (e *Engine) Simulate(ctx context.Context, params SimParams) (SimulationStats, error) {
	if err := e.validateSim(params); err != nil {
		return SimulationStats{}, err
	}
	if params.Runs <= 0 {
		return SimulationStats{}, nil
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = e.rules.Limits.MaxAttempts
	}
	if params.StartLevel >= params.TargetLevel {
		// every trial is already done
		stats := calcStats(make([]int, params.Runs), e.rules.Limits.HistogramBuckets)
		stats.Runs = params.Runs
		stats.Levels = []LevelStat{}
		return stats, nil
	}
	rng := params.RNG
	if rng == nil {
		rng = DefaultRNG()
	}

	// probabilities are fixed per level for the whole batch
	p := make([]float64, params.TargetLevel)
	for l := range p {
		p[l] = e.probability(l, params.Item, params.Orb)
	}
	levels := newLevelCounter(params.TargetLevel)

	samples := make([]int, 0, params.Runs)
	capped := 0
	for i := 0; i < params.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return SimulationStats{}, err
		}
		out := simulateOne(p, params.StartLevel, params.TargetLevel, maxAttempts, rng, levels)
		if !out.Converged {
			capped++
			continue
		}
		samples = append(samples, out.Attempts)
	}

	stats := calcStats(samples, e.rules.Limits.HistogramBuckets)
	stats.Runs = params.Runs
	stats.Capped = capped
	stats.Levels = levels
	return stats, nil
}

func (e *Engine) validateSim(p SimParams) error {
	var errs []string
	if p.StartLevel < 0 {
		errs = append(errs, "start_level must be >= 0")
	}
	if p.TargetLevel < p.StartLevel {
		errs = append(errs, "target_level must be >= start_level")
	}
	if limit := e.Cap(p.Item); p.TargetLevel > p.StartLevel && p.TargetLevel > limit {
		errs = append(errs, fmt.Sprintf("target_level must be <= %d, the item cap", limit))
	}
	if p.Runs < 0 {
		errs = append(errs, "runs must be >= 0")
	}
	if limit := e.rules.Limits.MaxRuns; limit > 0 && p.Runs > limit {
		errs = append(errs, fmt.Sprintf("runs must be <= %d", limit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidParams, errs)
	}
	return nil
}

// calcStats sorts xs in place and summarises it.
func calcStats(xs []int, buckets int) SimulationStats {
	n := len(xs)
	if n == 0 {
		return SimulationStats{Histogram: []Bucket{}, Samples: xs}
	}
	sort.Ints(xs)

	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	percentile := func(p float64) float64 {
		i := int(math.Floor(float64(n) * p))
		if i >= n {
			i = n - 1
		}
		return float64(xs[i])
	}

	return SimulationStats{
		Converged: n,
		Mean:      sum / float64(n),
		Median:    percentile(0.50),
		Min:       float64(xs[0]),
		Max:       float64(xs[n-1]),
		P10:       percentile(0.10),
		P25:       percentile(0.25),
		P75:       percentile(0.75),
		P80:       percentile(0.80),
		P90:       percentile(0.90),
		P95:       percentile(0.95),
		Histogram: histogram(xs, buckets),
		Samples:   xs,
	}
}

// histogram splits sorted xs into k equal-width bins over [min, max].
func histogram(xs []int, k int) []Bucket {
	if len(xs) == 0 || k <= 0 {
		return []Bucket{}
	}
	lo, hi := float64(xs[0]), float64(xs[len(xs)-1])
	width := (hi - lo) / float64(k)
	out := make([]Bucket, k)
	for i := range out {
		out[i].Lower = lo + width*float64(i)
		out[i].Upper = lo + width*float64(i+1)
	}
	out[k-1].Upper = hi
	for _, v := range xs {
		i := 0
		if width > 0 {
			i = int((float64(v) - lo) / width)
		}
		if i >= k {
			i = k - 1
		}
		out[i].Count++
	}
	return out
}
