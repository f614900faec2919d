// Package service is the application layer shared by the HTTP and gRPC
// transports. It validates requests, holds the active rule tables and
// bounds Monte Carlo work.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/semaphore"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/game"
	"github.com/xtding233/enchant-engine/internal/logger"
	"github.com/xtding233/enchant-engine/internal/metrics"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrImpractical    = errors.New("simulation impractical")
	ErrBusy           = errors.New("too many simulations in flight")
)

// Options tune a Service. Zero values pick defaults.
type Options struct {
	SimConcurrency int
	SimTimeout     time.Duration
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// snapshot is the engine plus where its rules came from.
type snapshot struct {
	engine  *enchant.Engine
	game    string
	version string
}

type Service struct {
	current    atomic.Pointer[snapshot]
	validate   *validator.Validate
	sims       *semaphore.Weighted
	simTimeout time.Duration
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// New returns a Service serving engine until the first Reload.
func New(engine *enchant.Engine, opts Options) *Service {
	if opts.SimConcurrency <= 0 {
		opts.SimConcurrency = 4
	}
	if opts.SimTimeout <= 0 {
		opts.SimTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	s := &Service{
		validate:   v,
		sims:       semaphore.NewWeighted(int64(opts.SimConcurrency)),
		simTimeout: opts.SimTimeout,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}
	s.current.Store(&snapshot{engine: engine})
	return s
}

// Engine returns the engine currently serving requests.
func (s *Service) Engine() *enchant.Engine {
	return s.current.Load().engine
}

// Reload swaps in new rules. Invalid rules leave the active engine untouched.
func (s *Service) Reload(gameName, version string, rules enchant.Rules) error {
	e, err := enchant.New(rules)
	s.metrics.ObserveReload(err)
	if err != nil {
		s.log.Error("rules rejected", "game", gameName, "error", err)
		return err
	}
	s.current.Store(&snapshot{engine: e, game: gameName, version: version})
	logger.Always(s.log, "rules loaded", "game", gameName, "version", version,
		"items", len(rules.Items), "orbs", len(rules.Orbs))
	return nil
}

// ReloadFrom resolves gameName through r and swaps in the result.
func (s *Service) ReloadFrom(r game.Resolver, gameName string) error {
	raw, rules, err := r.Resolve(gameName)
	if err != nil {
		s.metrics.ObserveReload(err)
		s.log.Error("rules reload failed", "game", gameName, "error", err)
		return fmt.Errorf("reload %q: %w", gameName, err)
	}
	return s.Reload(gameName, raw.Version, rules)
}

// check runs struct validation and reports failures by JSON field name.
func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), rule))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

// checkTiers rejects tiers the active rules do not define.
func checkTiers(r enchant.Rules, item enchant.ItemTier, orbs ...enchant.OrbTier) error {
	var errs []string
	if !r.HasItem(item) {
		errs = append(errs, fmt.Sprintf("unknown item_tier %d", item))
	}
	for _, o := range orbs {
		if !r.HasOrb(o) {
			errs = append(errs, fmt.Sprintf("unknown orb_tier %d", o))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(errs, "; "))
	}
	return nil
}

// resolveTarget defaults target to the item cap and rejects targets outside
// [level, cap]. A level already at or above the cap resolves to itself.
func resolveTarget(e *enchant.Engine, level int, target *int, item enchant.ItemTier) (int, error) {
	limit := e.Cap(item)
	if target == nil {
		return max(limit, level), nil
	}
	switch {
	case *target < level:
		return 0, fmt.Errorf("%w: target %d is below level %d", ErrInvalidRequest, *target, level)
	case *target > limit && *target != level:
		return 0, fmt.Errorf("%w: target %d is above the %s cap of %d",
			ErrInvalidRequest, *target, e.Rules().ItemName(item), limit)
	}
	return *target, nil
}
