package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/metrics"
)

// Simulate runs a Monte Carlo batch. It refuses impractical batches unless
// forced, fails fast with ErrBusy when every simulation slot is taken, and
// bounds the run by the configured timeout.
func (s *Service) Simulate(ctx context.Context, req SimulateRequest) (resp SimulateResponse, err error) {
	defer s.observe("simulate", time.Now(), &err)
	e := s.Engine()
	if err = s.check(req); err != nil {
		return resp, err
	}
	rules := e.Rules()
	if err = checkTiers(rules, req.Item, req.Orb); err != nil {
		return resp, err
	}
	target, err := resolveTarget(e, req.StartLevel, req.TargetLevel, req.Item)
	if err != nil {
		return resp, err
	}
	runs := req.Runs
	if runs == 0 {
		runs = rules.Limits.DefaultRuns
	}

	practical := e.IsSimulationPractical(req.StartLevel, target, req.Item, req.Orb)
	if !practical.Practical && !req.Force {
		s.metrics.ObserveSimulation(metrics.OutcomeRefused, 0, 0, 0)
		return resp, fmt.Errorf("%w: %s", ErrImpractical, practical.Warning)
	}

	if !s.sims.TryAcquire(1) {
		s.metrics.ObserveSimulation(metrics.OutcomeBusy, 0, 0, 0)
		return resp, ErrBusy
	}
	defer s.sims.Release(1)
	done := s.metrics.SimulationStarted()
	defer done()

	ctx, cancel := context.WithTimeout(ctx, s.simTimeout)
	defer cancel()

	params := enchant.SimParams{
		StartLevel:  req.StartLevel,
		TargetLevel: target,
		Item:        req.Item,
		Orb:         req.Orb,
		Runs:        runs,
	}
	if req.Seed != nil {
		params.RNG = enchant.NewSeededRNG(*req.Seed)
	}

	runID := uuid.NewString()
	log := s.log.With("run_id", runID)
	log.Info("simulation started",
		"item", rules.ItemName(req.Item), "orb", rules.OrbName(req.Orb),
		"from", req.StartLevel, "to", target, "runs", runs,
		"expected_orbs", practical.EstimatedCost.String(), "forced", req.Force && !practical.Practical)

	start := time.Now()
	stats, err := e.Simulate(ctx, params)
	took := time.Since(start)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			s.metrics.ObserveSimulation(metrics.OutcomeCanceled, 0, 0, took)
			log.Warn("simulation aborted", "after", took, "error", err)
			return resp, fmt.Errorf("simulation %s: %w", runID, err)
		case errors.Is(err, enchant.ErrInvalidParams):
			s.metrics.ObserveSimulation(metrics.OutcomeError, 0, 0, took)
			return resp, wrapInvalid(err)
		}
		s.metrics.ObserveSimulation(metrics.OutcomeError, 0, 0, took)
		return resp, err
	}
	s.metrics.ObserveSimulation(metrics.OutcomeOK, stats.Runs, stats.Capped, took)
	log.Info("simulation finished", "took", took, "mean", stats.Mean, "capped", stats.Capped)

	resp = SimulateResponse{
		RunID:        runID,
		StartLevel:   req.StartLevel,
		TargetLevel:  target,
		Item:         req.Item,
		Orb:          req.Orb,
		ExpectedOrbs: practical.EstimatedCost,
		Practicality: practical,
		Stats:        stats,
		Rates:        e.RateTable(req.StartLevel, target, req.Item, req.Orb),
		OrbLimit:     req.OrbLimit,
		Duration:     took,
	}
	if resp.Rates == nil {
		resp.Rates = []enchant.RateRow{}
	}
	if req.OrbLimit != nil {
		chance := stats.ChanceWithin(*req.OrbLimit)
		resp.ChanceWithin = &chance
	}
	return resp, nil
}

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}
