package service

import (
	"context"
	"time"

	"github.com/xtding233/enchant-engine/internal/enchant"
)

// Rate returns the success rate of one attempt.
func (s *Service) Rate(ctx context.Context, req RateRequest) (resp RateResponse, err error) {
	defer s.observe("rate", time.Now(), &err)
	e := s.Engine()
	if err = s.check(req); err != nil {
		return resp, err
	}
	if err = checkTiers(e.Rules(), req.Item, req.Orb); err != nil {
		return resp, err
	}
	rate := e.SuccessRate(req.Level, req.Item, req.Orb)
	return RateResponse{
		Level:       req.Level,
		Item:        req.Item,
		Orb:         req.Orb,
		SuccessRate: rate,
		FailureRate: 100 - rate,
		Risk:        enchant.Risk(rate),
	}, nil
}

// Cost returns the expected orbs from Level to Target with the steps in between.
func (s *Service) Cost(ctx context.Context, req CostRequest) (resp CostResponse, err error) {
	defer s.observe("cost", time.Now(), &err)
	e := s.Engine()
	if err = s.check(req); err != nil {
		return resp, err
	}
	if err = checkTiers(e.Rules(), req.Item, req.Orb); err != nil {
		return resp, err
	}
	target, err := resolveTarget(e, req.Level, req.Target, req.Item)
	if err != nil {
		return resp, err
	}

	steps := []enchant.PathStep{}
	for _, st := range e.AnalyzePath(req.Level, req.Item, req.Orb) {
		if st.ToLevel > target {
			break
		}
		steps = append(steps, st)
	}
	cost := e.ExpectedCostBetween(req.Level, target, req.Item, req.Orb)
	return CostResponse{
		From:         req.Level,
		To:           target,
		Item:         req.Item,
		Orb:          req.Orb,
		ExpectedOrbs: cost,
		Display:      cost.String(),
		Steps:        steps,
	}, nil
}

// Path returns the level-by-level plan to the item cap.
func (s *Service) Path(ctx context.Context, req PathRequest) (resp PathResponse, err error) {
	defer s.observe("path", time.Now(), &err)
	e := s.Engine()
	if err = s.check(req); err != nil {
		return resp, err
	}
	if err = checkTiers(e.Rules(), req.Item, req.Orb); err != nil {
		return resp, err
	}
	steps := e.AnalyzePath(req.Level, req.Item, req.Orb)
	return PathResponse{
		Level: req.Level,
		Cap:   e.Cap(req.Item),
		Item:  req.Item,
		Orb:   req.Orb,
		Steps: steps,
		Total: enchant.PathTotal(steps),
	}, nil
}

// Recommend returns the cheapest orb tier reaching the requested success rate.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (resp RecommendResponse, err error) {
	defer s.observe("recommend", time.Now(), &err)
	e := s.Engine()
	if err = s.check(req); err != nil {
		return resp, err
	}
	rules := e.Rules()
	if err = checkTiers(rules, req.Item); err != nil {
		return resp, err
	}
	minRate := enchant.DefaultMinRate
	if req.MinRate != nil {
		minRate = *req.MinRate
	}
	o := e.RecommendedOrbTier(req.Level, req.Item, minRate)
	rate := e.SuccessRate(req.Level, req.Item, o)
	return RecommendResponse{
		Level:       req.Level,
		Item:        req.Item,
		MinRate:     minRate,
		Orb:         o,
		OrbName:     rules.OrbName(o),
		SuccessRate: rate,
		Risk:        enchant.Risk(rate),
		Reached:     rate >= minRate,
	}, nil
}

// Practical runs the simulation guard without simulating.
func (s *Service) Practical(ctx context.Context, req PracticalRequest) (resp PracticalResponse, err error) {
	defer s.observe("practical", time.Now(), &err)
	e := s.Engine()
	if err = s.check(req); err != nil {
		return resp, err
	}
	if err = checkTiers(e.Rules(), req.Item, req.Orb); err != nil {
		return resp, err
	}
	target, err := resolveTarget(e, req.Level, req.Target, req.Item)
	if err != nil {
		return resp, err
	}
	return PracticalResponse{
		From:         req.Level,
		To:           target,
		Practicality: e.IsSimulationPractical(req.Level, target, req.Item, req.Orb),
	}, nil
}

// Compare evaluates the safe, hybrid and aggressive policies from Level.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (resp CompareResponse, err error) {
	defer s.observe("compare", time.Now(), &err)
	e := s.Engine()
	if err = s.check(req); err != nil {
		return resp, err
	}
	rules := e.Rules()
	if err = checkTiers(rules, req.Item); err != nil {
		return resp, err
	}
	if req.Inventory != nil {
		if err = req.Inventory.Validate(rules); err != nil {
			return resp, wrapInvalid(err)
		}
	}

	resp = CompareResponse{Level: req.Level, Item: req.Item, Policies: []PolicyResult{}}
	for _, c := range e.ComparePolicies(req.Level, req.Item, e.DefaultPolicies(req.Item, req.Level)) {
		pr := PolicyResult{Comparison: c, Display: c.Total.String()}
		if req.Inventory != nil {
			pr.Shortfall = req.Inventory.Shortfall(c.OrbsByTier)
			ok := len(pr.Shortfall) == 0
			pr.Affordable = &ok
		}
		resp.Policies = append(resp.Policies, pr)
	}
	return resp, nil
}

// Tables returns the active rule tables.
func (s *Service) Tables(ctx context.Context) TablesResponse {
	snap := s.current.Load()
	rules := snap.engine.Rules()
	resp := TablesResponse{
		Game:         snap.game,
		Version:      snap.version,
		BaseRate:     rules.BaseRate,
		LevelPenalty: rules.LevelPenalty,
		Items:        make([]ItemRow, 0, len(rules.Items)),
		Orbs:         make([]OrbRow, 0, len(rules.Orbs)),
		Limits:       rules.Limits,
	}
	for _, t := range rules.ItemTiers() {
		it := rules.Items[t]
		resp.Items = append(resp.Items, ItemRow{
			Tier: t, Name: it.Name, Color: it.Color,
			Divisor: it.Divisor, Cap: it.Cap, Orb: rules.Fallback[t],
		})
	}
	for _, t := range rules.OrbTiers() {
		o := rules.Orbs[t]
		resp.Orbs = append(resp.Orbs, OrbRow{Tier: t, Name: o.Name, Color: o.Color, Multiplier: o.Multiplier})
	}
	return resp
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.ObserveRequest(op, *err, time.Since(start))
}
