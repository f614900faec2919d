package service

import (
	"time"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/orb"
)

// MaxLevel bounds every level and target a request may name. It is far
// above any configured cap; the lte tags below repeat it.
const MaxLevel = 1000

type RateRequest struct {
	Level int              `json:"level" validate:"gte=0,lte=1000"`
	Item  enchant.ItemTier `json:"item_tier" validate:"required,gte=1"`
	Orb   enchant.OrbTier  `json:"orb_tier" validate:"required,gte=1"`
}

type RateResponse struct {
	Level       int               `json:"level"`
	Item        enchant.ItemTier  `json:"item_tier"`
	Orb         enchant.OrbTier   `json:"orb_tier"`
	SuccessRate float64           `json:"success_rate"`
	FailureRate float64           `json:"failure_rate"`
	Risk        enchant.RiskLevel `json:"risk"`
}

// CostRequest prices level → target; Target defaults to the item cap.
type CostRequest struct {
	Level  int              `json:"level" validate:"gte=0,lte=1000"`
	Target *int             `json:"target,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Item   enchant.ItemTier `json:"item_tier" validate:"required,gte=1"`
	Orb    enchant.OrbTier  `json:"orb_tier" validate:"required,gte=1"`
}

type CostResponse struct {
	From         int                `json:"from"`
	To           int                `json:"to"`
	Item         enchant.ItemTier   `json:"item_tier"`
	Orb          enchant.OrbTier    `json:"orb_tier"`
	ExpectedOrbs enchant.Cost       `json:"expected_orbs"`
	Display      string             `json:"display"`
	Steps        []enchant.PathStep `json:"steps"`
}

type PathRequest struct {
	Level int              `json:"level" validate:"gte=0,lte=1000"`
	Item  enchant.ItemTier `json:"item_tier" validate:"required,gte=1"`
	Orb   enchant.OrbTier  `json:"orb_tier" validate:"required,gte=1"`
}

type PathResponse struct {
	Level int                `json:"level"`
	Cap   int                `json:"cap"`
	Item  enchant.ItemTier   `json:"item_tier"`
	Orb   enchant.OrbTier    `json:"orb_tier"`
	Steps []enchant.PathStep `json:"steps"`
	Total enchant.Cost       `json:"total_expected_orbs"`
}

// RecommendRequest asks for the cheapest orb reaching MinRate (default 70).
type RecommendRequest struct {
	Level   int              `json:"level" validate:"gte=0,lte=1000"`
	Item    enchant.ItemTier `json:"item_tier" validate:"required,gte=1"`
	MinRate *float64         `json:"min_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type RecommendResponse struct {
	Level       int               `json:"level"`
	Item        enchant.ItemTier  `json:"item_tier"`
	MinRate     float64           `json:"min_rate"`
	Orb         enchant.OrbTier   `json:"orb_tier"`
	OrbName     string            `json:"orb_name"`
	SuccessRate float64           `json:"success_rate"`
	Risk        enchant.RiskLevel `json:"risk"`
	Reached     bool              `json:"reached"`
}

type PracticalRequest struct {
	Level  int              `json:"level" validate:"gte=0,lte=1000"`
	Target *int             `json:"target,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Item   enchant.ItemTier `json:"item_tier" validate:"required,gte=1"`
	Orb    enchant.OrbTier  `json:"orb_tier" validate:"required,gte=1"`
}

type PracticalResponse struct {
	From int `json:"from"`
	To   int `json:"to"`
	enchant.Practicality
}

// SimulateRequest drives a Monte Carlo batch. Runs = 0 uses the configured
// default. Impractical batches are refused unless Force is set.
type SimulateRequest struct {
	StartLevel  int              `json:"start_level" validate:"gte=0,lte=1000"`
	TargetLevel *int             `json:"target_level,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Item        enchant.ItemTier `json:"item_tier" validate:"required,gte=1"`
	Orb         enchant.OrbTier  `json:"orb_tier" validate:"required,gte=1"`
	Runs        int              `json:"runs" validate:"gte=0"`
	OrbLimit    *int             `json:"orb_limit,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Force       bool             `json:"force"`
	Seed        *uint64          `json:"seed,omitempty"`
}

type SimulateResponse struct {
	RunID        string                  `json:"run_id"`
	StartLevel   int                     `json:"start_level"`
	TargetLevel  int                     `json:"target_level"`
	Item         enchant.ItemTier        `json:"item_tier"`
	Orb          enchant.OrbTier         `json:"orb_tier"`
	ExpectedOrbs enchant.Cost            `json:"expected_orbs"`
	Practicality enchant.Practicality    `json:"practicality"`
	Stats        enchant.SimulationStats `json:"stats"`
	Rates        []enchant.RateRow       `json:"rates"`
	OrbLimit     *int                    `json:"orb_limit,omitempty"`
	ChanceWithin *float64                `json:"chance_within_limit,omitempty"`
	Duration     time.Duration           `json:"duration_ns"`
}

// CompareRequest evaluates the built-in policies from Level. Inventory is
// optional; when given, each policy reports what it would still need.
type CompareRequest struct {
	Level     int              `json:"level" validate:"gte=0,lte=1000"`
	Item      enchant.ItemTier `json:"item_tier" validate:"required,gte=1"`
	Inventory orb.Inventory    `json:"inventory,omitempty"`
}

type PolicyResult struct {
	enchant.Comparison
	Display    string         `json:"display"`
	Shortfall  []orb.Shortage `json:"shortfall,omitempty"`
	Affordable *bool          `json:"affordable,omitempty"`
}

type CompareResponse struct {
	Level    int              `json:"level"`
	Item     enchant.ItemTier `json:"item_tier"`
	Policies []PolicyResult   `json:"policies"`
}

type ItemRow struct {
	Tier    enchant.ItemTier `json:"tier"`
	Name    string           `json:"name"`
	Color   string           `json:"color"`
	Divisor float64          `json:"divisor"`
	Cap     int              `json:"cap"`
	Orb     enchant.OrbTier  `json:"fallback_orb_tier,omitempty"`
}

type OrbRow struct {
	Tier       enchant.OrbTier `json:"tier"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Multiplier float64         `json:"multiplier"`
}

type TablesResponse struct {
	Game         string         `json:"game,omitempty"`
	Version      string         `json:"version,omitempty"`
	BaseRate     float64        `json:"base_rate"`
	LevelPenalty float64        `json:"level_penalty"`
	Items        []ItemRow      `json:"items"`
	Orbs         []OrbRow       `json:"orbs"`
	Limits       enchant.Limits `json:"limits"`
}
