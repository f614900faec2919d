package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/orb"
	"github.com/xtding233/enchant-engine/internal/service"
)

func pct(v float64) string { return fmt.Sprintf("%.2f%%", v) }

func runRate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("rate", a.errOut)
	var tf tierFlags
	tf.register(fs, true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	item, o, err := tf.resolve(a.rules, true)
	if err != nil {
		return err
	}
	resp, err := a.svc.Rate(ctx, service.RateRequest{Level: tf.level, Item: item, Orb: o})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s item, %s orb, +%d -> +%d: %s success (%s)\n",
		a.rules.ItemName(item), a.rules.OrbName(o), tf.level, tf.level+1, pct(resp.SuccessRate), resp.Risk)
	return nil
}

func runPath(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("path", a.errOut)
	var tf tierFlags
	tf.register(fs, true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	item, o, err := tf.resolve(a.rules, true)
	if err != nil {
		return err
	}
	resp, err := a.svc.Path(ctx, service.PathRequest{Level: tf.level, Item: item, Orb: o})
	if err != nil {
		return err
	}
	if len(resp.Steps) == 0 {
		fmt.Fprintf(a.out, "already at max level (+%d)\n", resp.Cap)
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tRATE\tEXPECTED ORBS\tRISK\tSUGGESTED ORB")
	for _, st := range resp.Steps {
		fmt.Fprintf(tw, "+%d -> +%d\t%s\t%s\t%s\t%s\n", st.FromLevel, st.ToLevel, pct(st.SuccessRate),
			st.ExpectedOrbs, st.RiskLevel, a.rules.OrbName(st.RecommendedOrbTier))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%s\t\t\n", resp.Total)
	return tw.Flush()
}

func runCost(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("cost", a.errOut)
	var tf tierFlags
	tf.register(fs, true)
	target := fs.Int("target", -1, "target level (default: item cap)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	item, o, err := tf.resolve(a.rules, true)
	if err != nil {
		return err
	}
	req := service.CostRequest{Level: tf.level, Item: item, Orb: o}
	if *target >= 0 {
		req.Target = target
	}
	resp, err := a.svc.Cost(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "+%d -> +%d with %s orbs: %s orbs expected\n",
		resp.From, resp.To, a.rules.OrbName(o), resp.Display)
	return nil
}

func runSimulate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("simulate", a.errOut)
	var tf tierFlags
	tf.register(fs, true)
	target := fs.Int("target", -1, "target level (default: item cap)")
	runs := fs.Int("runs", 0, "number of trials (default from rules)")
	limit := fs.Int("limit", -1, "report the chance of finishing within this many orbs")
	seed := fs.Uint64("seed", 0, "RNG seed; 0 picks a random seed")
	force := fs.Bool("force", false, "simulate even when the expected cost is impractical")
	if err := fs.Parse(args); err != nil {
		return err
	}
	item, o, err := tf.resolve(a.rules, true)
	if err != nil {
		return err
	}
	req := service.SimulateRequest{StartLevel: tf.level, Item: item, Orb: o, Runs: *runs, Force: *force}
	if *target >= 0 {
		req.TargetLevel = target
	}
	if *limit >= 0 {
		req.OrbLimit = limit
	}
	if *seed != 0 {
		req.Seed = seed
	}
	resp, err := a.svc.Simulate(ctx, req)
	if err != nil {
		return err
	}
	if resp.Practicality.Warning != "" {
		fmt.Fprintln(a.errOut, "warning:", resp.Practicality.Warning)
	}

	st := resp.Stats
	fmt.Fprintf(a.out, "%s runs of %s item with %s orbs, +%d -> +%d (run %s)\n",
		humanize.Comma(int64(st.Runs)), a.rules.ItemName(item), a.rules.OrbName(o),
		resp.StartLevel, resp.TargetLevel, resp.RunID)
	fmt.Fprintf(a.out, "expected %s, simulated mean %s, median %s\n",
		resp.ExpectedOrbs, enchant.FormatOrbs(st.Mean), enchant.FormatOrbs(st.Median))
	fmt.Fprintf(a.out, "min %s  p10 %s  p25 %s  p75 %s  p90 %s  p95 %s  max %s\n",
		enchant.FormatOrbs(st.Min), enchant.FormatOrbs(st.P10), enchant.FormatOrbs(st.P25),
		enchant.FormatOrbs(st.P75), enchant.FormatOrbs(st.P90), enchant.FormatOrbs(st.P95),
		enchant.FormatOrbs(st.Max))
	if st.Capped > 0 {
		fmt.Fprintf(a.out, "%s runs hit the attempt cap and were excluded\n", humanize.Comma(int64(st.Capped)))
	}
	if resp.ChanceWithin != nil {
		fmt.Fprintf(a.out, "chance to finish within %s orbs: %s\n",
			humanize.Comma(int64(*resp.OrbLimit)), pct(*resp.ChanceWithin*100))
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nLEVEL\tRATE\tOBSERVED\tATTEMPTS\tFAILURES")
	for _, lv := range st.Levels {
		if lv.Attempts == 0 {
			continue
		}
		rate := a.svc.Engine().SuccessRate(lv.Level, item, o)
		fmt.Fprintf(tw, "+%d\t%s\t%s\t%s\t%s\n", lv.Level, pct(rate), pct(lv.ObservedRate()),
			humanize.Comma(int64(lv.Attempts)), humanize.Comma(int64(lv.Failures)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nhistogram:")
	peak := 0
	for _, b := range st.Histogram {
		peak = max(peak, b.Count)
	}
	for _, b := range st.Histogram {
		bar := 0
		if peak > 0 {
			bar = b.Count * 40 / peak
		}
		fmt.Fprintf(a.out, "%10s - %-10s %s %d\n",
			enchant.FormatOrbs(b.Lower), enchant.FormatOrbs(b.Upper), strings.Repeat("#", bar), b.Count)
	}
	return nil
}

func runCompare(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("compare", a.errOut)
	var tf tierFlags
	tf.register(fs, false)
	invFlag := fs.String("inventory", "", "orbs on hand as tier=count pairs, e.g. 1=40,3=5")
	if err := fs.Parse(args); err != nil {
		return err
	}
	item, _, err := tf.resolve(a.rules, false)
	if err != nil {
		return err
	}
	req := service.CompareRequest{Level: tf.level, Item: item}
	if *invFlag != "" {
		inv, err := orb.Parse(*invFlag)
		if err != nil {
			return err
		}
		req.Inventory = inv
	}
	resp, err := a.svc.Compare(ctx, req)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tRISK\tEXPECTED ORBS\tORBS BY TIER\tENOUGH")
	for _, p := range resp.Policies {
		enough := "-"
		if p.Affordable != nil {
			enough = "yes"
			if !*p.Affordable {
				enough = "no"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Policy, p.Risk, p.Display, byTier(a.rules, p.OrbsByTier), enough)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if name := cheapestPolicy(resp.Policies); name != "" {
		fmt.Fprintf(a.out, "cheapest: %s\n", name)
	}
	for _, p := range resp.Policies {
		for _, s := range p.Shortfall {
			if s.Infinite {
				fmt.Fprintf(a.out, "%s: %s orbs can never finish\n", p.Policy, a.rules.OrbName(s.Orb))
				continue
			}
			fmt.Fprintf(a.out, "%s: short %s %s orbs (need %s, have %s)\n", p.Policy,
				humanize.Comma(int64(s.Missing)), a.rules.OrbName(s.Orb),
				humanize.Comma(int64(s.Need)), humanize.Comma(int64(s.Have)))
		}
	}
	return nil
}

// cheapestPolicy names the policy with the lowest finite total. Ties keep the
// earlier policy; "" means none can finish.
func cheapestPolicy(policies []service.PolicyResult) string {
	name, best := "", enchant.Infinite
	for _, p := range policies {
		if !p.Total.IsInfinite() && p.Total < best {
			name, best = p.Policy, p.Total
		}
	}
	return name
}

func byTier(rules enchant.Rules, m map[enchant.OrbTier]enchant.Cost) string {
	var parts []string
	for _, t := range rules.OrbTiers() {
		if c, ok := m[t]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", rules.OrbName(t), c))
		}
	}
	return strings.Join(parts, ", ")
}

func runAttempt(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("attempt", a.errOut)
	var tf tierFlags
	tf.register(fs, true)
	n := fs.Int("n", 1, "number of attempts to roll")
	seed := fs.Uint64("seed", 0, "RNG seed; 0 picks a random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	item, o, err := tf.resolve(a.rules, true)
	if err != nil {
		return err
	}
	if _, err := a.svc.Rate(ctx, service.RateRequest{Level: tf.level, Item: item, Orb: o}); err != nil {
		return err
	}
	rng := enchant.DefaultRNG()
	if *seed != 0 {
		rng = enchant.NewSeededRNG(*seed)
	}

	e := a.svc.Engine()
	level, used := tf.level, 0
	for i := 0; i < *n && level < e.Cap(item); i++ {
		res, err := e.Attempt(level, item, o, rng)
		if err != nil {
			return err
		}
		used++
		outcome := "fail"
		if res.Success {
			outcome = "success"
		}
		fmt.Fprintf(a.out, "#%d +%d (%s) %s -> +%d\n", used, res.FromLevel, pct(res.SuccessRate), outcome, res.ToLevel)
		level = res.ToLevel
	}
	fmt.Fprintf(a.out, "used %d %s orbs, now +%d of +%d\n", used, a.rules.OrbName(o), level, e.Cap(item))
	return nil
}

func runTables(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("tables", a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	t := a.svc.Tables(ctx)
	fmt.Fprintf(a.out, "base rate %.0f%%, -%.0f%% per level\n\n", t.BaseRate, t.LevelPenalty)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tTIER\tDIVISOR\tMAX LEVEL\tFALLBACK ORB")
	for _, it := range t.Items {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t+%d\t%s\n", it.Name, it.Tier, it.Divisor, it.Cap, a.rules.OrbName(it.Orb))
	}
	fmt.Fprintln(tw, "\nORB\tTIER\tMULTIPLIER\t\t")
	for _, o := range t.Orbs {
		fmt.Fprintf(tw, "%s\t%d\t%.1fx\t\t\n", o.Name, o.Tier, o.Multiplier)
	}
	return tw.Flush()
}
