// Command enchantsim answers enchanting questions from the terminal using the
// same rule tables and service layer as the server.
//
//	enchantsim [-config dir] [-game name] <command> [flags]
//
// Commands: rate, path, cost, simulate, compare, attempt, tables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/game"
	"github.com/xtding233/enchant-engine/internal/logger"
	"github.com/xtding233/enchant-engine/internal/service"
)

var errUsage = errors.New("usage")

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "enchantsim:", err)
		os.Exit(1)
	}
}

type app struct {
	svc    *service.Service
	rules  enchant.Rules
	out    io.Writer
	errOut io.Writer
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"rate", "success rate of one attempt", runRate},
	{"path", "level-by-level plan to the item cap", runPath},
	{"cost", "expected orbs between two levels", runCost},
	{"simulate", "Monte Carlo simulation", runSimulate},
	{"compare", "compare safe, hybrid and aggressive policies", runCompare},
	{"attempt", "roll attempts one by one", runAttempt},
	{"tables", "print the active rule tables", runTables},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("enchantsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config", "configs", "directory holding games/*.yaml")
	gameName := fs.String("game", "", "game rule file to layer over default.yaml")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: enchantsim [-config dir] [-game name] <command> [flags]")
		fmt.Fprintln(stderr, "\ncommands:")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-9s %s\n", c.name, c.usage)
		}
		fmt.Fprintln(stderr, "\nglobal flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	loader := game.NewLoader(*configDir)
	_, rules, err := loader.Resolve(*gameName)
	if err != nil {
		return err
	}
	engine, err := enchant.New(rules)
	if err != nil {
		return err
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = "WARN"
	log, _ := logger.New(logCfg, stderr)
	a := &app{
		svc:    service.New(engine, service.Options{SimConcurrency: 1, Logger: log}),
		rules:  rules,
		out:    stdout,
		errOut: stderr,
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	for _, c := range commands {
		if c.name == name {
			return c.run(ctx, a, rest)
		}
	}
	fs.Usage()
	return fmt.Errorf("%w: unknown command %q", errUsage, name)
}

// parseItem accepts a tier number or a configured name, case-insensitively.
func parseItem(rules enchant.Rules, s string) (enchant.ItemTier, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return enchant.ItemTier(n), nil
	}
	for _, t := range rules.ItemTiers() {
		if strings.EqualFold(rules.Items[t].Name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown item tier %q", s)
}

func parseOrb(rules enchant.Rules, s string) (enchant.OrbTier, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return enchant.OrbTier(n), nil
	}
	for _, t := range rules.OrbTiers() {
		if strings.EqualFold(rules.Orbs[t].Name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown orb tier %q", s)
}

// tierFlags registers the -item/-orb/-level trio shared by most commands.
type tierFlags struct {
	item, orb string
	level     int
}

func (f *tierFlags) register(fs *flag.FlagSet, withOrb bool) {
	fs.StringVar(&f.item, "item", "godly", "item tier (name or number)")
	if withOrb {
		fs.StringVar(&f.orb, "orb", "minor", "orb tier (name or number)")
	}
	fs.IntVar(&f.level, "level", 0, "current enchant level")
}

func (f *tierFlags) resolve(rules enchant.Rules, withOrb bool) (enchant.ItemTier, enchant.OrbTier, error) {
	item, err := parseItem(rules, f.item)
	if err != nil {
		return 0, 0, err
	}
	if !withOrb {
		return item, 0, nil
	}
	o, err := parseOrb(rules, f.orb)
	if err != nil {
		return 0, 0, err
	}
	return item, o, nil
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
