// Command typecheck is the core's demonstration driver: it loads
// configuration, builds a root Context wired to a real Subtype Oracle
// and Unifier, and runs a handful of declarations through the
// Registrar to show the five components working together end to end.
// Pass -repl to drop into the interactive oracle console instead.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/veylang/typecore/internal/config"
	"github.com/veylang/typecore/internal/evaluator"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/registrar"
	"github.com/veylang/typecore/internal/repl"
	"github.com/veylang/typecore/internal/subtype"
	"github.com/veylang/typecore/internal/types"
	"github.com/veylang/typecore/internal/unify"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults used if omitted)")
	legacyVariance := flag.Bool("legacy-variance", false, "force legacy_mutable_ref_variance on, overriding the config file")
	startREPL := flag.Bool("repl", false, "launch the interactive oracle console instead of running the demo")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", color.RedString("config error"), err)
		os.Exit(1)
	}
	if *legacyVariance {
		cfg.Features.LegacyMutableRefVariance = true
	}

	if *startREPL {
		repl.NewWithConfig(&repl.Config{LegacyMutableRefVariance: cfg.Features.LegacyMutableRefVariance}, "dev").
			Start(os.Stdin, os.Stdout)
		return
	}

	runDemo(cfg)
}

// session bundles the five components one call to runDemo exercises,
// built fresh so each demo section starts from a clean root Context.
type session struct {
	ctx    *types.Context
	oracle *subtype.Oracle
	ins    *instantiate.Instantiator
	uni    *unify.Unifier
	reg    *registrar.Registrar
}

func newSession(cfg *config.Config) *session {
	cache := subtype.NewCache()
	oracle := subtype.NewWithFeatures(cache, cfg.Features.LegacyMutableRefVariance)
	uni := unify.New(oracle)
	ins := instantiate.New(evaluator.New(), uni)
	ctx := types.NewRootContext("demo", cache)
	for name, t := range map[string]types.Type{
		"Bool": types.TBool, "Nat": types.TNat, "Int": types.TInt,
		"Ratio": types.TRatio, "Float": types.TFloat, "Str": types.TStr, "Obj": types.TObj,
	} {
		ctx.Declare(name, &types.Binding{Type: t, Kind: types.BindDefined})
	}
	return &session{ctx: ctx, oracle: oracle, ins: ins, uni: uni, reg: registrar.New(ins, uni)}
}

func runDemo(cfg *config.Config) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Println(bold("typecore type-inference demo"))
	fmt.Println(bold("============================="))
	fmt.Println()

	demoPrimitiveSubtyping(newSession(cfg))
	demoGenericIdentity(newSession(cfg))
	demoStructuralMatch(newSession(cfg))
	demoCallResolution(newSession(cfg))
	demoSubclassNominal(newSession(cfg))
}
