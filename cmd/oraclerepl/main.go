// Command oraclerepl is the dedicated entry point for the interactive
// Subtype-Oracle/Unifier query console (internal/repl).
package main

import (
	"flag"
	"os"

	"github.com/veylang/typecore/internal/config"
	"github.com/veylang/typecore/internal/repl"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults used if omitted)")
	legacyVariance := flag.Bool("legacy-variance", false, "force legacy_mutable_ref_variance on, overriding the config file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	if *legacyVariance {
		cfg.Features.LegacyMutableRefVariance = true
	}

	r := repl.NewWithConfig(&repl.Config{LegacyMutableRefVariance: cfg.Features.LegacyMutableRefVariance}, "dev")
	r.Start(os.Stdin, os.Stdout)
}
