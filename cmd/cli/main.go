package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"wikirace-go-solver/internal/app"
	"wikirace-go-solver/internal/config"
	"wikirace-go-solver/pkg/logger"
)

// globals carries the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	logJSON    bool
	workers    int
	maxExp     int
	cacheDir   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "wikirace",
		Short:         "Find the shortest link path between two Wikipedia articles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "TOML config file")
	pf.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&g.logJSON, "log-json", false, "emit JSON logs")
	pf.IntVar(&g.workers, "workers", 0, "concurrent expansions per search level")
	pf.IntVar(&g.maxExp, "max-expansions", 0, "expansion budget per search")
	pf.StringVar(&g.cacheDir, "cache-dir", "", "page cache directory")

	root.AddCommand(newSolveCmd(g), newBatchCmd(g))
	return root
}

// load resolves config (file, env, then flags) and builds the solver stack.
func (g *globals) load(cmd *cobra.Command, verbose bool) (*app.App, *logger.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = g.logJSON
	}
	if g.workers > 0 {
		cfg.Workers = g.workers
	}
	if g.maxExp > 0 {
		cfg.MaxExpansions = g.maxExp
	}
	if g.cacheDir != "" {
		cfg.CacheDir = g.cacheDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	l := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, Writer: cmd.ErrOrStderr()})
	a, err := app.New(cfg, l, prometheus.NewRegistry(), verbose)
	if err != nil {
		return nil, nil, err
	}
	return a, l, nil
}
