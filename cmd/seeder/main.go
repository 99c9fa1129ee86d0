// Command seeder loads terms from a word list and a CSV file into the word
// catalog with every gematria value precomputed. Run it offline; the server
// does not need to be up.
//
// Flags:
//
//	--phase          comma-separated phases: wordlist, csv (default: all)
//	--dry-run        parse and compute without writing
//	--skip-existing  leave terms already in the catalog untouched
//	--seeder-config  path to the seeder YAML file
//	--timeout        give up after this long (default 30m)
//
// A summary line per phase is printed to stdout. Exit code 1 means a phase
// failed or some terms were rejected.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/heartmarshall/gematria/internal/adapter/postgres"
	"github.com/heartmarshall/gematria/internal/adapter/postgres/word"
	"github.com/heartmarshall/gematria/internal/app"
	"github.com/heartmarshall/gematria/internal/app/seeder"
	"github.com/heartmarshall/gematria/internal/config"
	"github.com/heartmarshall/gematria/internal/gematria"
)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRun := flag.Bool("dry-run", false, "parse and compute without writing")
	skipExisting := flag.Bool("skip-existing", false, "skip terms already in the catalog")
	seederConfig := flag.String("seeder-config", "", "path to seeder YAML config file")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}
	logger := app.NewLogger(appCfg.Log, "seeder")

	cfg, err := seeder.LoadConfig(*seederConfig)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg.DryRun = cfg.DryRun || *dryRun
	cfg.SkipExisting = cfg.SkipExisting || *skipExisting

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	pipeline := seeder.NewPipeline(logger, word.New(pool, postgres.NewTxManager(pool)), gematria.New(appCfg.Engine.Options()...), *cfg)
	runErr := pipeline.Run(ctx, splitPhases(*phaseFlag))
	printSummary(pipeline.Results())

	if runErr != nil {
		logger.Error("pipeline failed", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
	if pipeline.HasErrors() {
		os.Exit(1)
	}
}

func splitPhases(s string) []string {
	var phases []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			phases = append(phases, p)
		}
	}
	return phases
}

func printSummary(results map[string]seeder.PhaseResult) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		r := results[name]
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Printf("%-9s read=%d computed=%d written=%d skipped=%d rejected=%d took=%s %s\n",
			name, r.Read, r.Computed, r.Inserted, r.Skipped, r.Errors, r.Duration.Round(time.Millisecond), status)
	}
}
