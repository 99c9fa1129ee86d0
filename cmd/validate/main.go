// Command validate checks the engine against a reference CSV of known
// values. The first column holds the term; every other column header names
// a method key and holds the expected value.
//
// Usage:
//
//	validate [--max-report N] reference.csv
//
// Exit codes: 0 = all values match, 1 = mismatch or error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/heartmarshall/gematria/internal/app"
	"github.com/heartmarshall/gematria/internal/app/validator"
	"github.com/heartmarshall/gematria/internal/config"
	"github.com/heartmarshall/gematria/internal/gematria"
)

func main() {
	maxReport := flag.Int("max-report", 50, "maximum mismatches and row errors printed")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: validate [--max-report N] reference.csv")
		os.Exit(1)
	}

	cfg, err := config.LoadOffline()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "validate")
	engine := gematria.New(cfg.Engine.Options()...)

	report, err := validator.New(logger, engine).ValidateFile(context.Background(), flag.Arg(0))
	if err != nil {
		logger.Error("validate", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printed := 0
	for _, m := range report.Mismatches {
		if printed >= *maxReport {
			break
		}
		fmt.Println(m.String())
		printed++
	}
	for _, e := range report.Errors {
		if printed >= *maxReport {
			break
		}
		fmt.Println(e.String())
		printed++
	}

	logger.Info("validation finished",
		slog.Int("rows", report.Rows),
		slog.Int("checked", report.Checked),
		slog.Int("matched", report.Matched),
		slog.Int("mismatches", len(report.Mismatches)),
		slog.Int("errors", len(report.Errors)),
		slog.Any("ignored_columns", report.IgnoredColumns),
	)

	if !report.OK() {
		os.Exit(1)
	}
}
