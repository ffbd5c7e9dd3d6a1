// Command ctb2json decodes a directory of AutoCAD plot style tables into JSON or YAML documents.
//
// Usage:
//
//	ctb2json [-config config.toml] [-in data] [-out output] [-format json|yaml] [-workers 4] [-log-level info]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bengarrett/plotstyle/internal/batch"
	"github.com/bengarrett/plotstyle/internal/config"
)

const app = "ctb2json"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := settings(args)
	if err != nil {
		return err
	}
	logger := batch.NewLogger(os.Stderr, app, cfg.LogLevel, cfg.NoColor)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := batch.Run(ctx, cfg, logger)
	logger.Info().
		Int("parsed", len(sum.Parsed)).
		Int("skipped", sum.Skipped()).
		Str("out", cfg.OutputDir).
		Msg("finished")
	return err
}

// settings loads the optional config file and applies any flags set on the command line.
func settings(args []string) (config.Config, error) {
	fset := flag.NewFlagSet(app, flag.ContinueOnError)
	path := fset.String("config", "", "path to a TOML config file")
	in := fset.String("in", "", "input directory of plot style files")
	out := fset.String("out", "", "output directory of the documents")
	format := fset.String("format", "", "output format, json or yaml")
	workers := fset.Int("workers", 0, "number of files to decode at once")
	level := fset.String("log-level", "", "log level, debug, info, warn or error")
	if err := fset.Parse(args); err != nil {
		return config.Config{}, err
	}
	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			return config.Config{}, err
		}
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.InputDir = *in
		case "out":
			cfg.OutputDir = *out
		case "format":
			cfg.Format = *format
		case "workers":
			cfg.Workers = *workers
		case "log-level":
			cfg.LogLevel = *level
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
