// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// configgen renders a keymatrix YAML configuration into the firmware's config.h.
//
// Usage:
//
//	configgen -f keyboard.yaml -o sketch/config.h
//	configgen -f keyboard.yaml -o sketch/config.h -watch
//
// With -watch the header is regenerated every time the YAML file changes and
// still validates; an invalid edit leaves the last good header in place. The
// watch ends with an error when the header can no longer be written.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/keymatrix/internal/config"
	"github.com/ManuGH/keymatrix/internal/header"
	kmlog "github.com/ManuGH/keymatrix/internal/log"
	"github.com/ManuGH/keymatrix/internal/validate"
	"github.com/ManuGH/keymatrix/internal/version"
	"golang.org/x/sync/errgroup"
)

type options struct {
	file   string
	out    string
	preset string
	watch  bool
	level  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("configgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var showVersion bool
	fs.StringVar(&opts.file, "f", "", "path to YAML configuration file (defaults and KEYMATRIX_* env only when empty)")
	fs.StringVar(&opts.out, "o", "config.h", "header file to write, - for stdout")
	fs.StringVar(&opts.preset, "preset", "", "force a preset (none, piano, bass, drums, chromatic)")
	fs.BoolVar(&opts.watch, "watch", false, "regenerate whenever the configuration file changes")
	fs.StringVar(&opts.level, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}
	if opts.watch && (opts.file == "" || opts.out == "-") {
		fmt.Fprintln(stderr, "configgen: -watch needs -f and a file for -o")
		return 2
	}

	level, err := validate.ParseLogLevel(opts.level)
	if err != nil {
		fmt.Fprintf(stderr, "configgen: %v\n", err)
		return 2
	}
	kmlog.Configure(kmlog.Config{Level: level.String(), Output: stderr, Service: "configgen"})

	loader := config.NewLoader(opts.file, version.Version)
	if opts.preset != "" {
		p, err := config.ParsePreset(opts.preset)
		if err != nil {
			fmt.Fprintf(stderr, "configgen: %v\n", err)
			return 2
		}
		loader.OverridePreset(p)
	}

	if err := generate(ctx, loader, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "configgen: %v\n", err)
		return 1
	}
	return 0
}

func generate(ctx context.Context, loader *config.Loader, opts options, stdout io.Writer) error {
	ctx = kmlog.ContextWithSource(ctx, opts.file)
	logger := kmlog.WithComponentFromContext(ctx, "configgen")
	ctx = logger.WithContext(ctx)

	k, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.file, err)
	}

	if opts.out == "-" {
		return header.Render(stdout, k)
	}
	if err := header.WriteFile(ctx, opts.out, k); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	holder := config.NewHolder(k, loader, opts.file)
	updates := make(chan config.Keyboard, 1)
	holder.RegisterListener(updates)

	// The watcher and the writer share one lifetime: a failed watcher or a
	// header that can no longer be written ends the watch.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := holder.StartWatcher(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		holder.Stop()
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case next := <-updates:
				if err := header.WriteFile(gctx, opts.out, next); err != nil {
					logger.Error().Err(err).Str(kmlog.FieldEvent, "header.write_failed").Msg("regenerate header")
					return fmt.Errorf("regenerate %s: %w", opts.out, err)
				}
			}
		}
	})

	logger.Info().Str(kmlog.FieldEvent, "configgen.watching").Str(kmlog.FieldPath, opts.file).Msg("waiting for changes")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
