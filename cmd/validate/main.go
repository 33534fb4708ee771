// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// SPDX-License-Identifier: MIT

// validate is a CLI tool to validate keymatrix YAML configuration files.
//
// Usage:
//
//	validate -f keyboard.yaml
//	validate --file keyboard.yaml --preset drums --keys
//
// Exit codes:
//   - 0: Configuration is valid (warnings are printed but do not fail)
//   - 1: Configuration is invalid (parse or validation error)
//   - 2: Usage error (missing required flag, unknown preset or log level)
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/keymatrix/internal/config"
	"github.com/ManuGH/keymatrix/internal/keymap"
	kmlog "github.com/ManuGH/keymatrix/internal/log"
	"github.com/ManuGH/keymatrix/internal/validate"
	"github.com/ManuGH/keymatrix/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file, presetName, logLevel string
	var showVersion, showKeys bool

	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&presetName, "preset", "", "force a preset (none, piano, bass, drums, chromatic)")
	fs.BoolVar(&showKeys, "keys", false, "print the note assigned to every key")
	fs.StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	if file == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  validate -f keyboard.yaml")
		fmt.Fprintln(stderr, "  validate --file keyboard.yaml")
		return 2
	}

	level, err := validate.ParseLogLevel(logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	kmlog.Configure(kmlog.Config{Level: level.String(), Output: stderr, Service: "validate"})

	loader := config.NewLoader(file, version.Version)
	if presetName != "" {
		p, err := config.ParsePreset(presetName)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		loader.OverridePreset(p)
	}

	k, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n", file)
		var verr validate.ValidationError
		if !errors.As(err, &verr) {
			fmt.Fprintf(stderr, "  %v\n", err)
			return 1
		}
		for _, e := range verr.Errors() {
			fmt.Fprintf(stderr, "  - %s: %s%s\n", e.Field, e.Message, envHint(e.Field))
		}
		return 1
	}

	for _, w := range loader.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	fmt.Fprintf(stdout, "✓ %s is valid (%dx%d, preset %s, channel %d, velocity %d)\n",
		file, k.Matrix.Rows, k.Matrix.Cols, k.Preset, k.MIDI.Channel+1, k.MIDI.Velocity)

	if showKeys {
		for _, a := range keymap.New(k).Assignments() {
			fmt.Fprintf(stdout, "  row %2d col %2d  note %3d  %s\n", a.Row, a.Col, a.Note, a.Name)
		}
	}
	return 0
}

// envHint names the environment variable that can also set field.
func envHint(field string) string {
	path, _, _ := strings.Cut(field, "[")
	reg, err := config.GetRegistry()
	if err != nil {
		return ""
	}
	if e, ok := reg.ByPath[path]; ok && e.Env != "" {
		return fmt.Sprintf(" (env %s)", e.Env)
	}
	return ""
}
