// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package header renders a resolved keyboard configuration as the firmware's
// config.h.
package header

import (
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/keymatrix/internal/config"
)

const guard = "CONFIG_H"

// Render writes config.h for k. Invalid configurations are refused so the
// firmware build never sees a value that failed validation.
func Render(w io.Writer, k config.Keyboard) error {
	if err := config.Validate(k); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	reg, err := config.GetRegistry()
	if err != nil {
		return fmt.Errorf("get registry: %w", err)
	}

	var b strings.Builder
	writePreamble(&b, k)

	for _, e := range reg.Entries {
		switch e.Kind {
		case config.KindDefine:
			writeDoc(&b, e.Doc)
			fmt.Fprintf(&b, "#define %s %s\n\n", e.Macro, e.Value(k))
		case config.KindPinArray:
			writeDoc(&b, e.Doc)
			fmt.Fprintf(&b, "const int %s[NUM_ROWS] = {%s};\n\n", e.Macro, e.Value(k))
		case config.KindSelector:
			if k.Preset == config.PresetNone {
				continue
			}
			writeDoc(&b, e.Doc+"\nValues above already include the preset.")
			fmt.Fprintf(&b, "#define %s_%s\n\n", e.Macro, strings.ToUpper(string(k.Preset)))
		}
	}

	writeGuards(&b)
	fmt.Fprintf(&b, "#endif // %s\n", guard)

	_, err = io.WriteString(w, b.String())
	return err
}

func writeDoc(b *strings.Builder, doc string) {
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		fmt.Fprintf(b, "// %s\n", line)
	}
}

func writePreamble(b *strings.Builder, k config.Keyboard) {
	version := k.Version
	if version == "" {
		version = "dev"
	}
	b.WriteString("/*\n")
	b.WriteString(" * Configuration File for Arduino MIDI Keyboard\n")
	b.WriteString(" *\n")
	fmt.Fprintf(b, " * Generated by keymatrix %s. Do not edit by hand: change the\n", version)
	b.WriteString(" * keymatrix configuration and regenerate, then re-upload the sketch.\n")
	b.WriteString(" */\n\n")
	fmt.Fprintf(b, "#ifndef %s\n#define %s\n\n", guard, guard)
}

// writeGuards repeats the validation as preprocessor checks so a hand-edited
// header still fails the firmware build.
func writeGuards(b *strings.Builder) {
	checks := []struct{ cond, msg string }{
		{fmt.Sprintf("NUM_ROWS < %d || NUM_ROWS > %d", config.MinMatrixSize, config.MaxMatrixSize),
			fmt.Sprintf("NUM_ROWS must be between %d and %d", config.MinMatrixSize, config.MaxMatrixSize)},
		{fmt.Sprintf("NUM_COLS < %d || NUM_COLS > %d", config.MinMatrixSize, config.MaxMatrixSize),
			fmt.Sprintf("NUM_COLS must be between %d and %d", config.MinMatrixSize, config.MaxMatrixSize)},
		{fmt.Sprintf("MIDI_CHANNEL < 0 || MIDI_CHANNEL > %d", config.MaxChannel),
			fmt.Sprintf("MIDI_CHANNEL must be between 0 and %d", config.MaxChannel)},
		{fmt.Sprintf("MIDI_VELOCITY < 0 || MIDI_VELOCITY > %d", config.MaxMIDIValue),
			fmt.Sprintf("MIDI_VELOCITY must be between 0 and %d", config.MaxMIDIValue)},
		{fmt.Sprintf("STARTING_MIDI_NOTE < 0 || STARTING_MIDI_NOTE > %d", config.MaxMIDIValue),
			fmt.Sprintf("STARTING_MIDI_NOTE must be between 0 and %d", config.MaxMIDIValue)},
		{"PRESS_THRESHOLD >= NO_PRESS_THRESHOLD",
			"PRESS_THRESHOLD must be less than NO_PRESS_THRESHOLD"},
	}

	b.WriteString("// Validation (DO NOT MODIFY)\n")
	for _, c := range checks {
		fmt.Fprintf(b, "#if %s\n  #error \"%s\"\n#endif\n\n", c.cond, c.msg)
	}
}
