// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"slices"
)

// Builder collects base values and a preset selection, then resolves them.
// Setters record base values only; the preset is applied on top in Build,
// so a preset always wins over an explicit note, velocity or channel.
type Builder struct {
	base   Keyboard
	preset Preset
}

// NewBuilder starts from Defaults.
func NewBuilder() *Builder {
	return &Builder{base: Defaults()}
}

// BuilderFrom starts from an existing base. The preset carried by base is
// kept as the selection.
func BuilderFrom(base Keyboard) *Builder {
	b := &Builder{base: base.Clone(), preset: base.Preset}
	b.base.Preset = PresetNone
	return b
}

func (b *Builder) WithMatrix(rows, cols int) *Builder {
	b.base.Matrix = Matrix{Rows: rows, Cols: cols}
	return b
}

func (b *Builder) WithColumnPins(first, last int) *Builder {
	b.base.Pins.FirstColumn = first
	b.base.Pins.LastColumn = last
	return b
}

func (b *Builder) WithRowPins(pins ...string) *Builder {
	b.base.Pins.Rows = slices.Clone(pins)
	return b
}

func (b *Builder) WithStartingNote(note int) *Builder {
	b.base.MIDI.StartingNote = note
	return b
}

func (b *Builder) WithChannel(channel int) *Builder {
	b.base.MIDI.Channel = channel
	return b
}

func (b *Builder) WithVelocity(velocity int) *Builder {
	b.base.MIDI.Velocity = velocity
	return b
}

func (b *Builder) WithThresholds(press, noPress int) *Builder {
	b.base.Thresholds = Thresholds{Press: press, NoPress: noPress}
	return b
}

func (b *Builder) WithScanDelay(micros int) *Builder {
	b.base.Timing.ScanDelayMicros = micros
	return b
}

func (b *Builder) WithVersion(version string) *Builder {
	b.base.Version = version
	return b
}

// WithPreset selects the preset. Calling it again replaces the selection;
// use ApplyPresets for stacked overlays.
func (b *Builder) WithPreset(p Preset) *Builder {
	b.preset = p
	return b
}

// Resolve applies the preset overlay without validating.
func (b *Builder) Resolve() Keyboard {
	return b.preset.Apply(b.base.Clone())
}

// Build resolves the configuration and validates it. On failure the resolved
// (invalid) value is returned along with an error wrapping ErrInvalidConfig
// and the validate.ValidationError listing every violation.
func (b *Builder) Build() (Keyboard, error) {
	k := b.Resolve()
	if err := Validate(k); err != nil {
		return k, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return k, nil
}
