// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
)

// Preset selects a bundle of overrides for a common instrument layout.
// A Keyboard carries at most one preset; the zero value is PresetNone.
type Preset string

const (
	PresetNone      Preset = ""
	PresetPiano     Preset = "piano"     // two octaves from middle C
	PresetBass      Preset = "bass"      // low notes, loud
	PresetDrums     Preset = "drums"     // General MIDI percussion from Acoustic Bass Drum
	PresetChromatic Preset = "chromatic" // one octave from C3
)

// Presets lists the selectable presets in the order they are documented.
var Presets = []Preset{PresetPiano, PresetBass, PresetDrums, PresetChromatic}

// percussionChannel is MIDI channel 10, 0-based.
const percussionChannel = 9

// ParsePreset maps a preset name to a Preset. Empty and "none" select no preset.
func ParsePreset(name string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(name))); p {
	case PresetNone, "none":
		return PresetNone, nil
	case PresetPiano, PresetBass, PresetDrums, PresetChromatic:
		return p, nil
	default:
		return PresetNone, fmt.Errorf("%w %q (want one of none, piano, bass, drums, chromatic)", ErrUnknownPreset, name)
	}
}

func (p Preset) String() string {
	if p == PresetNone {
		return "none"
	}
	return string(p)
}

// Apply returns k with the preset's overrides applied. Only starting note,
// velocity and, for drums, channel are touched.
func (p Preset) Apply(k Keyboard) Keyboard {
	switch p {
	case PresetPiano:
		k.MIDI.StartingNote = 60 // C4
		k.MIDI.Velocity = 100
	case PresetBass:
		k.MIDI.StartingNote = 36 // C2
		k.MIDI.Velocity = 127
	case PresetDrums:
		k.MIDI.StartingNote = 35
		k.MIDI.Channel = percussionChannel
		k.MIDI.Velocity = 127
	case PresetChromatic:
		k.MIDI.StartingNote = 48 // C3
		k.MIDI.Velocity = 90
	default:
		return k
	}
	k.Preset = p
	return k
}

// ApplyPresets applies presets in argument order. Each preset overwrites the
// fields it touches, so the last one wins per field while a field only an
// earlier preset touched keeps that value: drums then piano keeps channel 9.
// Keyboard.Preset names the last preset that changed anything.
func ApplyPresets(k Keyboard, presets ...Preset) Keyboard {
	for _, p := range presets {
		k = p.Apply(k)
	}
	return k
}
