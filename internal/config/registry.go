// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Environment variables read by Loader.
const (
	EnvRows             = "KEYMATRIX_ROWS"
	EnvCols             = "KEYMATRIX_COLS"
	EnvFirstColumnPin   = "KEYMATRIX_FIRST_COL_PIN"
	EnvLastColumnPin    = "KEYMATRIX_LAST_COL_PIN"
	EnvRowPins          = "KEYMATRIX_ROW_PINS"
	EnvStartingNote     = "KEYMATRIX_STARTING_NOTE"
	EnvChannel          = "KEYMATRIX_CHANNEL"
	EnvVelocity         = "KEYMATRIX_VELOCITY"
	EnvPressThreshold   = "KEYMATRIX_PRESS_THRESHOLD"
	EnvNoPressThreshold = "KEYMATRIX_NO_PRESS_THRESHOLD"
	EnvScanDelayMicros  = "KEYMATRIX_SCAN_DELAY_US"
	EnvPreset           = "KEYMATRIX_PRESET"
)

// EntryKind says how an option is emitted into the firmware header.
type EntryKind int

const (
	KindDefine   EntryKind = iota // #define MACRO value
	KindPinArray                  // const int MACRO[NUM_ROWS] = {...};
	KindSelector                  // #define MACRO (flag, only when selected)
)

// ConfigEntry defines a single configuration option's metadata.
type ConfigEntry struct {
	Path    string // YAML path (e.g. "matrix.rows")
	Env     string // Environment variable (e.g. "KEYMATRIX_ROWS")
	Macro   string // C identifier in the generated header
	Kind    EntryKind
	Default any
	Doc     string // header comment, may span several lines
	Value   func(Keyboard) string
}

// Registry is the inventory of configuration options in header order.
type Registry struct {
	Entries []ConfigEntry
	ByPath  map[string]ConfigEntry
	ByEnv   map[string]ConfigEntry
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// GetRegistry returns the global configuration registry.
// It returns an error if the registry contains duplicates.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry(registryEntries())
	})
	return globalRegistry, globalRegistryErr
}

func itoa(f func(Keyboard) int) func(Keyboard) string {
	return func(k Keyboard) string { return strconv.Itoa(f(k)) }
}

func registryEntries() []ConfigEntry {
	return []ConfigEntry{
		// --- MATRIX ---
		{Path: FieldRows, Env: EnvRows, Macro: "NUM_ROWS", Default: DefaultRows,
			Doc:   "Number of matrix rows (1-16)",
			Value: itoa(func(k Keyboard) int { return k.Matrix.Rows })},
		{Path: FieldCols, Env: EnvCols, Macro: "NUM_COLS", Default: DefaultCols,
			Doc: "Number of matrix columns (1-16)\n" +
				"Default: 4 rows x 8 columns = 32 keys",
			Value: itoa(func(k Keyboard) int { return k.Matrix.Cols })},

		// --- PINS ---
		{Path: FieldFirstColumnPin, Env: EnvFirstColumnPin, Macro: "FIRST_COL_PIN", Default: DefaultFirstColumnPin,
			Doc: "First column pin (OUTPUT)\n" +
				"Column pins scan through the columns of the matrix",
			Value: itoa(func(k Keyboard) int { return k.Pins.FirstColumn })},
		{Path: FieldLastColumnPin, Env: EnvLastColumnPin, Macro: "LAST_COL_PIN", Default: DefaultLastColumnPin,
			Doc: "Last column pin (OUTPUT), range is contiguous\n" +
				"Default: pins 2-9 for an 8-column matrix",
			Value: itoa(func(k Keyboard) int { return k.Pins.LastColumn })},
		{Path: FieldRowPins, Env: EnvRowPins, Macro: "ROW_PINS", Kind: KindPinArray, Default: strings.Join(DefaultRowPins, ","),
			Doc: "Analog row pins (INPUT), one per row\n" +
				"These pins read the resistor matrix values",
			Value: func(k Keyboard) string { return strings.Join(k.Pins.Rows, ", ") }},

		// --- MIDI ---
		{Path: FieldStartingNote, Env: EnvStartingNote, Macro: "STARTING_MIDI_NOTE", Default: DefaultStartingNote,
			Doc: "Note number of the first key (0-127)\n" +
				"Common values:\n" +
				"  36 = C2 (bass)\n" +
				"  48 = C3 (low)\n" +
				"  52 = E3 (default)\n" +
				"  60 = C4 (middle C)\n" +
				"  72 = C5 (high)",
			Value: itoa(func(k Keyboard) int { return k.MIDI.StartingNote })},
		{Path: FieldChannel, Env: EnvChannel, Macro: "MIDI_CHANNEL", Default: DefaultChannel,
			Doc: "MIDI channel (0-15, 0 = MIDI channel 1)\n" +
				"Most MIDI software uses channel 1 (0 here)",
			Value: itoa(func(k Keyboard) int { return k.MIDI.Channel })},
		{Path: FieldVelocity, Env: EnvVelocity, Macro: "MIDI_VELOCITY", Default: DefaultVelocity,
			Doc: "Velocity for note on/off (0-127)\n" +
				"Higher values = louder notes\n" +
				"Common values:\n" +
				"  64 = medium\n" +
				"  100 = loud\n" +
				"  127 = maximum (default)",
			Value: itoa(func(k Keyboard) int { return k.MIDI.Velocity })},

		// --- THRESHOLDS ---
		{Path: FieldNoPressThreshold, Env: EnvNoPressThreshold, Macro: "NO_PRESS_THRESHOLD", Default: DefaultNoPressThreshold,
			Doc: "Readings above this mean no key is pressed in the row\n" +
				"Out of 1023 max for a 10-bit ADC\n" +
				"\n" +
				"Adjust if:\n" +
				"- Keys trigger when not pressed: INCREASE this value\n" +
				"- Keys don't release properly: DECREASE this value",
			Value: itoa(func(k Keyboard) int { return k.Thresholds.NoPress })},
		{Path: FieldPressThreshold, Env: EnvPressThreshold, Macro: "PRESS_THRESHOLD", Default: DefaultPressThreshold,
			Doc: "Readings above this (and up to NO_PRESS_THRESHOLD) mean a key press\n" +
				"\n" +
				"Adjust based on your resistor values:\n" +
				"- Lower value = more sensitive (may cause false triggers)\n" +
				"- Higher value = less sensitive (may miss light presses)",
			Value: itoa(func(k Keyboard) int { return k.Thresholds.Press })},

		// --- TIMING ---
		{Path: FieldScanDelayMicros, Env: EnvScanDelayMicros, Macro: "SCAN_DELAY_MICROSECONDS", Default: DefaultScanDelayMicros,
			Doc: "Delay between column scans in microseconds (10-1000 recommended)\n" +
				"Lower values scan faster, higher values use less CPU\n" +
				"\n" +
				"Adjust if:\n" +
				"- Keys miss presses: INCREASE this value\n" +
				"- Response feels sluggish: DECREASE this value",
			Value: itoa(func(k Keyboard) int { return k.Timing.ScanDelayMicros })},

		// --- PRESET ---
		{Path: FieldPreset, Env: EnvPreset, Macro: "PRESET", Kind: KindSelector, Default: PresetNone.String(),
			Doc:   "Instrument preset: none, piano, bass, drums, chromatic",
			Value: func(k Keyboard) string { return k.Preset.String() }},
	}
}

func buildRegistry(entries []ConfigEntry) (*Registry, error) {
	r := &Registry{
		Entries: entries,
		ByPath:  make(map[string]ConfigEntry, len(entries)),
		ByEnv:   make(map[string]ConfigEntry, len(entries)),
	}
	macros := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if _, ok := r.ByPath[e.Path]; ok {
			return nil, fmt.Errorf("duplicate registry path: %s", e.Path)
		}
		r.ByPath[e.Path] = e
		if e.Env != "" {
			if _, ok := r.ByEnv[e.Env]; ok {
				return nil, fmt.Errorf("duplicate registry env: %s", e.Env)
			}
			r.ByEnv[e.Env] = e
		}
		if _, ok := macros[e.Macro]; ok {
			return nil, fmt.Errorf("duplicate registry macro: %s", e.Macro)
		}
		macros[e.Macro] = struct{}{}
	}
	return r, nil
}

// Change is a single option that differs between two configurations.
type Change struct {
	Path string
	Old  string
	New  string
}

// Diff lists the options whose rendered values differ, in registry order.
func (r *Registry) Diff(old, next Keyboard) []Change {
	var changes []Change
	for _, e := range r.Entries {
		o, n := e.Value(old), e.Value(next)
		if o != n {
			changes = append(changes, Change{Path: e.Path, Old: o, New: n})
		}
	}
	return changes
}
