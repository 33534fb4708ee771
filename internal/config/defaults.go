// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// Base values used when neither the file nor the environment sets an option.
const (
	DefaultRows = 4
	DefaultCols = 8

	DefaultFirstColumnPin = 2
	DefaultLastColumnPin  = 9

	DefaultStartingNote = 52 // E3
	DefaultChannel      = 0
	DefaultVelocity     = 127

	DefaultNoPressThreshold = 1000
	DefaultPressThreshold   = 87

	DefaultScanDelayMicros = 100
)

// DefaultRowPins are the analog inputs of a 4-row matrix.
var DefaultRowPins = []string{"A0", "A1", "A2", "A3"}

// Defaults returns the base configuration with no preset applied.
func Defaults() Keyboard {
	return Keyboard{
		Preset: PresetNone,
		Matrix: Matrix{
			Rows: DefaultRows,
			Cols: DefaultCols,
		},
		Pins: Pins{
			FirstColumn: DefaultFirstColumnPin,
			LastColumn:  DefaultLastColumnPin,
			Rows:        append([]string(nil), DefaultRowPins...),
		},
		MIDI: MIDI{
			StartingNote: DefaultStartingNote,
			Channel:      DefaultChannel,
			Velocity:     DefaultVelocity,
		},
		Thresholds: Thresholds{
			Press:   DefaultPressThreshold,
			NoPress: DefaultNoPressThreshold,
		},
		Timing: Timing{
			ScanDelayMicros: DefaultScanDelayMicros,
		},
	}
}
