// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"

	kmlog "github.com/ManuGH/keymatrix/internal/log"
	"github.com/rs/zerolog"
)

// Recommended ranges reported by Lint. None of them fail validation.
const (
	MinRecommendedScanDelayMicros = 10
	MaxRecommendedScanDelayMicros = 1000
	MaxADCReading                 = 1023
)

// Warning is a configuration smell that does not stop the build.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

// Lint reports implicit contracts the validator does not enforce: pin lists
// that disagree with the matrix shape, out-of-recommendation timing, readings
// outside the ADC range and keys whose note would exceed the MIDI range.
func Lint(k Keyboard) []Warning {
	var ws []Warning
	add := func(field, format string, args ...any) {
		ws = append(ws, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if n := len(k.Pins.Rows); n != k.Matrix.Rows {
		add(FieldRowPins, "%d row pins listed for %d rows", n, k.Matrix.Rows)
	}

	if k.Pins.LastColumn < k.Pins.FirstColumn {
		add(FieldLastColumnPin, "last column pin %d is below first column pin %d", k.Pins.LastColumn, k.Pins.FirstColumn)
	} else if w := k.ColumnPinCount(); w != k.Matrix.Cols {
		add(FieldLastColumnPin, "column pins %d-%d cover %d columns, matrix has %d",
			k.Pins.FirstColumn, k.Pins.LastColumn, w, k.Matrix.Cols)
	}

	if d := k.Timing.ScanDelayMicros; d >= 0 && (d < MinRecommendedScanDelayMicros || d > MaxRecommendedScanDelayMicros) {
		add(FieldScanDelayMicros, "%dus is outside the recommended %d-%dus",
			d, MinRecommendedScanDelayMicros, MaxRecommendedScanDelayMicros)
	}

	if p := k.Thresholds.Press; p < 0 || p > MaxADCReading {
		add(FieldPressThreshold, "%d is outside the 10-bit ADC range 0-%d", p, MaxADCReading)
	}
	if p := k.Thresholds.NoPress; p < 0 || p > MaxADCReading {
		add(FieldNoPressThreshold, "%d is outside the 10-bit ADC range 0-%d", p, MaxADCReading)
	}

	if keys := k.Keys(); keys > 0 {
		if top := k.MIDI.StartingNote + keys - 1; top > MaxMIDIValue {
			add(FieldStartingNote, "highest key would play note %d, above %d", top, MaxMIDIValue)
		}
	}

	return ws
}

// LogWarnings writes each warning to logger at warn level.
func LogWarnings(logger zerolog.Logger, ws []Warning) {
	for _, w := range ws {
		logger.Warn().
			Str(kmlog.FieldEvent, "config.lint").
			Str(kmlog.FieldField, w.Field).
			Msg(w.Message)
	}
}
