// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ManuGH/keymatrix/internal/validate"
)

// Field names used in validation errors, lint warnings and the registry.
const (
	FieldRows             = "matrix.rows"
	FieldCols             = "matrix.cols"
	FieldFirstColumnPin   = "pins.firstColumn"
	FieldLastColumnPin    = "pins.lastColumn"
	FieldRowPins          = "pins.rows"
	FieldStartingNote     = "midi.startingNote"
	FieldChannel          = "midi.channel"
	FieldVelocity         = "midi.velocity"
	FieldPressThreshold   = "thresholds.press"
	FieldNoPressThreshold = "thresholds.noPress"
	FieldScanDelayMicros  = "timing.scanDelayMicros"
	FieldPreset           = "preset"
)

// Limits enforced by Validate.
const (
	MinMatrixSize = 1
	MaxMatrixSize = 16
	MaxChannel    = 15
	MaxMIDIValue  = 127
)

// rowPinPattern accepts the forms a pin takes in an Arduino sketch: a plain
// number or a C identifier such as A0 or PIN_A3. Anything else would be
// pasted verbatim into the ROW_PINS initializer of the generated header.
var rowPinPattern = regexp.MustCompile(`^([0-9]+|[A-Za-z_][A-Za-z0-9_]*)$`)

// RowPinField names the validation field of the i-th row pin.
func RowPinField(i int) string {
	return fmt.Sprintf("%s[%d]", FieldRowPins, i)
}

func presetNames() []string {
	names := []string{PresetNone.String()}
	for _, p := range Presets {
		names = append(names, p.String())
	}
	return names
}

// Validate checks the resolved configuration. Every check runs; the returned
// validate.ValidationError lists all violations in a fixed order.
func Validate(k Keyboard) error {
	v := validate.New()

	v.Range(FieldRows, k.Matrix.Rows, MinMatrixSize, MaxMatrixSize)
	v.Range(FieldCols, k.Matrix.Cols, MinMatrixSize, MaxMatrixSize)

	v.Range(FieldChannel, k.MIDI.Channel, 0, MaxChannel)
	v.Range(FieldVelocity, k.MIDI.Velocity, 0, MaxMIDIValue)
	v.Range(FieldStartingNote, k.MIDI.StartingNote, 0, MaxMIDIValue)

	// Only the ordering is enforced; magnitudes are a lint concern.
	v.Less(FieldPressThreshold, k.Thresholds.Press, FieldNoPressThreshold, k.Thresholds.NoPress)

	v.NonNegative(FieldScanDelayMicros, k.Timing.ScanDelayMicros)

	// The pin count against the matrix is a lint concern; the names are not.
	for i, pin := range k.Pins.Rows {
		field := RowPinField(i)
		if strings.TrimSpace(pin) == "" {
			v.NotEmpty(field, pin)
			continue
		}
		v.Matches(field, pin, rowPinPattern, "a pin number or identifier such as A0")
	}

	v.OneOf(FieldPreset, k.Preset.String(), presetNames())

	if !v.IsValid() {
		return v.Err()
	}

	return nil
}
