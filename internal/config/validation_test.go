// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"testing"

	"github.com/ManuGH/keymatrix/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Keyboard)
		want   string
	}{
		{"rows", func(k *Keyboard) { k.Matrix.Rows = 17 },
			"validation failed for matrix.rows: value must be between 1 and 16, got 17"},
		{"cols", func(k *Keyboard) { k.Matrix.Cols = 0 },
			"validation failed for matrix.cols: value must be between 1 and 16, got 0"},
		{"channel", func(k *Keyboard) { k.MIDI.Channel = 16 },
			"validation failed for midi.channel: value must be between 0 and 15, got 16"},
		{"velocity", func(k *Keyboard) { k.MIDI.Velocity = -1 },
			"validation failed for midi.velocity: value must be between 0 and 127, got -1"},
		{"starting note", func(k *Keyboard) { k.MIDI.StartingNote = 128 },
			"validation failed for midi.startingNote: value must be between 0 and 127, got 128"},
		{"thresholds", func(k *Keyboard) { k.Thresholds.Press, k.Thresholds.NoPress = 1000, 87 },
			"validation failed for thresholds.press: must be less than thresholds.noPress (1000 >= 87)"},
		{"scan delay", func(k *Keyboard) { k.Timing.ScanDelayMicros = -1 },
			"validation failed for timing.scanDelayMicros: value cannot be negative, got -1"},
		{"empty row pin", func(k *Keyboard) { k.Pins.Rows[2] = "" },
			"validation failed for pins.rows[2]: value cannot be empty"},
		{"malformed row pin", func(k *Keyboard) { k.Pins.Rows[0] = "A0 + 1" },
			`validation failed for pins.rows[0]: value must be a pin number or identifier such as A0, got "A0 + 1"`},
		{"preset", func(k *Keyboard) { k.Preset = "organ" },
			`validation failed for preset: value must be one of [none piano bass drums chromatic], got "organ"`},
	}

	seen := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Defaults()
			tt.mutate(&k)

			err := Validate(k)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())

			var verr validate.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Errors(), 1)
			assert.False(t, seen[verr.Errors()[0].Field], "diagnostics must be distinct per constraint")
			seen[verr.Errors()[0].Field] = true
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(Defaults()))
}

func TestValidate_ScanDelayIsNotRangeChecked(t *testing.T) {
	k := Defaults()
	k.Timing.ScanDelayMicros = 5_000_000
	assert.NoError(t, Validate(k))

	k.Timing.ScanDelayMicros = 0
	assert.NoError(t, Validate(k))
}

func TestValidate_RowPinNames(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		wantErr bool
	}{
		{"analog", "A3", false},
		{"digital number", "14", false},
		{"identifier", "PIN_A7", false},
		{"empty", "", true},
		{"blank", "  ", true},
		{"leading digit identifier", "3A", true},
		{"brace", "A3}", true},
		{"newline", "A3\n", true},
		{"preprocessor injection", "A3};\n#undef MIDI_CHANNEL\n#define MIDI_CHANNEL 99\nconst int X[1] = {0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Defaults()
			k.Pins.Rows[3] = tt.pin

			err := Validate(k)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr validate.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Errors(), 1)
			assert.Equal(t, RowPinField(3), verr.Errors()[0].Field)
		})
	}
}

func TestValidate_EveryPresetIsAccepted(t *testing.T) {
	for _, p := range append([]Preset{PresetNone}, Presets...) {
		k := Defaults()
		k.Preset = p
		assert.NoError(t, Validate(k), p.String())
	}
}

func TestValidate_PinLayoutIsNotChecked(t *testing.T) {
	k := Defaults()
	k.Pins.Rows = nil
	k.Pins.FirstColumn, k.Pins.LastColumn = 20, 3
	assert.NoError(t, Validate(k))
}
