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

// violations unwraps the field names reported by a Build error.
func violations(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidConfig)
	var verr validate.ValidationError
	require.True(t, errors.As(err, &verr), "error %v does not wrap a ValidationError", err)
	fields := make([]string, 0, len(verr.Errors()))
	for _, e := range verr.Errors() {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestBuild_Defaults(t *testing.T) {
	k, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, 4, k.Matrix.Rows)
	assert.Equal(t, 8, k.Matrix.Cols)
	assert.Equal(t, 2, k.Pins.FirstColumn)
	assert.Equal(t, 9, k.Pins.LastColumn)
	assert.Equal(t, []string{"A0", "A1", "A2", "A3"}, k.Pins.Rows)
	assert.Equal(t, 52, k.MIDI.StartingNote)
	assert.Equal(t, 0, k.MIDI.Channel)
	assert.Equal(t, 127, k.MIDI.Velocity)
	assert.Equal(t, 87, k.Thresholds.Press)
	assert.Equal(t, 1000, k.Thresholds.NoPress)
	assert.Equal(t, 100, k.Timing.ScanDelayMicros)
	assert.Equal(t, PresetNone, k.Preset)
	assert.Empty(t, Lint(k), "defaults must be lint clean")
}

func TestBuild_MatrixBounds(t *testing.T) {
	for n := -1; n <= 18; n++ {
		want := n >= 1 && n <= 16

		_, err := NewBuilder().WithMatrix(n, 8).Build()
		assert.Equal(t, want, err == nil, "rows=%d err=%v", n, err)
		if !want {
			assert.Equal(t, []string{FieldRows}, violations(t, err))
		}

		_, err = NewBuilder().WithMatrix(4, n).Build()
		assert.Equal(t, want, err == nil, "cols=%d err=%v", n, err)
		if !want {
			assert.Equal(t, []string{FieldCols}, violations(t, err))
		}
	}
}

func TestBuild_ChannelBounds(t *testing.T) {
	for ch := -2; ch <= 17; ch++ {
		_, err := NewBuilder().WithChannel(ch).Build()
		want := ch >= 0 && ch <= 15
		assert.Equal(t, want, err == nil, "channel=%d err=%v", ch, err)
		if !want {
			assert.Equal(t, []string{FieldChannel}, violations(t, err))
		}
	}
}

func TestBuild_VelocityAndNoteBounds(t *testing.T) {
	for _, v := range []int{-1, 0, 1, 64, 126, 127, 128, 255} {
		want := v >= 0 && v <= 127

		_, err := NewBuilder().WithVelocity(v).Build()
		assert.Equal(t, want, err == nil, "velocity=%d", v)
		if !want {
			assert.Equal(t, []string{FieldVelocity}, violations(t, err))
		}

		// one row of one key keeps the lint note-range warning out of the way
		_, err = NewBuilder().WithMatrix(1, 1).WithStartingNote(v).Build()
		assert.Equal(t, want, err == nil, "note=%d", v)
		if !want {
			assert.Equal(t, []string{FieldStartingNote}, violations(t, err))
		}
	}
}

func TestBuild_ThresholdOrdering(t *testing.T) {
	tests := []struct {
		press, noPress int
		want           bool
	}{
		{87, 1000, true},
		{0, 1, true},
		{-50, -10, true},
		{5000, 6000, true},
		{1000, 87, false},
		{500, 500, false},
		{1, 0, false},
	}

	for _, tt := range tests {
		_, err := NewBuilder().WithThresholds(tt.press, tt.noPress).Build()
		assert.Equal(t, tt.want, err == nil, "press=%d noPress=%d", tt.press, tt.noPress)
	}
}

func TestBuild_PressAboveNoPressDiagnostic(t *testing.T) {
	_, err := NewBuilder().WithThresholds(1000, 87).Build()
	assert.Equal(t, []string{FieldPressThreshold}, violations(t, err))
	assert.Contains(t, err.Error(), "thresholds.press: must be less than thresholds.noPress")
}

func TestBuild_ChannelSixteenDiagnostic(t *testing.T) {
	_, err := NewBuilder().WithChannel(16).Build()
	assert.Equal(t, []string{FieldChannel}, violations(t, err))
	assert.Contains(t, err.Error(), "midi.channel: value must be between 0 and 15, got 16")
}

func TestBuild_ReportsEveryViolation(t *testing.T) {
	k, err := NewBuilder().
		WithMatrix(0, 17).
		WithChannel(16).
		WithVelocity(128).
		WithStartingNote(-1).
		WithThresholds(10, 10).
		WithScanDelay(-5).
		Build()

	assert.Equal(t, []string{
		FieldRows, FieldCols, FieldChannel, FieldVelocity,
		FieldStartingNote, FieldPressThreshold, FieldScanDelayMicros,
	}, violations(t, err))
	assert.Equal(t, 16, k.MIDI.Channel, "the rejected value is still returned for diagnostics")
}

func TestBuild_DrumsPreset(t *testing.T) {
	k, err := NewBuilder().WithPreset(PresetDrums).Build()
	require.NoError(t, err)

	assert.Equal(t, PresetDrums, k.Preset)
	assert.Equal(t, 9, k.MIDI.Channel)
	assert.Equal(t, 127, k.MIDI.Velocity)
	assert.Equal(t, 35, k.MIDI.StartingNote)
}

func TestBuild_PresetWinsOverExplicitValues(t *testing.T) {
	k, err := NewBuilder().
		WithStartingNote(70).
		WithVelocity(5).
		WithChannel(2).
		WithPreset(PresetPiano).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 60, k.MIDI.StartingNote)
	assert.Equal(t, 100, k.MIDI.Velocity)
	assert.Equal(t, 2, k.MIDI.Channel, "piano does not touch the channel")
}

func TestBuild_LastPresetSelectionWins(t *testing.T) {
	k, err := NewBuilder().WithPreset(PresetDrums).WithPreset(PresetChromatic).Build()
	require.NoError(t, err)

	assert.Equal(t, PresetChromatic, k.Preset)
	assert.Equal(t, 48, k.MIDI.StartingNote)
	assert.Equal(t, 90, k.MIDI.Velocity)
	assert.Equal(t, 0, k.MIDI.Channel, "a replaced selection leaves nothing behind")
}

func TestBuild_PresetCannotRescueInvalidBase(t *testing.T) {
	_, err := NewBuilder().WithMatrix(0, 8).WithPreset(PresetBass).Build()
	assert.Equal(t, []string{FieldRows}, violations(t, err))
}

func TestBuild_PresetFixesOutOfRangeVelocity(t *testing.T) {
	// validation inspects the final resolved values, after the overlay
	k, err := NewBuilder().WithVelocity(500).WithPreset(PresetBass).Build()
	require.NoError(t, err)
	assert.Equal(t, 127, k.MIDI.Velocity)
}

func TestBuilder_IsolatesRowPins(t *testing.T) {
	pins := []string{"A0", "A1"}
	b := NewBuilder().WithMatrix(2, 8).WithRowPins(pins...)
	pins[0] = "A7"

	k, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"A0", "A1"}, k.Pins.Rows)

	k.Pins.Rows[1] = "A6"
	again, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"A0", "A1"}, again.Pins.Rows)
}

func TestBuilderFrom_KeepsPresetSelection(t *testing.T) {
	base := Defaults()
	base.Preset = PresetBass
	base.MIDI.StartingNote = 90

	k, err := BuilderFrom(base).Build()
	require.NoError(t, err)
	assert.Equal(t, PresetBass, k.Preset)
	assert.Equal(t, 36, k.MIDI.StartingNote)
}

func TestBuild_UncheckedPinInvariants(t *testing.T) {
	// Row pin count and column pin width are not enforced: the build
	// succeeds and the mismatch only shows up as lint warnings.
	k, err := NewBuilder().
		WithMatrix(6, 4).
		WithRowPins("A0", "A1").
		WithColumnPins(2, 9).
		Build()
	require.NoError(t, err)

	fields := make([]string, 0)
	for _, w := range Lint(k) {
		fields = append(fields, w.Field)
	}
	assert.Contains(t, fields, FieldRowPins)
	assert.Contains(t, fields, FieldLastColumnPin)
}

func TestBuild_RejectsRowPinThatIsNotAnIdentifier(t *testing.T) {
	k, err := NewBuilder().
		WithRowPins("A0", "A1", "A2", "A3};\n#undef MIDI_CHANNEL\n#define MIDI_CHANNEL 99\nconst int X[1] = {0").
		Build()
	assert.Equal(t, []string{RowPinField(3)}, violations(t, err))
	assert.Len(t, k.Pins.Rows, 4, "the resolved value is still returned")
}

func TestKeyboard_Helpers(t *testing.T) {
	k := Defaults()
	assert.Equal(t, 32, k.Keys())
	assert.Equal(t, 8, k.ColumnPinCount())
	assert.Equal(t, "100µs", k.ScanDelay().String())
}
