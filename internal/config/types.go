// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"slices"
	"time"
)

// Keyboard is the resolved keyboard configuration consumed by the firmware
// header generator and the key map. Treat it as a value: Clone before
// mutating the row pin slice.
type Keyboard struct {
	Version    string // version of the tool that resolved it
	Preset     Preset
	Matrix     Matrix
	Pins       Pins
	MIDI       MIDI
	Thresholds Thresholds
	Timing     Timing
}

// Matrix is the shape of the key matrix.
type Matrix struct {
	Rows int
	Cols int
}

// Pins maps the matrix onto microcontroller pins. Column pins form the
// contiguous range FirstColumn..LastColumn; Rows lists one analog pin per row.
type Pins struct {
	FirstColumn int
	LastColumn  int
	Rows        []string
}

// MIDI holds the parameters of the note messages sent for each key.
type MIDI struct {
	StartingNote int // note of the first key
	Channel      int // 0-based, 9 is the General MIDI percussion channel
	Velocity     int
}

// Thresholds are 10-bit ADC cutoffs for the resistor ladder.
type Thresholds struct {
	Press   int
	NoPress int
}

// Timing controls the scan loop.
type Timing struct {
	ScanDelayMicros int
}

// Clone returns a deep copy of k.
func (k Keyboard) Clone() Keyboard {
	k.Pins.Rows = slices.Clone(k.Pins.Rows)
	return k
}

// Keys returns the number of keys in the matrix.
func (k Keyboard) Keys() int {
	return k.Matrix.Rows * k.Matrix.Cols
}

// ScanDelay returns the scan delay as a duration.
func (k Keyboard) ScanDelay() time.Duration {
	return time.Duration(k.Timing.ScanDelayMicros) * time.Microsecond
}

// ColumnPinCount is the width of the column pin range.
func (k Keyboard) ColumnPinCount() int {
	return k.Pins.LastColumn - k.Pins.FirstColumn + 1
}

// FileConfig is the on-disk YAML representation. Pointer fields distinguish
// "absent" from an explicit zero so that a file never erases a default it
// does not mention.
type FileConfig struct {
	Preset     string          `yaml:"preset,omitempty"`
	Matrix     *MatrixFile     `yaml:"matrix,omitempty"`
	Pins       *PinsFile       `yaml:"pins,omitempty"`
	MIDI       *MIDIFile       `yaml:"midi,omitempty"`
	Thresholds *ThresholdsFile `yaml:"thresholds,omitempty"`
	Timing     *TimingFile     `yaml:"timing,omitempty"`
}

type MatrixFile struct {
	Rows *int `yaml:"rows,omitempty"`
	Cols *int `yaml:"cols,omitempty"`
}

type PinsFile struct {
	FirstColumn *int     `yaml:"firstColumn,omitempty"`
	LastColumn  *int     `yaml:"lastColumn,omitempty"`
	Rows        []string `yaml:"rows,omitempty"`
}

type MIDIFile struct {
	StartingNote *int `yaml:"startingNote,omitempty"`
	Channel      *int `yaml:"channel,omitempty"`
	Velocity     *int `yaml:"velocity,omitempty"`
}

type ThresholdsFile struct {
	Press   *int `yaml:"press,omitempty"`
	NoPress *int `yaml:"noPress,omitempty"`
}

type TimingFile struct {
	ScanDelayMicros *int `yaml:"scanDelayMicros,omitempty"`
}
