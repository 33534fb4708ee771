// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package keymap assigns MIDI notes to matrix keys and interprets analog row
// readings, using a resolved config.Keyboard.
package keymap

import (
	"errors"
	"fmt"

	"github.com/ManuGH/keymatrix/internal/config"
	"gitlab.com/gomidi/midi/v2"
)

var (
	ErrKeyOutOfRange  = errors.New("key outside matrix")
	ErrNoteOutOfRange = errors.New("note outside MIDI range")
)

// KeyState is the classification of one analog row reading.
type KeyState int

const (
	NoContact KeyState = iota // at or below the press threshold
	KeyDown                   // above press, up to and including no-press
	KeyUp                     // above no-press
)

func (s KeyState) String() string {
	switch s {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	default:
		return "no-contact"
	}
}

// Key is a matrix position.
type Key struct {
	Row int
	Col int
}

// Assignment is a key together with the note it plays.
type Assignment struct {
	Key
	Note uint8
	Name string
}

// Layout is an immutable view of a keyboard's key to note mapping.
type Layout struct {
	kb config.Keyboard
}

// New builds a layout. k should come from config.Builder.Build or
// config.Loader.Load; New itself does not validate.
func New(k config.Keyboard) *Layout {
	return &Layout{kb: k.Clone()}
}

// Keyboard returns the configuration the layout was built from.
func (l *Layout) Keyboard() config.Keyboard {
	return l.kb.Clone()
}

// Index returns the scan order position of a key: rows are scanned in
// order and keys increment by column within a row.
func (l *Layout) Index(row, col int) (int, error) {
	m := l.kb.Matrix
	if row < 0 || row >= m.Rows || col < 0 || col >= m.Cols {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrKeyOutOfRange, row, col, m.Rows, m.Cols)
	}
	return row*m.Cols + col, nil
}

// Note returns the note played by the key at row, col.
func (l *Layout) Note(row, col int) (uint8, error) {
	idx, err := l.Index(row, col)
	if err != nil {
		return 0, err
	}
	n := l.kb.MIDI.StartingNote + idx
	if n < 0 || n > config.MaxMIDIValue {
		return 0, fmt.Errorf("%w: key (%d,%d) maps to %d", ErrNoteOutOfRange, row, col, n)
	}
	return uint8(n), nil
}

// KeyForNote is the inverse of Note.
func (l *Layout) KeyForNote(note uint8) (Key, bool) {
	idx := int(note) - l.kb.MIDI.StartingNote
	if idx < 0 || idx >= l.kb.Keys() {
		return Key{}, false
	}
	return Key{Row: idx / l.kb.Matrix.Cols, Col: idx % l.kb.Matrix.Cols}, true
}

// NoteOn builds the note on message for a key.
func (l *Layout) NoteOn(row, col int) (midi.Message, error) {
	n, err := l.Note(row, col)
	if err != nil {
		return nil, err
	}
	return midi.NoteOn(l.channel(), n, l.velocity()), nil
}

// NoteOff builds the note off message for a key. The release velocity is the
// configured velocity, like the note on.
func (l *Layout) NoteOff(row, col int) (midi.Message, error) {
	n, err := l.Note(row, col)
	if err != nil {
		return nil, err
	}
	return midi.NoteOffVelocity(l.channel(), n, l.velocity()), nil
}

func (l *Layout) channel() uint8  { return uint8(l.kb.MIDI.Channel) }
func (l *Layout) velocity() uint8 { return uint8(l.kb.MIDI.Velocity) }

// Classify interprets a 10-bit reading of a row pin.
func (l *Layout) Classify(reading int) KeyState {
	t := l.kb.Thresholds
	switch {
	case reading > t.NoPress:
		return KeyUp
	case reading > t.Press:
		return KeyDown
	default:
		return NoContact
	}
}

// ColumnPins expands the contiguous column pin range. A reversed range
// yields no pins.
func (l *Layout) ColumnPins() []int {
	first, last := l.kb.Pins.FirstColumn, l.kb.Pins.LastColumn
	if last < first {
		return nil
	}
	pins := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		pins = append(pins, p)
	}
	return pins
}

// Assignments lists every key in scan order. Keys whose note would leave the
// MIDI range are skipped; config.Lint reports that situation.
func (l *Layout) Assignments() []Assignment {
	out := make([]Assignment, 0, l.kb.Keys())
	for r := 0; r < l.kb.Matrix.Rows; r++ {
		for c := 0; c < l.kb.Matrix.Cols; c++ {
			n, err := l.Note(r, c)
			if err != nil {
				continue
			}
			out = append(out, Assignment{Key: Key{Row: r, Col: c}, Note: n, Name: NoteName(n)})
		}
	}
	return out
}
