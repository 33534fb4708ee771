package keymap

import "strconv"

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI note in scientific pitch notation, with 60 as C4.
func NoteName(n uint8) string {
	return pitchClasses[n%12] + strconv.Itoa(int(n)/12-1)
}
