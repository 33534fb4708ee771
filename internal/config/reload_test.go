// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"
)

// writeKeyboardFile writes a keyboard config with the given rows and preset.
func writeKeyboardFile(t *testing.T, path string, rows int, preset string) {
	t.Helper()
	cfg := map[string]interface{}{
		"matrix": map[string]interface{}{"rows": rows, "cols": 8},
		"pins":   map[string]interface{}{"rows": []string{"A0", "A1", "A2", "A3"}[:min(rows, 4)]},
	}
	if preset != "" {
		cfg["preset"] = preset
	}
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func newTestHolder(t *testing.T, path string) *Holder {
	t.Helper()
	loader := NewLoader(path, "test")
	initial, err := loader.Load()
	require.NoError(t, err)
	return NewHolder(initial, loader, path)
}

func TestHolder_Get(t *testing.T) {
	h := NewHolder(Defaults(), NewLoader("", "test"), "")
	got := h.Get()
	assert.Equal(t, Defaults(), got)

	got.Pins.Rows[0] = "A9"
	assert.Equal(t, "A0", h.Get().Pins.Rows[0], "Get returns a copy")
}

func TestHolder_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyboard.yaml")
	writeKeyboardFile(t, path, 4, "")
	h := newTestHolder(t, path)

	ch := make(chan Keyboard, 1)
	h.RegisterListener(ch)

	writeKeyboardFile(t, path, 2, "bass")
	require.NoError(t, h.Reload(context.Background()))

	got := h.Get()
	assert.Equal(t, 2, got.Matrix.Rows)
	assert.Equal(t, PresetBass, got.Preset)

	select {
	case k := <-ch:
		assert.Equal(t, 2, k.Matrix.Rows)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolder_ReloadKeepsPreviousOnInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyboard.yaml")
	writeKeyboardFile(t, path, 4, "drums")
	h := newTestHolder(t, path)

	ch := make(chan Keyboard, 1)
	h.RegisterListener(ch)

	writeKeyboardFile(t, path, 17, "")
	err := h.Reload(context.Background())
	require.ErrorIs(t, err, ErrInvalidConfig)

	got := h.Get()
	assert.Equal(t, 4, got.Matrix.Rows)
	assert.Equal(t, PresetDrums, got.Preset)
	assert.Len(t, ch, 0, "rejected reloads are not broadcast")
}

func TestHolder_FullListenerDoesNotBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyboard.yaml")
	writeKeyboardFile(t, path, 4, "")
	h := newTestHolder(t, path)

	ch := make(chan Keyboard) // unbuffered, nobody reading
	h.RegisterListener(ch)

	done := make(chan error, 1)
	go func() { done <- h.Reload(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Reload blocked on a full listener")
	}
}

func TestHolder_WatcherDisabledWithoutPath(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := NewHolder(Defaults(), NewLoader("", "test"), "")
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}

func TestHolder_WatcherMissingFile(t *testing.T) {
	h := NewHolder(Defaults(), NewLoader("", "test"), filepath.Join(t.TempDir(), "missing.yaml"))
	err := h.StartWatcher(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch config file")
}

func TestHolder_WatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "keyboard.yaml")
	writeKeyboardFile(t, path, 4, "")
	h := newTestHolder(t, path)
	h.debounce = 20 * time.Millisecond

	ch := make(chan Keyboard, 4)
	h.RegisterListener(ch)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))

	writeKeyboardFile(t, path, 3, "chromatic")

	select {
	case k := <-ch:
		assert.Equal(t, 3, k.Matrix.Rows)
		assert.Equal(t, PresetChromatic, k.Preset)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the configuration")
	}

	cancel()
	h.Stop()
}

func TestHolder_StopWithoutCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "keyboard.yaml")
	writeKeyboardFile(t, path, 4, "")
	h := newTestHolder(t, path)

	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}
