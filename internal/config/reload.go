// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	kmlog "github.com/ManuGH/keymatrix/internal/log"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultReloadDebounce collapses bursts of editor writes into one reload.
const DefaultReloadDebounce = 500 * time.Millisecond

// Holder holds the current Keyboard and replaces it atomically on reload.
// An invalid file never replaces a valid configuration.
type Holder struct {
	mu         sync.RWMutex
	current    Keyboard
	loader     *Loader
	configPath string
	watcher    *fsnotify.Watcher
	logger     zerolog.Logger
	debounce   time.Duration
	wg         sync.WaitGroup

	listenersMu sync.RWMutex
	listeners   []chan<- Keyboard
}

// NewHolder creates a holder with an already resolved initial configuration.
func NewHolder(initial Keyboard, loader *Loader, configPath string) *Holder {
	return &Holder{
		current:    initial.Clone(),
		loader:     loader,
		configPath: configPath,
		logger:     kmlog.WithComponent("config"),
		debounce:   DefaultReloadDebounce,
	}
}

// Get returns the current configuration.
func (h *Holder) Get() Keyboard {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Clone()
}

// Reload re-runs the loader. On error the previous configuration is kept.
func (h *Holder) Reload(ctx context.Context) error {
	logger := kmlog.WithContext(ctx, h.logger)
	logger.Info().Str(kmlog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	next, err := h.loader.Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str(kmlog.FieldEvent, "config.reload_failed").
			Msg("new configuration rejected, keeping previous one")
		return fmt.Errorf("load config: %w", err)
	}

	h.mu.Lock()
	old := h.current
	h.current = next.Clone()
	h.mu.Unlock()

	h.logChanges(logger, old, next)
	h.notifyListeners(next)

	logger.Info().
		Str(kmlog.FieldEvent, "config.reload_success").
		Str(kmlog.FieldPreset, next.Preset.String()).
		Msg("configuration reloaded successfully")
	return nil
}

// StartWatcher watches the config file and reloads on change until ctx is
// cancelled or Stop is called. An empty path is a no-op.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.configPath == "" {
		h.logger.Info().
			Str(kmlog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (no config file)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(h.configPath); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}
	h.watcher = watcher

	h.logger.Info().
		Str(kmlog.FieldEvent, "config.watcher_started").
		Str(kmlog.FieldPath, h.configPath).
		Msg("watching config file for changes")

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.watchLoop(ctx, watcher)
	}()
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(kmlog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			h.logger.Debug().
				Str(kmlog.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")
			if timer == nil {
				timer = time.NewTimer(h.debounce)
			} else {
				timer.Reset(h.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := h.Reload(ctx); err != nil {
				h.logger.Warn().
					Err(err).
					Str(kmlog.FieldEvent, "config.auto_reload_failed").
					Msg("automatic config reload failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(kmlog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop closes the watcher and waits for the watch goroutine to exit.
func (h *Holder) Stop() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
	h.wg.Wait()
}

// RegisterListener registers a channel that receives every accepted reload.
// Sends never block; a full channel misses the update.
func (h *Holder) RegisterListener(ch chan<- Keyboard) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notifyListeners(k Keyboard) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- k.Clone():
		default:
			h.logger.Warn().
				Str(kmlog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *Holder) logChanges(logger zerolog.Logger, old, next Keyboard) {
	reg, err := GetRegistry()
	if err != nil {
		return
	}
	for _, c := range reg.Diff(old, next) {
		logger.Info().
			Str(kmlog.FieldField, c.Path).
			Str(kmlog.FieldOld, c.Old).
			Str(kmlog.FieldNew, c.New).
			Msg("config changed")
	}
}
