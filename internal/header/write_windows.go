// SPDX-License-Identifier: MIT

//go:build windows

package header

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/keymatrix/internal/config"
	kmlog "github.com/ManuGH/keymatrix/internal/log"
)

// WriteFile renders k into path via temp file + rename.
// Windows has no fsync-then-rename guarantee, so this is best effort.
func WriteFile(ctx context.Context, path string, k config.Keyboard) error {
	logger := kmlog.FromContext(ctx)

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".keymatrix-header-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp header file: %w", err)
	}
	tmpPath := tmpFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := Render(tmpFile, k); err != nil {
		return fmt.Errorf("render header: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync header file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close header file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename header file: %w", err)
	}
	committed = true

	logger.Info().
		Str(kmlog.FieldEvent, "header.written").
		Str(kmlog.FieldPath, path).
		Str(kmlog.FieldPreset, k.Preset.String()).
		Msg("firmware header written")
	return nil
}
