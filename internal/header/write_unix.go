// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build !windows

package header

import (
	"context"
	"fmt"

	"github.com/ManuGH/keymatrix/internal/config"
	kmlog "github.com/ManuGH/keymatrix/internal/log"
	"github.com/google/renameio/v2"
)

// WriteFile renders k into path atomically: readers (and a concurrently
// running firmware build) see either the old header or the complete new one.
func WriteFile(ctx context.Context, path string, k config.Keyboard) error {
	logger := kmlog.FromContext(ctx)

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending header file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending header file")
		}
	}()

	if err := Render(pendingFile, k); err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace header file: %w", err)
	}

	logger.Info().
		Str(kmlog.FieldEvent, "header.written").
		Str(kmlog.FieldPath, path).
		Str(kmlog.FieldPreset, k.Preset.String()).
		Msg("firmware header written")
	return nil
}
