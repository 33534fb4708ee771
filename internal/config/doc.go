// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config resolves the key-matrix keyboard configuration.
//
// Resolution always runs in the same order: base values (defaults, then the
// YAML file, then KEYMATRIX_* environment variables), then the optional
// instrument preset overlay, then validation. A Keyboard that comes out of
// Builder.Build or Loader.Load has passed Validate.
package config
