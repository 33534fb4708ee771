// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	FieldEvent     = "event"
	FieldComponent = "component"

	// Configuration fields
	FieldSource = "source"
	FieldPath   = "path"
	FieldKey    = "key"
	FieldField  = "field"
	FieldPreset = "preset"

	// Change tracking
	FieldOld = "old"
	FieldNew = "new"
)
