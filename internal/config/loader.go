// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ManuGH/keymatrix/internal/log"
	"github.com/ManuGH/keymatrix/internal/validate"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	presetOverride  *Preset
	envErrs         *validate.Validator
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
	Warnings        []Warning           // Lint result of the last successful Load
}

// NewLoader creates a new configuration loader. An empty configPath loads
// defaults and environment only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// OverridePreset forces the preset selection regardless of file and
// environment (used for the -preset command line flag).
func (l *Loader) OverridePreset(p Preset) *Loader {
	l.presetOverride = &p
	return l
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

// envInt reads an integer override. A value that is set but not an integer
// is recorded as a violation instead of silently falling back.
func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	if raw, ok := os.LookupEnv(key); ok && strings.TrimSpace(raw) != "" {
		if _, err := strconv.Atoi(strings.TrimSpace(raw)); err != nil {
			l.envErrs.AddError(envField(key), fmt.Sprintf("%s=%q is not an integer", key, raw), raw)
			return defaultVal
		}
	}
	return ParseInt(key, defaultVal)
}

// envField maps an environment key to the option path it overrides.
func envField(key string) string {
	if reg, err := GetRegistry(); err == nil {
		if e, ok := reg.ByEnv[key]; ok {
			return e.Path
		}
	}
	return key
}

func (l *Loader) envList(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseStringList(key, defaultVal)
}

// Load resolves the configuration: Defaults -> File (strict) -> ENV form the
// base, then the preset overlay runs, then Validate. Lint warnings of the
// accepted configuration are logged and kept in l.Warnings.
func (l *Loader) Load() (Keyboard, error) {
	logger := log.WithComponent("config")
	l.Warnings = nil
	l.envErrs = validate.New()

	// 1. Defaults
	base := Defaults()
	preset := PresetNone

	// 2. File
	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return base, fmt.Errorf("load config file: %w", err)
		}
		p, err := mergeFileConfig(&base, fileCfg)
		if err != nil {
			return base, fmt.Errorf("merge file config: %w", err)
		}
		preset = p
	}

	// 3. Environment (highest priority for base values)
	p, err := l.mergeEnvConfig(&base, preset)
	if err != nil {
		return base, fmt.Errorf("merge env config: %w", err)
	}
	preset = p

	if l.presetOverride != nil {
		preset = *l.presetOverride
	}

	// 4. Overlay, 5. Validate. Malformed env values are reported together
	// with the violations of the resolved configuration.
	k := BuilderFrom(base).WithPreset(preset).WithVersion(l.version).Resolve()
	v := l.envErrs
	if err := Validate(k); err != nil {
		var verr validate.ValidationError
		if !errors.As(err, &verr) {
			return k, fmt.Errorf("config validation failed: %w: %w", ErrInvalidConfig, err)
		}
		for _, e := range verr.Errors() {
			v.AddError(e.Field, e.Message, e.Value)
		}
	}
	if err := v.Err(); err != nil {
		return k, fmt.Errorf("config validation failed: %w: %w", ErrInvalidConfig, err)
	}

	l.Warnings = Lint(k)
	LogWarnings(logger, l.Warnings)

	logger.Debug().
		Str(log.FieldEvent, "config.loaded").
		Str(log.FieldPath, l.configPath).
		Str(log.FieldPreset, k.Preset.String()).
		Msg("configuration resolved")

	return k, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return decodeStrict(data)
}

func decodeStrict(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

// mergeFileConfig copies every option present in the file onto cfg and
// returns the file's preset selection.
func mergeFileConfig(cfg *Keyboard, f *FileConfig) (Preset, error) {
	if m := f.Matrix; m != nil {
		setInt(&cfg.Matrix.Rows, m.Rows)
		setInt(&cfg.Matrix.Cols, m.Cols)
	}
	if p := f.Pins; p != nil {
		setInt(&cfg.Pins.FirstColumn, p.FirstColumn)
		setInt(&cfg.Pins.LastColumn, p.LastColumn)
		if p.Rows != nil {
			cfg.Pins.Rows = append([]string(nil), p.Rows...)
		}
	}
	if m := f.MIDI; m != nil {
		setInt(&cfg.MIDI.StartingNote, m.StartingNote)
		setInt(&cfg.MIDI.Channel, m.Channel)
		setInt(&cfg.MIDI.Velocity, m.Velocity)
	}
	if t := f.Thresholds; t != nil {
		setInt(&cfg.Thresholds.Press, t.Press)
		setInt(&cfg.Thresholds.NoPress, t.NoPress)
	}
	if t := f.Timing; t != nil {
		setInt(&cfg.Timing.ScanDelayMicros, t.ScanDelayMicros)
	}
	return ParsePreset(f.Preset)
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// mergeEnvConfig merges KEYMATRIX_* variables into cfg.
// ENV variables have the highest precedence.
func (l *Loader) mergeEnvConfig(cfg *Keyboard, preset Preset) (Preset, error) {
	cfg.Matrix.Rows = l.envInt(EnvRows, cfg.Matrix.Rows)
	cfg.Matrix.Cols = l.envInt(EnvCols, cfg.Matrix.Cols)

	cfg.Pins.FirstColumn = l.envInt(EnvFirstColumnPin, cfg.Pins.FirstColumn)
	cfg.Pins.LastColumn = l.envInt(EnvLastColumnPin, cfg.Pins.LastColumn)
	cfg.Pins.Rows = l.envList(EnvRowPins, cfg.Pins.Rows)

	cfg.MIDI.StartingNote = l.envInt(EnvStartingNote, cfg.MIDI.StartingNote)
	cfg.MIDI.Channel = l.envInt(EnvChannel, cfg.MIDI.Channel)
	cfg.MIDI.Velocity = l.envInt(EnvVelocity, cfg.MIDI.Velocity)

	cfg.Thresholds.Press = l.envInt(EnvPressThreshold, cfg.Thresholds.Press)
	cfg.Thresholds.NoPress = l.envInt(EnvNoPressThreshold, cfg.Thresholds.NoPress)

	cfg.Timing.ScanDelayMicros = l.envInt(EnvScanDelayMicros, cfg.Timing.ScanDelayMicros)

	if raw := l.envString(EnvPreset, ""); raw != "" {
		p, err := ParsePreset(raw)
		if err != nil {
			return preset, fmt.Errorf("%s: %w", EnvPreset, err)
		}
		return p, nil
	}
	return preset, nil
}
