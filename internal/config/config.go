/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "scriptpress/internal/log"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	Export        ExportConfig      `yaml:"export"`
	Screenplay    screenplay.Config `yaml:"screenplay"`
	Logging       LoggingConfig     `yaml:"logging"`
	Storage       StorageConfig     `yaml:"storage"`
}

type ExportConfig struct {
	// Profile is a builtin profile name or the path of a profile YAML file.
	Profile      string `yaml:"profile"`
	Format       string `yaml:"format"`
	Preset       string `yaml:"preset"`
	OutDir       string `yaml:"out_dir"`
	LinesPerPage int    `yaml:"lines_per_page"` // 0 keeps the profile's value
	// Font is the path of a TrueType font to set PDF and HTML output in.
	// Empty keeps Courier.
	Font string `yaml:"font"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type StorageConfig struct {
	// History is the directory of the export history database; empty means
	// the config directory. "off" disables the history.
	History     string `yaml:"history"`
	HistoryKeep int    `yaml:"history_keep"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Export:        ExportConfig{Profile: "usletter", Format: "pdf"},
		Screenplay:    screenplay.DefaultConfig(),
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Storage:       StorageConfig{HistoryKeep: 500},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "SPR_CONFIG"
	EnvProfile      = "SPR_PROFILE"
	EnvFormat       = "SPR_FORMAT"
	EnvOutDir       = "SPR_OUT_DIR"
	EnvLinesPerPage = "SPR_LINES_PER_PAGE"
	EnvFont         = "SPR_FONT"
	EnvSceneNumbers = "SPR_SCENE_NUMBERS"
	EnvSplitDialog  = "SPR_SPLIT_DIALOGUE"
	EnvHistory      = "SPR_HISTORY"
	// logging variables are shared with the log package
	EnvLogLevel  = applog.EnvLevel
	EnvLogFormat = applog.EnvFormat
	EnvLogSource = applog.EnvSource
	EnvLogFile   = applog.EnvFile
)

// HistoryOff disables the export history.
const HistoryOff = "off"

// ConfigPath returns the per-user config file path. SPR_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ScriptPress")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ScriptPress")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "scriptpress")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		// unmarshal onto defaults so absent keys keep their default
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path.
func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks values that would otherwise fail late.
func (c AppConfig) Validate() error {
	switch c.Screenplay.PrintSceneNumbers {
	case "", screenplay.SceneNumbersNone, screenplay.SceneNumbersLeft, screenplay.SceneNumbersRight, screenplay.SceneNumbersBoth:
	default:
		return fmt.Errorf("config: screenplay_print_scene_numbers must be none, left, right or both, got %q", c.Screenplay.PrintSceneNumbers)
	}
	if c.Export.LinesPerPage < 0 {
		return fmt.Errorf("config: lines_per_page must not be negative")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// export
	if v := strings.TrimSpace(src.Export.Profile); v != "" {
		dst.Export.Profile = v
	}
	if v := strings.TrimSpace(src.Export.Format); v != "" {
		dst.Export.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Export.Preset); v != "" {
		dst.Export.Preset = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Export.OutDir); v != "" {
		dst.Export.OutDir = v
	}
	if src.Export.LinesPerPage != 0 {
		dst.Export.LinesPerPage = src.Export.LinesPerPage
	}
	if v := strings.TrimSpace(src.Export.Font); v != "" {
		dst.Export.Font = v
	}
	// screenplay: booleans copy directly from src (file) so user preferences persist
	sp := src.Screenplay
	dst.Screenplay.PrintSections = sp.PrintSections
	dst.Screenplay.PrintSceneHeadersBold = sp.PrintSceneHeadersBold
	dst.Screenplay.PrintDialogueSplitAcrossPages = sp.PrintDialogueSplitAcrossPages
	dst.Screenplay.PrintBookmarks = sp.PrintBookmarks
	dst.Screenplay.PrintTitlePage = sp.PrintTitlePage
	if sp.PrintDialogueMore != "" {
		dst.Screenplay.PrintDialogueMore = sp.PrintDialogueMore
	}
	if sp.PrintDialogueContd != "" {
		dst.Screenplay.PrintDialogueContd = sp.PrintDialogueContd
	}
	if v := strings.ToLower(strings.TrimSpace(string(sp.PrintSceneNumbers))); v != "" {
		dst.Screenplay.PrintSceneNumbers = screenplay.SceneNumbers(v)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// storage
	if v := strings.TrimSpace(src.Storage.History); v != "" {
		dst.Storage.History = v
	}
	if src.Storage.HistoryKeep != 0 {
		dst.Storage.HistoryKeep = src.Storage.HistoryKeep
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvProfile)); v != "" {
		cfg.Export.Profile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		cfg.Export.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutDir)); v != "" {
		cfg.Export.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLinesPerPage)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.LinesPerPage = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFont)); v != "" {
		cfg.Export.Font = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSceneNumbers)); v != "" {
		cfg.Screenplay.PrintSceneNumbers = screenplay.SceneNumbers(strings.ToLower(v))
	}
	if v := strings.TrimSpace(os.Getenv(EnvSplitDialog)); v != "" {
		cfg.Screenplay.PrintDialogueSplitAcrossPages = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistory)); v != "" {
		cfg.Storage.History = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// envKeys maps config keys to the env vars overriding them.
var envKeys = map[string]string{
	"export.profile":                                          EnvProfile,
	"export.format":                                           EnvFormat,
	"export.out_dir":                                          EnvOutDir,
	"export.lines_per_page":                                   EnvLinesPerPage,
	"export.font":                                             EnvFont,
	"screenplay.screenplay_print_scene_numbers":               EnvSceneNumbers,
	"screenplay.screenplay_print_dialogue_split_across_pages": EnvSplitDialog,
	"storage.history":                                         EnvHistory,
	"logging.level":                                           EnvLogLevel,
	"logging.format":                                          EnvLogFormat,
	"logging.source":                                          EnvLogSource,
	"logging.file":                                            EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// LogOptions converts the logging section for applog.Init.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

// LoadProfile resolves the configured print profile: a builtin name or a
// YAML file, with the lines_per_page override applied.
func (e ExportConfig) LoadProfile() (profile.Profile, error) {
	name := strings.TrimSpace(e.Profile)
	if name == "" {
		name = "usletter"
	}
	var (
		p   profile.Profile
		err error
	)
	if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
		p, err = profile.LoadFile(name)
	} else {
		p, err = profile.ByName(name)
	}
	if err != nil {
		return profile.Profile{}, err
	}
	if e.LinesPerPage > 0 {
		p.LinesPerPage = e.LinesPerPage
	}
	return p, nil
}

// HistoryDir returns the export history directory, or "" when disabled.
func (s StorageConfig) HistoryDir() (string, error) {
	switch h := strings.TrimSpace(s.History); {
	case strings.EqualFold(h, HistoryOff):
		return "", nil
	case h != "":
		return h, nil
	}
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
