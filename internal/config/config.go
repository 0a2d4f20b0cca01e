// ABOUTME: Settings loading with global + project config merge
// ABOUTME: YAML files decoded with gopkg.in/yaml.v3; defaults filled and validated after merge

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to fields left unset by every layer.
const (
	DefaultQuitKey       = "q"
	DefaultPlaceholder   = "~"
	DefaultReadTimeoutMS = 100
	DefaultProbeWindow   = 32
	DefaultMaxFrameBytes = 1 << 20
)

// Settings holds the merged configuration.
type Settings struct {
	QuitKey       string `yaml:"quit_key,omitempty"`
	Placeholder   string `yaml:"placeholder,omitempty"`
	Welcome       string `yaml:"welcome,omitempty"`
	ReadTimeoutMS int    `yaml:"read_timeout_ms,omitempty"`
	ProbeWindow   int    `yaml:"probe_window,omitempty"`
	MaxFrameBytes int    `yaml:"max_frame_bytes,omitempty"`
	LogFile       string `yaml:"log_file,omitempty"`
	Verbose       bool   `yaml:"verbose,omitempty"`
}

// Load reads and merges global and project-local settings, overlays
// override (typically CLI flags; may be nil), then applies defaults.
// Project settings override global settings. Missing files are not an error.
func Load(projectRoot string, override *Settings) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return finish(merge(merge(global, project), override))
}

// LoadFile reads a single explicit settings file, which must exist, and
// overlays override (may be nil).
func LoadFile(path string, override *Settings) (*Settings, error) {
	s, err := loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return finish(merge(s, override))
}

// finish runs exactly once per load, after every layer is merged, so
// ${VAR} references are expanded a single time.
func finish(s *Settings) (*Settings, error) {
	ResolveEnvVars(s)
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays project settings onto global settings.
// Non-zero project values override global values. Inputs are not modified.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		result := *global
		return &result
	}

	result := *global

	if project.QuitKey != "" {
		result.QuitKey = project.QuitKey
	}
	if project.Placeholder != "" {
		result.Placeholder = project.Placeholder
	}
	if project.Welcome != "" {
		result.Welcome = project.Welcome
	}
	if project.ReadTimeoutMS != 0 {
		result.ReadTimeoutMS = project.ReadTimeoutMS
	}
	if project.ProbeWindow != 0 {
		result.ProbeWindow = project.ProbeWindow
	}
	if project.MaxFrameBytes != 0 {
		result.MaxFrameBytes = project.MaxFrameBytes
	}
	if project.LogFile != "" {
		result.LogFile = project.LogFile
	}
	if project.Verbose {
		result.Verbose = true
	}

	return &result
}

func (s *Settings) applyDefaults() {
	if s.QuitKey == "" {
		s.QuitKey = DefaultQuitKey
	}
	if s.Placeholder == "" {
		s.Placeholder = DefaultPlaceholder
	}
	if s.ReadTimeoutMS == 0 {
		s.ReadTimeoutMS = DefaultReadTimeoutMS
	}
	if s.ProbeWindow == 0 {
		s.ProbeWindow = DefaultProbeWindow
	}
	if s.MaxFrameBytes == 0 {
		s.MaxFrameBytes = DefaultMaxFrameBytes
	}
}

// Validate checks field ranges.
func (s *Settings) Validate() error {
	var errs []error
	if len(s.QuitKey) != 1 || !isLetter(s.QuitKey[0]) {
		errs = append(errs, fmt.Errorf("quit_key %q: must be a single ASCII letter", s.QuitKey))
	}
	if s.ReadTimeoutMS < 0 || s.ReadTimeoutMS > 25500 {
		errs = append(errs, fmt.Errorf("read_timeout_ms %d: must be within 0..25500", s.ReadTimeoutMS))
	}
	if s.ProbeWindow < 0 || (s.ProbeWindow > 0 && s.ProbeWindow < 8) {
		errs = append(errs, fmt.Errorf("probe_window %d: must be at least 8", s.ProbeWindow))
	}
	if s.MaxFrameBytes < 0 {
		errs = append(errs, fmt.Errorf("max_frame_bytes %d: must not be negative", s.MaxFrameBytes))
	}
	return errors.Join(errs...)
}

// QuitByte returns the configured quit key (before the Ctrl modifier).
func (s *Settings) QuitByte() byte {
	if s.QuitKey == "" {
		return DefaultQuitKey[0]
	}
	return s.QuitKey[0]
}

// ReadTimeout returns the bounded wait of raw-mode reads.
func (s *Settings) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutMS) * time.Millisecond
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
