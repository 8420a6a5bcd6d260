package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	gameconfig "github.com/tomz197/termpong/internal/loop/config"
)

// Sound modes.
const (
	SoundBell = "bell"
	SoundOff  = "off"
)

// Settings are the startup options a host may change without rebuilding.
// They are read once; a running match never sees them change.
type Settings struct {
	WinScore int     `toml:"win_score"`
	AISpeed  float64 `toml:"ai_speed"`
	Sound    string  `toml:"sound"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		WinScore: gameconfig.WinScore,
		AISpeed:  gameconfig.AISpeed,
		Sound:    SoundBell,
	}
}

// LoadSettings reads a TOML settings file over the defaults. An empty path
// returns the defaults. The PONG_SOUND variable overrides the sound mode.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path != "" {
		md, err := toml.DecodeFile(path, &s)
		if err != nil {
			return Settings{}, fmt.Errorf("load settings %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Settings{}, fmt.Errorf("load settings %s: unknown key %q", path, undecoded[0].String())
		}
	}
	s.Sound = GetEnv("PONG_SOUND", s.Sound)

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Validate reports every setting that is out of range.
func (s Settings) Validate() error {
	var errs []error
	if s.WinScore < 1 {
		errs = append(errs, fmt.Errorf("win_score must be at least 1, got %d", s.WinScore))
	}
	if s.AISpeed <= 0 {
		errs = append(errs, fmt.Errorf("ai_speed must be positive, got %v", s.AISpeed))
	}
	if s.Sound != SoundBell && s.Sound != SoundOff {
		errs = append(errs, fmt.Errorf("sound must be %q or %q, got %q", SoundBell, SoundOff, s.Sound))
	}
	return errors.Join(errs...)
}
