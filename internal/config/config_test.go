package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PONG_TEST_KEY", "set")
	if got := GetEnv("PONG_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q, want set", got)
	}
	if got := GetEnv("PONG_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q, want fallback", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "PONG_DOTENV_A=from-file\nPONG_DOTENV_B=from-file\n")
	t.Setenv("PONG_DOTENV_B", "from-env")
	t.Setenv("PONG_DOTENV_A", "")
	os.Unsetenv("PONG_DOTENV_A")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("PONG_DOTENV_A"); got != "from-file" {
		t.Errorf("A = %q, want from-file", got)
	}
	if got := os.Getenv("PONG_DOTENV_B"); got != "from-env" {
		t.Errorf("B = %q, existing variables must win", got)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("PONG_SOUND", "")
	os.Unsetenv("PONG_SOUND")

	s, err := LoadSettings("")
	if err != nil {
		t.Fatal(err)
	}
	if s != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", s)
	}
	if s.WinScore != 10 || s.AISpeed != 3 || s.Sound != SoundBell {
		t.Errorf("unexpected defaults %+v", s)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	t.Setenv("PONG_SOUND", "off")
	path := writeFile(t, "pong.toml", "win_score = 5\nai_speed = 4.5\n")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Settings{WinScore: 5, AISpeed: 4.5, Sound: SoundOff}
	if s != want {
		t.Errorf("settings = %+v, want %+v", s, want)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	t.Setenv("PONG_SOUND", "")
	os.Unsetenv("PONG_SOUND")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad win score", "win_score = 0\n", "win_score"},
		{"bad speed", "ai_speed = -1\n", "ai_speed"},
		{"bad sound", "sound = \"loud\"\n", "sound"},
		{"unknown key", "speed = 3\n", "unknown key"},
		{"bad toml", "win_score = \n", "load settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "pong.toml", tt.content)
			_, err := LoadSettings(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing settings file")
	}
}
