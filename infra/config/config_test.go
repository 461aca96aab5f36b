package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FEEDMIRROR_USER_ID", "alice")
	for _, k := range []string{
		"FEEDMIRROR_API_URL", "FEEDMIRROR_WS_URL", "FEEDMIRROR_API_KEY", "FEEDMIRROR_TOKEN",
		"FEEDMIRROR_API_SECRET", "FEEDMIRROR_FEED", "FEEDMIRROR_RATE_LIMIT", "FEEDMIRROR_LOG_LEVEL",
		"FEEDMIRROR_LOG_PATH", "FEEDMIRROR_STATE_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_ParsesEnvAndDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FEEDMIRROR_API_URL", "https://api.example.social/")
	t.Setenv("FEEDMIRROR_RATE_LIMIT", "2.5")
	t.Setenv("FEEDMIRROR_LOG_LEVEL", "debug")
	t.Setenv("FEEDMIRROR_FEED", "timeline:alice")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://api.example.social" {
		t.Fatalf("api url must be normalized: %q", cfg.APIURL)
	}
	if cfg.WSURL != "wss://api.example.social/connect" {
		t.Fatalf("ws url must default from api host: %q", cfg.WSURL)
	}
	if cfg.Feed.String() != "timeline:alice" || cfg.RateLimit != 2.5 || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if !strings.HasSuffix(cfg.TokenPath, filepath.Join(".config", "feedmirror", "token")) {
		t.Fatalf("unexpected default token path: %q", cfg.TokenPath)
	}
}

func TestLoad_DefaultFeedIsUserFeed(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Feed.String() != "user:alice" || cfg.RateLimit != defaultRateLimit || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoad_RejectsNonHTTPS(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FEEDMIRROR_API_URL", "http://insecure.local")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-https api url")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "missing user", key: "FEEDMIRROR_USER_ID", val: ""},
		{name: "bad feed", key: "FEEDMIRROR_FEED", val: "nocolon"},
		{name: "bad rate", key: "FEEDMIRROR_RATE_LIMIT", val: "-1"},
		{name: "bad level", key: "FEEDMIRROR_LOG_LEVEL", val: "loud"},
		{name: "bad ws", key: "FEEDMIRROR_WS_URL", val: "https://x"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.val)
			}
		})
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{Feed: "user:bob"}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	if _, err := LoadUIState(path); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}
