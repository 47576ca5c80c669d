package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv(EnvConfigFile, "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppName != "anicat" {
		t.Fatalf("expected app name anicat, got %q", cfg.AppName)
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Fatalf("expected level info, got %q", cfg.Log.Level)
	}
	if cfg.HTTP.Timeout != 15*time.Second || cfg.HTTP.ConnectTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg.HTTP)
	}
	if !cfg.Log.IncludeArgs || !cfg.Log.IncludeResult || !cfg.Log.Errors {
		t.Fatalf("expected execution logging flags on by default: %+v", cfg.Log)
	}
	if cfg.API.BaseURL != "https://api.jikan.moe/v4" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("LOG_INCLUDE_RESULT", "false")
	t.Setenv("API_BASE_URL", "http://localhost:9999/v4/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Fatalf("expected debug, got %q", cfg.Log.Level)
	}
	if cfg.HTTP.Timeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.HTTP.Timeout)
	}
	if cfg.Log.IncludeResult {
		t.Fatal("expected include result to be off")
	}
	if cfg.API.BaseURL != "http://localhost:9999/v4" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
}

func TestLoad_EnvKeysCaseInsensitive(t *testing.T) {
	isolate(t)
	t.Setenv("log_level", "debug")
	t.Setenv("Api_Base_Url", "https://example.test/v4/")
	t.Setenv("http_Timeout", "4s")
	t.Setenv("log_include_args", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Fatalf("expected debug from lower-case key, got %q", cfg.Log.Level)
	}
	if cfg.API.BaseURL != "https://example.test/v4" {
		t.Fatalf("expected base url from mixed-case key, got %q", cfg.API.BaseURL)
	}
	if cfg.HTTP.Timeout != 4*time.Second {
		t.Fatalf("expected 4s, got %s", cfg.HTTP.Timeout)
	}
	if cfg.Log.IncludeArgs {
		t.Fatal("expected include args to be off")
	}
}

func TestLoad_SettingsFileIsCaseInsensitive(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "settings.env")
	body := "Log_Level=warning\nlog_file_path=\nAPI_KEY=secret\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != LogLevelWarning {
		t.Fatalf("expected warning, got %q", cfg.Log.Level)
	}
	if cfg.Log.FilePath != "" {
		t.Fatalf("expected file sink disabled, got %q", cfg.Log.FilePath)
	}
	if cfg.API.Key != "secret" {
		t.Fatalf("expected api key from file, got %q", cfg.API.Key)
	}
	if cfg.Redacted().API.Key != "****" {
		t.Fatal("expected redacted key")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nope.env"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit settings file")
	}
}

func TestLoadFile_DefaultDotEnv(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".env", []byte("APP_NAME=catalog-dev\nHTTP_ADDR=:9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppName != "catalog-dev" || cfg.Server.Addr != ":9090" {
		t.Fatalf("expected values from ./.env, got %+v", cfg.Server)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*AppConfig) {}},
		{name: "bad level", mutate: func(c *AppConfig) { c.Log.Level = "loud" }, wantErr: true},
		{name: "bad scheme", mutate: func(c *AppConfig) { c.API.BaseURL = "ftp://x" }, wantErr: true},
		{name: "no host", mutate: func(c *AppConfig) { c.API.BaseURL = "http://" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *AppConfig) { c.HTTP.Timeout = 0 }, wantErr: true},
		{name: "no connections", mutate: func(c *AppConfig) { c.HTTP.MaxConnections = 0 }, wantErr: true},
		{name: "critical level", mutate: func(c *AppConfig) { c.Log.Level = LogLevelCritical }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
