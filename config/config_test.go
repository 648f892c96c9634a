package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestHostPrecedence(t *testing.T) {
	valid := `{"service_host":"http://from-file:3000"}`
	malformed := `{"service_host":`

	cases := []struct {
		name       string
		env        string
		file       string // "" means no file
		wantHost   string
		wantSource string
	}{
		{"env wins over valid file", "http://from-env", valid, "http://from-env", SourceEnv},
		{"env wins over malformed file", "http://from-env", malformed, "http://from-env", SourceEnv},
		{"env wins with no file", "http://from-env", "", "http://from-env", SourceEnv},
		{"file used without env", "", valid, "http://from-file:3000", SourceFile},
		{"malformed file falls back", "", malformed, DefaultServiceHost, SourceDefault},
		{"no file falls back", "", "", DefaultServiceHost, SourceDefault},
		{"missing field falls back", "", `{"other":"x"}`, DefaultServiceHost, SourceDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SERVICE_HOST", tc.env)
			path := filepath.Join(t.TempDir(), "config.json")
			if tc.file != "" {
				path = writeFile(t, "config.json", tc.file)
			}

			cfg := Load(path)
			if cfg.ServiceHost != tc.wantHost {
				t.Errorf("host: expected %q, got %q", tc.wantHost, cfg.ServiceHost)
			}
			if cfg.HostSource != tc.wantSource {
				t.Errorf("source: expected %q, got %q", tc.wantSource, cfg.HostSource)
			}
		})
	}
}

func TestFileErrRecorded(t *testing.T) {
	t.Setenv("SERVICE_HOST", "")
	cfg := Load(filepath.Join(t.TempDir(), "missing.json"))
	if cfg.FileErr == nil {
		t.Fatal("expected FileErr for missing file")
	}
	if cfg.ServiceHost != DefaultServiceHost {
		t.Errorf("expected default host, got %q", cfg.ServiceHost)
	}
}

func TestYAMLConfig(t *testing.T) {
	t.Setenv("SERVICE_HOST", "")
	path := writeFile(t, "config.yaml", "service_host: http://yaml-host:4000\n")

	cfg := Load(path)
	if cfg.ServiceHost != "http://yaml-host:4000" {
		t.Errorf("expected yaml host, got %q", cfg.ServiceHost)
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv("SERVICE_HOST", "")
	path := writeFile(t, "maint.json", `{"service_host":"http://env-path"}`)
	t.Setenv("MAINT_CONFIG", path)

	cfg := Load("")
	if cfg.ConfigPath != path {
		t.Errorf("expected config path %q, got %q", path, cfg.ConfigPath)
	}
	if cfg.ServiceHost != "http://env-path" {
		t.Errorf("expected host from MAINT_CONFIG file, got %q", cfg.ServiceHost)
	}
}

func TestMaxAgeDays(t *testing.T) {
	cases := []struct {
		env  string
		want int
	}{
		{"", 14},
		{"7", 7},
		{" 30 ", 30},
		{"abc", 14},
		{"0", 14},
		{"-3", 14},
	}
	for _, tc := range cases {
		t.Setenv("CONSOLIDATE_MAX_AGE_DAYS", tc.env)
		cfg := Load(filepath.Join(t.TempDir(), "none.json"))
		if cfg.MaxAgeDays != tc.want {
			t.Errorf("CONSOLIDATE_MAX_AGE_DAYS=%q: expected %d, got %d", tc.env, tc.want, cfg.MaxAgeDays)
		}
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("SERVICE_HOST", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MAINT_AUTH_SECRET", "")
	cfg := Load(filepath.Join(t.TempDir(), "none.json"))
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
	if cfg.AuthSecret != "" {
		t.Errorf("expected empty auth secret, got %q", cfg.AuthSecret)
	}
}
