package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"15m", 15 * time.Minute},
		{"2h", 2 * time.Hour},
		{"10s", 10 * time.Second},
		{" 1H ", time.Hour},
		{"abc", time.Hour},
		{"", time.Hour},
		{"15", time.Hour},
		{"-5m", time.Hour},
	}
	for _, tt := range tests {
		if got := ParseSince(tt.in); got != tt.want {
			t.Errorf("ParseSince(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" error, warn ,,fail ")
	want := []string{"error", "warn", "fail"}
	if len(got) != len(want) {
		t.Fatalf("SplitList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := SplitList(""); got != nil {
		t.Errorf("SplitList(\"\") = %v, want nil", got)
	}
}

func TestParseOptions(t *testing.T) {
	got := ParseOptions("remove_keys=logger,request_id&sort=true&bare&=orphan")
	if got["remove_keys"] != "logger,request_id" || got["sort"] != "true" {
		t.Errorf("ParseOptions() = %v", got)
	}
	if len(got) != 2 {
		t.Errorf("malformed entries should be ignored, got %v", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfileMergesDefault(t *testing.T) {
	path := writeConfig(t, `
default:
  region: eu-west-1
  since: 30m
  colorize: true
prod:
  log_group: prod-logs
  exclude_tokens: [debug]
`)

	p, err := LoadProfile(path, "prod")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.LogGroup != "prod-logs" {
		t.Errorf("LogGroup = %q", p.LogGroup)
	}
	if p.Region != "eu-west-1" {
		t.Errorf("Region = %q, want default-profile value", p.Region)
	}
	if p.Since != "30m" {
		t.Errorf("Since = %q", p.Since)
	}
	if p.Colorize == nil || !*p.Colorize {
		t.Error("Colorize should inherit from default profile")
	}
}

func TestLoadProfileNamedOverridesDefault(t *testing.T) {
	path := writeConfig(t, `
default:
  region: us-east-1
dev:
  region: ap-southeast-2
`)

	p, err := LoadProfile(path, "dev")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Region != "ap-southeast-2" {
		t.Errorf("Region = %q", p.Region)
	}
}

func TestLoadProfileUnknownName(t *testing.T) {
	path := writeConfig(t, "default:\n  region: us-east-1\n")
	if _, err := LoadProfile(path, "missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoadProfileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
default:
  reggion: us-east-1
`)
	if _, err := LoadProfile(path, ""); err == nil {
		t.Error("expected error for unknown config key")
	}
}

func TestLoadProfileSeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	p, err := LoadProfile(path, "")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Region != "us-east-1" {
		t.Errorf("Region = %q, want sample default", p.Region)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("missing config file should be seeded with the sample")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg := Profile{LogGroup: "g"}.Resolve()
	if cfg.Region != DefaultRegion {
		t.Errorf("Region = %q", cfg.Region)
	}
	if cfg.Since != time.Hour {
		t.Errorf("Since = %v", cfg.Since)
	}
	if cfg.PollInterval != DefaultPollInterval || cfg.RetryInterval != DefaultRetryInterval {
		t.Error("interval defaults not applied")
	}
	if cfg.Colorize {
		t.Error("colorize should default to off")
	}
	if cfg.FormatOptions == nil {
		t.Error("FormatOptions should never be nil")
	}
}

func TestResolveStripsFilterPrefixes(t *testing.T) {
	cfg := Profile{FilterTokens: []string{"?error", " fail "}}.Resolve()
	if len(cfg.FilterTokens) != 2 || cfg.FilterTokens[0] != "error" || cfg.FilterTokens[1] != "fail" {
		t.Errorf("FilterTokens = %v", cfg.FilterTokens)
	}
}
