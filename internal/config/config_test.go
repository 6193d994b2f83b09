package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnvKeys = []string{
	EnvClientID, EnvClientSecret, EnvSessionCookie,
	EnvOrganization, EnvFormType, EnvMinDate, EnvOutputDir,
}

// clearEnv unsets every variable Load reads and restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key) // nolint:errcheck
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Organization != DefaultOrganization {
		t.Errorf("Organization = %q, want %q", cfg.Organization, DefaultOrganization)
	}
	if cfg.FormType != DefaultFormType {
		t.Errorf("FormType = %q, want %q", cfg.FormType, DefaultFormType)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MinDate != nil {
		t.Errorf("MinDate = %v, want nil", cfg.MinDate)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
client_id: id-from-file
client_secret: secret-from-file
session_cookie: cookie-from-file
organization: my-club
min_date: "2024-01-01"
timeout: 5s
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Credentials.ClientID != "id-from-file" {
		t.Errorf("ClientID = %q", cfg.Credentials.ClientID)
	}
	if cfg.Credentials.SessionCookie != "cookie-from-file" {
		t.Errorf("SessionCookie = %q", cfg.Credentials.SessionCookie)
	}
	if cfg.Organization != "my-club" {
		t.Errorf("Organization = %q, want my-club", cfg.Organization)
	}
	if cfg.FormType != DefaultFormType {
		t.Errorf("FormType = %q, want default", cfg.FormType)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if cfg.MinDate == nil || !cfg.MinDate.Equal(want) {
		t.Errorf("MinDate = %v, want %v", cfg.MinDate, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "client_id: from-file\norganization: file-org\n")
	t.Setenv(EnvClientID, "from-env")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Credentials.ClientID != "from-env" {
		t.Errorf("ClientID = %q, want from-env", cfg.Credentials.ClientID)
	}
	if cfg.Organization != "file-org" {
		t.Errorf("Organization = %q, want file-org", cfg.Organization)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", strings.Join([]string{
		EnvClientID + "=dotenv-id",
		EnvClientSecret + "=dotenv-secret",
		EnvSessionCookie + "=dotenv-cookie",
		EnvMinDate + "=2024-03-01T12:00:00+01:00",
	}, "\n"))

	cfg, err := Load("", envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Credentials.ClientSecret != "dotenv-secret" {
		t.Errorf("ClientSecret = %q, want dotenv-secret", cfg.Credentials.ClientSecret)
	}
	want := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	if cfg.MinDate == nil || !cfg.MinDate.Equal(want) {
		t.Errorf("MinDate = %v, want %v", cfg.MinDate, want)
	}
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)

	if _, err := Load("", filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load() error = %v, want nil for a missing env file", err)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "client_id: [unterminated"},
		{"bad date", "min_date: yesterday"},
		{"bad timeout", "timeout: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "bad.yaml", tt.content)
			if _, err := Load(path, ""); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestValidate_MissingCredentials(t *testing.T) {
	tests := []struct {
		name        string
		creds       Credentials
		wantMissing []string
	}{
		{
			name:        "all missing",
			creds:       Credentials{},
			wantMissing: []string{"client id", "client secret", "session cookie"},
		},
		{
			name:        "cookie missing",
			creds:       Credentials{ClientID: "id", ClientSecret: "secret"},
			wantMissing: []string{"session cookie"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Credentials = tt.creds

			err := cfg.Validate()
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("Validate() error = %v, want ErrMissingCredentials", err)
			}
			for _, name := range tt.wantMissing {
				if !strings.Contains(err.Error(), name) {
					t.Errorf("error %q should name %q", err, name)
				}
			}
		})
	}
}

func TestValidate_Complete(t *testing.T) {
	cfg := Default()
	cfg.Credentials = Credentials{ClientID: "id", ClientSecret: "secret", SessionCookie: "cookie"}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for zero timeout")
	}
}

func TestParseMinDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024-01-01T08:30:00", time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), false},
		{"2024-01-01T00:00:00+02:00", time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC), false},
		{"01/01/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMinDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMinDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMinDate) {
					t.Errorf("error should wrap ErrInvalidMinDate, got %v", err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseMinDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetMinDate_EmptyClears(t *testing.T) {
	cfg := Default()
	if err := cfg.SetMinDate("2024-01-01"); err != nil {
		t.Fatalf("SetMinDate() error = %v", err)
	}
	if err := cfg.SetMinDate(""); err != nil {
		t.Fatalf("SetMinDate(\"\") error = %v", err)
	}
	if cfg.MinDate != nil {
		t.Errorf("MinDate = %v, want nil", cfg.MinDate)
	}
}
