// Package config builds the immutable run configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then an
// optional .env file and the process environment, then command-line flags
// applied by the caller. Validate must succeed before any network call.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL   = "https://api.helloasso.com/v5/"
	DefaultTokenURL     = "https://api.helloasso.com/oauth2/token"
	DefaultOrganization = "grimpo6"
	DefaultFormType     = "Membership"
	DefaultOutputDir    = "."
	DefaultTimeout      = 30 * time.Second
)

// Environment variable names
const (
	EnvClientID      = "HELLOASSO_CLIENT_ID"
	EnvClientSecret  = "HELLOASSO_CLIENT_SECRET"
	EnvSessionCookie = "HELLOASSO_TM5_COOKIE"
	EnvOrganization  = "HELLOASSO_ORGANIZATION"
	EnvFormType      = "HELLOASSO_FORM_TYPE"
	EnvMinDate       = "HELLOASSO_MIN_DATE"
	EnvOutputDir     = "HELLOASSO_OUTPUT_DIR"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidMinDate     = errors.New("invalid minimum registration date")
)

// Credentials identify the API client and the platform session used for attachments.
type Credentials struct {
	ClientID      string `yaml:"client_id"`
	ClientSecret  string `yaml:"client_secret"`
	SessionCookie string `yaml:"session_cookie"`
}

// Config is the run configuration. It is built once at startup and never mutated
// after Validate.
type Config struct {
	Credentials  Credentials
	Organization string
	FormType     string
	// MinDate filters out registrations dated strictly before it. Nil disables the filter.
	MinDate    *time.Time
	OutputDir  string
	APIBaseURL string
	TokenURL   string
	Timeout    time.Duration
}

// fileConfig mirrors the YAML layout
type fileConfig struct {
	Credentials  `yaml:",inline"`
	Organization string `yaml:"organization"`
	FormType     string `yaml:"form_type"`
	MinDate      string `yaml:"min_date"`
	OutputDir    string `yaml:"output_dir"`
	APIBaseURL   string `yaml:"api_base_url"`
	TokenURL     string `yaml:"token_url"`
	Timeout      string `yaml:"timeout"`
}

// Default returns a configuration holding the built-in defaults and no credentials.
func Default() *Config {
	return &Config{
		Organization: DefaultOrganization,
		FormType:     DefaultFormType,
		OutputDir:    DefaultOutputDir,
		APIBaseURL:   DefaultAPIBaseURL,
		TokenURL:     DefaultTokenURL,
		Timeout:      DefaultTimeout,
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped when
// path is empty), the .env file at envFile (skipped when empty or absent) and
// the environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		// existing environment variables take precedence over the file
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	setString(&c.Credentials.ClientID, fc.ClientID)
	setString(&c.Credentials.ClientSecret, fc.ClientSecret)
	setString(&c.Credentials.SessionCookie, fc.SessionCookie)
	setString(&c.Organization, fc.Organization)
	setString(&c.FormType, fc.FormType)
	setString(&c.OutputDir, fc.OutputDir)
	setString(&c.APIBaseURL, fc.APIBaseURL)
	setString(&c.TokenURL, fc.TokenURL)

	if fc.MinDate != "" {
		if err := c.SetMinDate(fc.MinDate); err != nil {
			return err
		}
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	setString(&c.Credentials.ClientID, get(EnvClientID))
	setString(&c.Credentials.ClientSecret, get(EnvClientSecret))
	setString(&c.Credentials.SessionCookie, get(EnvSessionCookie))
	setString(&c.Organization, get(EnvOrganization))
	setString(&c.FormType, get(EnvFormType))
	setString(&c.OutputDir, get(EnvOutputDir))

	if v := get(EnvMinDate); v != "" {
		return c.SetMinDate(v)
	}
	return nil
}

// SetMinDate parses and sets the minimum registration date. Accepted layouts are
// RFC 3339, "2006-01-02T15:04:05" and "2006-01-02"; values without an offset are UTC.
// An empty value clears the filter.
func (c *Config) SetMinDate(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		c.MinDate = nil
		return nil
	}

	t, err := ParseMinDate(value)
	if err != nil {
		return err
	}
	c.MinDate = &t
	return nil
}

// ParseMinDate parses a user-supplied date filter.
func ParseMinDate(value string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (use YYYY-MM-DD or RFC 3339)", ErrInvalidMinDate, value)
}

// Validate checks the preconditions required before talking to the API.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.ClientID == "" {
		missing = append(missing, "client id ("+EnvClientID+")")
	}
	if c.Credentials.ClientSecret == "" {
		missing = append(missing, "client secret ("+EnvClientSecret+")")
	}
	if c.Credentials.SessionCookie == "" {
		missing = append(missing, "session cookie ("+EnvSessionCookie+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	if c.FormType == "" {
		return fmt.Errorf("form type is required")
	}
	if c.APIBaseURL == "" || c.TokenURL == "" {
		return fmt.Errorf("API base URL and token URL are required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
