// Package config provides configuration loading and validation for the market copilot.
// Values come from defaults, an optional JSON or YAML file, then environment variables.
// The resulting Config is built once at startup and passed to constructors explicitly.
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config is the full runtime configuration.
type Config struct {
	LogLevel string         `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	Redis    RedisConfig    `json:"redis" yaml:"redis"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	LinkedIn LinkedInConfig `json:"linkedin" yaml:"linkedin"`
	Events   EventsConfig   `json:"events" yaml:"events"`
	Gemini   GeminiConfig   `json:"gemini" yaml:"gemini"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	HTTP     HTTPConfig     `json:"http" yaml:"http"`
}

// RedisConfig locates the primary snapshot store. URL wins over host/port.
type RedisConfig struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port" validate:"min=1,max=65535"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// StoreConfig selects the snapshot backend.
type StoreConfig struct {
	Backend     string `json:"backend" yaml:"backend" validate:"oneof=redis postgres sqlite memory"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty" validate:"required_if=Backend postgres"`
	SQLitePath  string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" validate:"required_if=Backend sqlite"`
}

// LinkedInConfig drives the guest job search scraper.
type LinkedInConfig struct {
	GeoID            string `json:"geo_id" yaml:"geo_id" validate:"required"`
	Keywords         string `json:"keywords" yaml:"keywords"`
	ExperienceLevels string `json:"experience_levels" yaml:"experience_levels"`
	TimePosted       string `json:"time_posted" yaml:"time_posted"`
	MaxPages         int    `json:"max_pages" yaml:"max_pages" validate:"min=1,max=40"`
	UseBrowser       bool   `json:"use_browser" yaml:"use_browser"`
}

// EventsConfig holds provider credentials and query settings.
// An empty credential disables that provider.
type EventsConfig struct {
	TicketmasterAPIKey string `json:"ticketmaster_api_key,omitempty" yaml:"ticketmaster_api_key,omitempty"`
	EventbriteToken    string `json:"eventbrite_token,omitempty" yaml:"eventbrite_token,omitempty"`
	RapidAPIKey        string `json:"rapidapi_key,omitempty" yaml:"rapidapi_key,omitempty"`
	City               string `json:"city" yaml:"city" validate:"required"`
	Country            string `json:"country" yaml:"country" validate:"required"`
	CountryCode        string `json:"country_code" yaml:"country_code" validate:"len=2"`
	TicketmasterLimit  int    `json:"ticketmaster_limit" yaml:"ticketmaster_limit" validate:"min=1,max=200"`
	EventbriteLimit    int    `json:"eventbrite_limit" yaml:"eventbrite_limit" validate:"min=1,max=200"`
	RapidAPILimit      int    `json:"rapidapi_limit" yaml:"rapidapi_limit" validate:"min=1,max=200"`
}

// GeminiConfig holds model selection and credentials.
type GeminiConfig struct {
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
	CredentialsJSON string `json:"credentials_json,omitempty" yaml:"credentials_json,omitempty"`
	Model           string `json:"model" yaml:"model" validate:"required"`
}

// HasCredentials reports whether any credential source is configured.
func (g GeminiConfig) HasCredentials() bool {
	return g.APIKey != "" || g.CredentialsFile != "" || g.CredentialsJSON != ""
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int           `json:"port" yaml:"port" validate:"min=1,max=65535"`
	RefreshInterval time.Duration `json:"refresh_interval" yaml:"refresh_interval"`
}

// HTTPConfig tunes outbound requests to job boards and providers.
type HTTPConfig struct {
	Timeout           time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent         string        `json:"user_agent" yaml:"user_agent"`
	AcceptLanguage    string        `json:"accept_language" yaml:"accept_language"`
	RequestsPerSecond float64       `json:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Store: StoreConfig{
			Backend: BackendRedis,
		},
		LinkedIn: LinkedInConfig{
			GeoID:            "102927786",
			ExperienceLevels: "1,2,3,4,5",
			TimePosted:       "r86400",
			MaxPages:         5,
		},
		Events: EventsConfig{
			City:              "Lima",
			Country:           "Peru",
			CountryCode:       "PE",
			TicketmasterLimit: 50,
			EventbriteLimit:   50,
			RapidAPILimit:     50,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-pro",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		HTTP: HTTPConfig{
			Timeout:           15 * time.Second,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			AcceptLanguage:    "es-ES,es;q=0.9,en;q=0.8",
			RequestsPerSecond: 1,
		},
	}
}

// Load builds the configuration: defaults, then the file at path (if any), then
// environment variables. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads a configuration file over the defaults without applying the environment.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	return nil
}

// applyEnv overlays environment variables. Unset variables leave values untouched.
func (c *Config) applyEnv() {
	c.LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", c.LogLevel))

	c.Redis.URL = getEnvString("REDIS_URL", c.Redis.URL)
	c.Redis.Host = getEnvString("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnvString("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Store.Backend = strings.ToLower(getEnvString("STORE_BACKEND", c.Store.Backend))
	c.Store.DatabaseURL = getEnvString("DATABASE_URL", c.Store.DatabaseURL)
	c.Store.SQLitePath = getEnvString("SQLITE_PATH", c.Store.SQLitePath)

	c.LinkedIn.GeoID = getEnvString("LINKEDIN_GEO_ID_PERU", c.LinkedIn.GeoID)
	c.LinkedIn.Keywords = getEnvString("LINKEDIN_KEYWORDS", c.LinkedIn.Keywords)
	c.LinkedIn.MaxPages = getEnvInt("LINKEDIN_MAX_PAGES", c.LinkedIn.MaxPages)
	c.LinkedIn.UseBrowser = getEnvBool("LINKEDIN_USE_BROWSER", c.LinkedIn.UseBrowser)

	c.Events.TicketmasterAPIKey = getEnvString("TICKETMASTER_API_KEY", c.Events.TicketmasterAPIKey)
	c.Events.EventbriteToken = getEnvString("EVENTBRITE_TOKEN", c.Events.EventbriteToken)
	c.Events.RapidAPIKey = getEnvString("RAPIDAPI_KEY", c.Events.RapidAPIKey)
	c.Events.City = getEnvString("EVENTS_CITY", c.Events.City)
	c.Events.Country = getEnvString("EVENTS_COUNTRY", c.Events.Country)

	c.Gemini.APIKey = getEnvString("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.CredentialsFile = getEnvString("GCP_SERVICE_ACCOUNT_FILE", c.Gemini.CredentialsFile)
	c.Gemini.CredentialsJSON = getEnvString("GCP_SERVICE_ACCOUNT_JSON", c.Gemini.CredentialsJSON)
	c.Gemini.Model = getEnvString("GEMINI_MODEL_NAME", c.Gemini.Model)

	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.RefreshInterval = getEnvDuration("REFRESH_INTERVAL", c.Server.RefreshInterval)

	c.HTTP.Timeout = getEnvDuration("HTTP_TIMEOUT", c.HTTP.Timeout)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(errs))
			for _, fe := range errs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Gemini.CredentialsJSON != "" && !json.Valid([]byte(c.Gemini.CredentialsJSON)) {
		return fmt.Errorf("config error: 'gemini.credentials_json' is not valid JSON")
	}
	return nil
}
