// Package config carga la configuración del servicio: defaults, archivo
// TOML si existe, y overrides por variables de entorno.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath es el archivo de configuración que busca el binario si no se
// indica otro.
const DefaultPath = "memocha.toml"

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Schedule ScheduleConfig `toml:"schedule"`
	Log      LogConfig      `toml:"log"`
	Auth     AuthConfig     `toml:"auth"`
}

type ServerConfig struct {
	Addr string `toml:"addr"` // e.g. ":8080"
}

type DatabaseConfig struct {
	// DSN de Postgres. Vacío = repos in-memory (modo dev).
	DSN string `toml:"dsn"`
}

type ScheduleConfig struct {
	// Ventana de tolerancia en segundos a cada lado de la hora de dosis.
	WiggleSeconds int `toml:"wiggle_seconds"`

	// Zona local canónica en la que se resuelven todos los instantes
	// antes de entrar al núcleo de scheduling.
	Timezone string `toml:"timezone"`
}

type LogConfig struct {
	Level  string `toml:"level"`  // debug|info|warn|error
	Format string `toml:"format"` // text|json
}

type AuthConfig struct {
	// URL del servicio de verificación de tokens. Vacío = modo dev
	// (header X-Debug-User-ID).
	VerifyURL string `toml:"verify_url"`
	APIKey    string `toml:"api_key"`
}

// Default devuelve la configuración por defecto (dev, in-memory).
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{DSN: ""},
		Schedule: ScheduleConfig{
			WiggleSeconds: 1800,
			Timezone:      "Local",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load carga desde DefaultPath.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath)
}

// LoadFrom arranca de los defaults, superpone el archivo si existe, aplica
// overrides de entorno y valida.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // sin archivo, quedan los defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// Las env vars pisan al archivo.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEMOCHA_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MEMOCHA_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("MEMOCHA_WIGGLE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.WiggleSeconds = n
		}
	}
	if v := os.Getenv("MEMOCHA_TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("MEMOCHA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MEMOCHA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MEMOCHA_AUTH_VERIFY_URL"); v != "" {
		cfg.Auth.VerifyURL = v
	}
	if v := os.Getenv("MEMOCHA_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server addr must be set")
	}
	if c.Schedule.WiggleSeconds <= 0 {
		return errors.New("wiggle_seconds must be positive")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Schedule.Timezone, err)
	}
	return nil
}

// Wiggle devuelve la ventana de tolerancia como Duration.
func (c *Config) Wiggle() time.Duration {
	return time.Duration(c.Schedule.WiggleSeconds) * time.Second
}

// Location resuelve la zona local canónica. Validate ya garantizó que
// carga.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
