// Package config loads site settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config carries everything main needs to wire the site together.
type Config struct {
	Env        string `yaml:"env" env:"POS_WEB_ENV" env-default:"dev"`
	HTTPServer `yaml:"http_server"`
	API        `yaml:"api"`
	Session    `yaml:"session"`
	Paths      `yaml:"paths"`
}

// HTTPServer configures the listener.
type HTTPServer struct {
	Address      string        `yaml:"address" env:"POS_WEB_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// API points at the remote account service that owns all business state.
type API struct {
	BaseURL string        `yaml:"base_url" env:"POS_WEB_API_BASE" env-default:"https://api.libiss.com/api/v1"`
	Timeout time.Duration `yaml:"timeout" env:"POS_WEB_API_TIMEOUT" env-default:"8s"`
}

// Session configures the signed session cookie.
type Session struct {
	SigningKey string `yaml:"signing_key" env:"POS_WEB_SESSION_SIGNING_KEY"`
}

// Paths locates on-disk resources.
type Paths struct {
	Templates string `yaml:"templates" env:"POS_WEB_TEMPLATES" env-default:"templates"`
	Locales   string `yaml:"locales" env:"POS_WEB_LOCALES" env-default:"locales"`
	Public    string `yaml:"public" env:"POS_WEB_PUBLIC" env-default:"public"`
	Content   string `yaml:"content" env:"POS_WEB_CONTENT" env-default:"content"`
}

// MustLoad reads CONFIG_PATH when set, otherwise environment and defaults only.
func MustLoad() *Config {
	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			log.Fatalf("config file %s: %v", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
		return &cfg
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	return &cfg
}

// Prod reports whether the site runs with production hardening (secure cookies).
func (c *Config) Prod() bool { return c.Env == "prod" }
