package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quizdeck/internal/domain"
	"quizdeck/internal/session"
)

// Storage backends the snapshot can live in.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Storage struct {
		Backend string `yaml:"backend"`
		SQLite  struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Postgres struct {
			URL string `yaml:"url"`
		} `yaml:"postgres"`
	} `yaml:"storage"`
	Session struct {
		QuestionSeconds int `yaml:"question_seconds"`
	} `yaml:"session"`
	Gemini struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"gemini"`
	SeedAdmin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"seed_admin"`
}

// Load reads YAML config from path. A missing file is not an error:
// defaults make the app runnable with zero configuration.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return withDefaults(cfg), nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "quizdeck.db"
	}
	if cfg.Session.QuestionSeconds <= 0 {
		cfg.Session.QuestionSeconds = session.DefaultQuestionSeconds
	}
	if key := os.Getenv("GEMINI_API_KEY"); cfg.Gemini.APIKey == "" && key != "" {
		cfg.Gemini.APIKey = key
	}
	if cfg.SeedAdmin.Email == "" {
		cfg.SeedAdmin.Email = domain.DefaultSuperAdminEmail
	}
	if cfg.SeedAdmin.Password == "" {
		cfg.SeedAdmin.Password = domain.DefaultSuperAdminPassword
	}
	return cfg
}

// Seed returns the super admin account this deployment boots with.
func (c Config) Seed() domain.User {
	seed := domain.SeedSuperAdmin()
	seed.Email = c.SeedAdmin.Email
	seed.Password = c.SeedAdmin.Password
	return seed
}
