package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

type Backend string

const (
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Tally"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		LogDir   string `envconfig:"LOG_DIR" default:"./logs"`
	}

	Store struct {
		Backend    Backend `envconfig:"STORE_BACKEND" default:"file"`
		Dir        string  `envconfig:"STORE_DIR" default:"./database"`
		StrictLoad bool    `envconfig:"STORE_STRICT_LOAD" default:"false"`
		BackupDir  string  `envconfig:"BACKUP_DIR" default:"./backups"`
		SQLitePath string  `envconfig:"SQLITE_PATH" default:"./database/tally.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Categories struct {
		Expense []string `envconfig:"EXPENSE_CATEGORIES" default:"Food,Transport,Shopping,Bills,Entertainment,Health,Education,Other"`
		Income  []string `envconfig:"INCOME_CATEGORIES" default:"Salary,Freelance,Investment,Gift,Other"`
	}

	// Events are published only when AMQP_URL is set.
	Events struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"tally.events"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// CategorySets returns the configured category sets with blank entries dropped.
func (c *Config) CategorySets() core.Categories {
	return core.Categories{
		Expense: clean(c.Categories.Expense),
		Income:  clean(c.Categories.Income),
	}
}

func clean(names []string) []string {
	out := make([]string, 0, len(names))

	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}

	return out
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func (c *Config) validate() error {
	if samePath(c.App.LogDir, c.Store.Dir) {
		return fmt.Errorf("LOG_DIR must differ from STORE_DIR, both are %q", c.Store.Dir)
	}

	switch c.Store.Backend {
	case BackendFile, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q, %q or %q, got %q",
			BackendFile, BackendPostgres, BackendSQLite, c.Store.Backend)
	}

	for _, n := range append(c.CategorySets().Expense, c.CategorySets().Income...) {
		if err := core.ValidateName(n); err != nil {
			return fmt.Errorf("category %q: %w", n, err)
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
