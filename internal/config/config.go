package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is the register's environment-driven configuration. A local .env
// file is honored outside production.
type Config struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`

	// DatabaseURL switches the menu store to PostgreSQL; empty keeps the
	// data/menu.json file.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	DataDir string `envconfig:"DATA_DIR" default:"data"`
	DistDir string `envconfig:"DIST_DIR" default:"dist"`

	// Interface name hints tried first when picking the advertised address.
	PreferredInterface  string   `envconfig:"PREFERRED_INTERFACE" default:"rmnet_data2"`
	PreferredInterfaces []string `envconfig:"PREFERRED_INTERFACES"`
}

func Load() (Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: parse environment")
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InterfaceHints merges the single preferred interface with the list, in
// the order they should be tried.
func (c Config) InterfaceHints() []string {
	hints := make([]string, 0, len(c.PreferredInterfaces)+1)
	hints = append(hints, c.PreferredInterfaces...)
	if c.PreferredInterface != "" {
		hints = append(hints, c.PreferredInterface)
	}
	return hints
}
