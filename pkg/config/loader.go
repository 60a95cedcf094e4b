// Package config populates configuration structs from the process
// environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from environment variables. cfg must be a pointer to a
// struct whose fields carry `env` tags; `envDefault` supplies the value
// for variables that are unset.
//
//	type Config struct {
//		Addr     string `env:"HTTP_ADDR" envDefault:":8080"`
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
// A tagged field that fails to parse (for example a malformed duration)
// is reported as an error rather than silently zeroed.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
