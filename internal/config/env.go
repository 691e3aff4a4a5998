package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultDotEnvFile is loaded, when present, before the environment is read.
const DefaultDotEnvFile = ".env"

// Env holds the settings that can be supplied through environment variables.
// Zero values mean the variable was not set.
type Env struct {
	// APIURL keeps the variable name used by the web frontend so both share one setting.
	APIURL            string        `env:"NEXT_PUBLIC_API_URL"`
	Timeout           time.Duration `env:"MCPCAT_TIMEOUT"`
	ValidateResponses *bool         `env:"MCPCAT_VALIDATE_RESPONSES"`
	APIAddr           string        `env:"MCPCAT_API_ADDR"`
}

// LoadEnv loads any of the given dotenv files that exist into the process environment,
// without overriding variables that are already set, and then parses Env from it.
func LoadEnv(dotEnvFiles ...string) (Env, error) {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Env{}, fmt.Errorf("%w: failed to load %s: %w", ErrConfigLoadFailed, f, err)
		}
	}

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}

	return e, nil
}

// ParseEnv parses Env from the supplied variables instead of the process environment.
func ParseEnv(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}

	return e, nil
}
