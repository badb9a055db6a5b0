// Package config loads environment configuration into typed structs.
//
// A .env file in the working directory is read once (missing is fine) and then
// caarlos0/env parses `env` tags. Each config type is parsed once per process and
// served from cache afterwards. Types implementing Validate() error are checked
// after parsing.
//
//	type Config struct {
//		AppEnv string            `env:"APP_ENV" envDefault:"development"`
//		HTTP   httpserver.Config `envPrefix:""`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNilPointer    = errors.New("nil pointer provided to config loader")
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	cache      sync.Map // reflect.Type -> *entry
	dotenvOnce sync.Once
)

// Load fills v from the environment. Subsequent calls for the same type return
// the cached result, including a cached error.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	e, _ := cache.LoadOrStore(reflect.TypeFor[T](), &entry{})
	ent := e.(*entry)
	ent.once.Do(func() {
		var cfg T
		ent.value, ent.err = parse(&cfg)
	})
	if ent.err != nil {
		return ent.err
	}

	*v = ent.value.(T)
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Parse reads the environment into v without caching. Useful in tests.
func Parse[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	cfg, err := parse(v)
	if err != nil {
		return err
	}
	*v = cfg
	return nil
}

func parse[T any](v *T) (T, error) {
	if err := env.Parse(v); err != nil {
		return *v, errors.Join(ErrParsingConfig, err)
	}
	if val, ok := any(v).(interface{ Validate() error }); ok {
		if err := val.Validate(); err != nil {
			return *v, errors.Join(ErrInvalidConfig, err)
		}
	}
	return *v, nil
}
