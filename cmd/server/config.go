package main

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/apitour/pkg/file"
	"github.com/dmitrymomot/apitour/pkg/httpserver"
	"github.com/dmitrymomot/apitour/pkg/redis"
	"github.com/dmitrymomot/apitour/svc/catalog"
	"github.com/dmitrymomot/apitour/svc/user"
)

const (
	catalogMemory = "memory"
	catalogRedis  = "redis"

	uploadsNone  = "none"
	uploadsLocal = "local"
	uploadsS3    = "s3"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"apitour"`

	HTTP            httpserver.Config
	ClientIPHeaders []string `env:"CLIENT_IP_HEADERS" envDefault:"X-Forwarded-For,X-Real-IP"`

	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"fake"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`

	CatalogBackend     string `env:"CATALOG_BACKEND" envDefault:"memory"`
	CatalogSeedFile    string `env:"CATALOG_SEED_FILE"`
	CatalogRedisPrefix string `env:"CATALOG_REDIS_PREFIX" envDefault:"catalog:item:"`
	Redis              redis.Config

	UploadStorage string `env:"UPLOAD_STORAGE" envDefault:"none"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/static"`
	S3            file.S3Config

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Validate is called by config.Load.
func (c appConfig) Validate() error {
	var errs []error

	switch c.CatalogBackend {
	case catalogMemory, catalogRedis:
	default:
		errs = append(errs, fmt.Errorf("CATALOG_BACKEND must be %q or %q, got %q", catalogMemory, catalogRedis, c.CatalogBackend))
	}

	switch c.UploadStorage {
	case uploadsNone:
	case uploadsLocal:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for local uploads"))
		}
	case uploadsS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for s3 uploads"))
		}
	default:
		errs = append(errs, fmt.Errorf("UPLOAD_STORAGE must be one of none, local, s3, got %q", c.UploadStorage))
	}

	if _, err := user.NewHasher(c.PasswordHasher, c.BcryptCost); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// seedItems returns the catalogue seed: the YAML file when set, the built-in items otherwise.
func (c appConfig) seedItems() (map[string]catalog.Item, error) {
	if c.CatalogSeedFile == "" {
		return catalog.DefaultItems(), nil
	}
	return catalog.LoadYAML(c.CatalogSeedFile)
}
