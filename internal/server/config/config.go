// Package config handles configuration for the server, layering defaults,
// an optional .env file, process environment variables and command-line
// flags, in that order.
package config

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the blog server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - MongoURI / MongoDB: connection string and database name.
//   - JWTSecret: HMAC secret for signing session tokens (HS256).
//   - TokenTTL: session token lifetime.
//   - BcryptCost: password hashing cost factor.
//   - PageSize: posts per page in the feed.
//   - ImageDir: directory for uploaded images (disk backend).
//   - UploadBackend: "disk" or "s3".
//   - S3User / S3Password / S3Bucket / S3Region / S3BaseEndpoint: object
//     storage settings for the s3 backend.
type Config struct {
	Addr           string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	PageSize       int64
	ImageDir       string
	UploadBackend  string
	S3User         string
	S3Password     string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.MongoDB = "blog"
	c.JWTSecret = "somesupersupersecret"
	c.TokenTTL = 1 * time.Hour
	c.BcryptCost = 12
	c.PageSize = 2
	c.ImageDir = "images"
	c.UploadBackend = "disk"
	c.S3Bucket = "blog-images"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate reports the startup-fatal conditions.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("missing required configuration: MONGOURI")
	}
	if c.Addr == "" {
		return errors.New("missing required configuration: listen address")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.New("bcrypt cost out of range")
	}
	if c.UploadBackend != "disk" && c.UploadBackend != "s3" {
		return errors.New("upload backend must be \"disk\" or \"s3\"")
	}
	return nil
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional .env file, the process environment and command-line flags.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
