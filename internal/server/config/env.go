package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/microblog/internal/flagx"
)

// parseEnv overlays Config fields from environment variables, optionally
// loading a .env file first (path from the -c/-env-file flags, falling back
// to ./.env when present).
//
// Recognized variables:
//
//	PORT            listen port, e.g. "8080"
//	MONGOURI        mongodb connection string
//	MONGODB         database name
//	JWT_SECRET      token signing secret
//	TOKEN_TTL_MIN   token lifetime, minutes
//	BCRYPT_COST     bcrypt cost factor
//	IMAGE_DIR       upload directory (disk backend)
//	UPLOAD_BACKEND  "disk" or "s3"
//	S3_USER, S3_PASSWORD, S3_BUCKET, S3_REGION, S3_ENDPOINT
func parseEnv(config *Config) {

	envFile := flagx.EnvFileFlag()
	if envFile == "" {
		envFile = ".env"
	}
	// a missing .env file is fine, the process environment still applies
	_ = godotenv.Load(envFile)

	if v := os.Getenv("PORT"); v != "" {
		config.Addr = ":" + v
	}
	if v := os.Getenv("MONGOURI"); v != "" {
		config.MongoURI = v
	}
	if v := os.Getenv("MONGODB"); v != "" {
		config.MongoDB = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL_MIN"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.TokenTTL = time.Duration(minutes) * time.Minute
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = cost
		}
	}
	if v := os.Getenv("IMAGE_DIR"); v != "" {
		config.ImageDir = v
	}
	if v := os.Getenv("UPLOAD_BACKEND"); v != "" {
		config.UploadBackend = v
	}
	if v := os.Getenv("S3_USER"); v != "" {
		config.S3User = v
	}
	if v := os.Getenv("S3_PASSWORD"); v != "" {
		config.S3Password = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		config.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		config.S3Region = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		config.S3BaseEndpoint = v
	}
}
