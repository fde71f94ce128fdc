package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from environment variables. A .env
// file in the working directory is loaded first when present (it never
// overrides variables already set in the real environment).
//
// Recognized variables:
//
//	ADDRESS            HTTP bind address
//	DATABASE_DSN       PostgreSQL DSN
//	JWT_SECRET         token signing secret
//	TOKEN_VALIDITY     session token lifetime (Go duration string)
//	PUBLIC_DIR         public directory root
//	STORAGE_BACKEND    "fs" or "s3"
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//	DEEPGRAM_API       Deepgram API key
//	DEEPGRAM_ENDPOINT  Deepgram base URL
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(name string, target *string) {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}

	setIfPresent("ADDRESS", &config.EndpointAddrHTTP)
	setIfPresent("DATABASE_DSN", &config.DatabaseDSN)
	setIfPresent("JWT_SECRET", &config.SecretKey)
	setIfPresent("PUBLIC_DIR", &config.PublicDir)
	setIfPresent("STORAGE_BACKEND", &config.StorageBackend)
	setIfPresent("S3_ROOT_USER", &config.S3RootUser)
	setIfPresent("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setIfPresent("S3_BUCKET", &config.S3Bucket)
	setIfPresent("S3_REGION", &config.S3Region)
	setIfPresent("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	setIfPresent("DEEPGRAM_API", &config.DeepgramAPIKey)
	setIfPresent("DEEPGRAM_ENDPOINT", &config.DeepgramBaseEndpoint)

	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
}
