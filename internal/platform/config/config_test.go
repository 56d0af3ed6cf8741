package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Addr:           ":8080",
		DatabaseURL:    "postgres://localhost/paysheet",
		Environment:    "development",
		StorageDir:     "storage/reports",
		MaxUploadBytes: 10 << 20,
		UpsertPolicy:   "update",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = " "
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionRequiresJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "strong-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidateUpsertPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.UpsertPolicy = "merge"
	assert.Error(t, cfg.Validate())

	cfg.UpsertPolicy = "keep"
	assert.NoError(t, cfg.Validate())
}

func TestValidateUploadFloor(t *testing.T) {
	cfg := validConfig()
	cfg.MaxUploadBytes = 512
	assert.Error(t, cfg.Validate())
}
