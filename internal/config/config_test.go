package config

import (
	"testing"

	"github.com/flexprice/productcatalog/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.StageCODE, cfg.Deployment.Stage)
}

func TestValidateRequiresSourceSettings(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Catalog.Source = types.SourceKindS3
	assert.Error(t, cfg.Validate())

	cfg.S3.Bucket = "bucket"
	assert.NoError(t, cfg.Validate())

	cfg.Catalog.Source = types.SourceKindAPI
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownStage(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Deployment.Stage = "DEV"
	assert.Error(t, cfg.Validate())
}

func TestObjectKey(t *testing.T) {
	cfg := S3Config{KeyTemplate: "catalog/{stage}/catalog.json"}
	assert.Equal(t, "catalog/PROD/catalog.json", cfg.ObjectKey(types.StagePROD))
}

func TestNewConfigReadsEnv(t *testing.T) {
	t.Setenv("CATALOG_DEPLOYMENT_STAGE", "prod")
	t.Setenv("CATALOG_CATALOG_SOURCE", "file")
	t.Setenv("CATALOG_FILE_DIR", "/tmp/catalog")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, types.StagePROD, cfg.Deployment.Stage)
	assert.Equal(t, types.SourceKindFile, cfg.Catalog.Source)
	assert.Equal(t, "/tmp/catalog", cfg.File.Dir)
}
