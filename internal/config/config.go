package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/productcatalog/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Catalog    CatalogConfig    `validate:"required"`
	S3         S3Config
	File       FileConfig
	Vendor     VendorConfig
}

type DeploymentConfig struct {
	Stage types.Stage `mapstructure:"stage" validate:"required,oneof=CODE PROD"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type CatalogConfig struct {
	Source types.SourceKind `mapstructure:"source" validate:"required,oneof=s3 file api"`
	// CacheTTL keeps fetched raw bytes per stage, zero disables the byte cache
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// MinFetchInterval spaces out fetches driven by repeated failures, zero disables it
	MinFetchInterval time.Duration `mapstructure:"min_fetch_interval"`
	// DiscountProducts are vendor product names holding only discounts or promotions
	DiscountProducts []string `mapstructure:"discount_products"`
}

type S3Config struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
	// KeyTemplate is the object key with {stage} substituted ex {stage}/catalog.json
	KeyTemplate string `mapstructure:"key_template"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

type VendorConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	PageSize     int           `mapstructure:"page_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/productcatalog")

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if stage, ok := types.ParseStage(string(config.Deployment.Stage)); ok {
		config.Deployment.Stage = stage
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file
func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()
	v.SetDefault("deployment.stage", defaults.Deployment.Stage)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("catalog.source", defaults.Catalog.Source)
	v.SetDefault("catalog.cache_ttl", defaults.Catalog.CacheTTL)
	v.SetDefault("catalog.min_fetch_interval", defaults.Catalog.MinFetchInterval)
	v.SetDefault("catalog.discount_products", defaults.Catalog.DiscountProducts)
	v.SetDefault("s3.region", defaults.S3.Region)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.key_template", defaults.S3.KeyTemplate)
	v.SetDefault("file.dir", defaults.File.Dir)
	v.SetDefault("vendor.base_url", "")
	v.SetDefault("vendor.client_id", "")
	v.SetDefault("vendor.client_secret", "")
	v.SetDefault("vendor.page_size", defaults.Vendor.PageSize)
	v.SetDefault("vendor.timeout", defaults.Vendor.Timeout)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Catalog.Source {
	case types.SourceKindS3:
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required when catalog.source is s3")
		}
	case types.SourceKindFile:
		if c.File.Dir == "" {
			return errors.New("file.dir is required when catalog.source is file")
		}
	case types.SourceKindAPI:
		if c.Vendor.BaseURL == "" || c.Vendor.ClientID == "" || c.Vendor.ClientSecret == "" {
			return errors.New("vendor.base_url, vendor.client_id and vendor.client_secret are required when catalog.source is api")
		}
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Stage: types.StageCODE},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Catalog: CatalogConfig{
			Source:           types.SourceKindFile,
			CacheTTL:         5 * time.Minute,
			MinFetchInterval: time.Second,
			DiscountProducts: types.DefaultDiscountProducts,
		},
		S3: S3Config{
			Region:      "eu-west-1",
			KeyTemplate: "{stage}/catalog.json",
		},
		File: FileConfig{Dir: "./catalog"},
		Vendor: VendorConfig{
			PageSize: 40,
			Timeout:  30 * time.Second,
		},
	}
}

// ObjectKey renders the S3 key template for a stage
func (c S3Config) ObjectKey(stage types.Stage) string {
	return strings.ReplaceAll(c.KeyTemplate, "{stage}", stage.String())
}
