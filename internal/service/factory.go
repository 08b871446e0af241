package service

import (
	"github.com/flexprice/productcatalog/internal/config"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/source"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Source source.Source
}
