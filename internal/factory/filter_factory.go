package factory

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/adapters/filter"
	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
)

// FilterFactory creates the entry surfaces around the phishing service
type FilterFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *core.PhishingService
	gatherer prometheus.Gatherer
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.PhishingService, gatherer prometheus.Gatherer) *FilterFactory {
	return &FilterFactory{
		cfg:      cfg,
		logger:   logger,
		service:  service,
		gatherer: gatherer,
	}
}

// CreateCLIFilter creates the terminal filter
func (f *FilterFactory) CreateCLIFilter(verbose, jsonOutput bool) (*filter.CliFilter, error) {
	return filter.NewCliFilter(f.service, f.logger, verbose, jsonOutput)
}

// CreateHTTPFilter creates the JSON HTTP API
func (f *FilterFactory) CreateHTTPFilter() (*filter.HTTPFilter, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, err
	}
	return filter.NewHTTPFilter(f.service, f.logger, serverCfg.ListenAddress, serverCfg.ReadTimeout, f.gatherer)
}
