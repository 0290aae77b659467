package api

import (
	"github.com/JaimeStill/monitor/internal/classifier"
	"github.com/JaimeStill/monitor/internal/config"
	"github.com/JaimeStill/monitor/internal/infrastructure"
	"github.com/JaimeStill/monitor/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Classifier *classifier.Client
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger and the
// classifier client shared by domain systems.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Metrics:   infra.Metrics,
		},
		Classifier: classifier.New(
			&cfg.Classifier,
			logger,
			classifier.WithMetrics(classifier.NewMetrics(infra.Metrics.Factory())),
		),
		Pagination: cfg.API.Pagination,
	}
}
