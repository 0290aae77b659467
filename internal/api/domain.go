package api

import (
	"github.com/JaimeStill/monitor/internal/analyses"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses analyses.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	store := analyses.NewStore(
		runtime.Database.Connection(),
		runtime.Database.Dialect(),
		runtime.Logger,
	)

	analysesSystem := analyses.New(
		store,
		runtime.Classifier,
		runtime.Logger,
		runtime.Pagination,
		analyses.WithMetrics(analyses.NewMetrics(runtime.Metrics.Factory())),
	)

	return &Domain{
		Analyses: analysesSystem,
	}
}
