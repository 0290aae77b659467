package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/monitor/internal/config"
	"github.com/JaimeStill/monitor/pkg/openapi"
	"github.com/JaimeStill/monitor/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := []routes.Group{
		domain.Analyses.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	spec, err := specBytes(cfg, groups...)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.Serve(spec))

	return nil
}

func specBytes(cfg *config.Config, groups ...routes.Group) ([]byte, error) {
	spec := cfg.API.OpenAPI.Spec(cfg.Version, cfg.API.BasePath)

	routes.Document(spec, "", groups...)

	data, err := spec.Bytes()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return data, nil
}
