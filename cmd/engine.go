package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/agrisense/advisor-cli/internal/disease"
	"github.com/agrisense/advisor-cli/internal/history"
	"github.com/agrisense/advisor-cli/internal/kvstore"
	"github.com/agrisense/advisor-cli/internal/location"
	"github.com/agrisense/advisor-cli/internal/prefs"
	"github.com/agrisense/advisor-cli/internal/workflow"
	"github.com/agrisense/advisor-cli/pkg/advisory"
)

// engineEnv wires the advisory engine from configuration. Commands build
// it once per invocation and close it on exit.
type engineEnv struct {
	KV       kvstore.Store
	Prefs    *prefs.Prefs
	History  *history.Store
	Client   advisory.Client
	Resolver *location.Resolver
	Advisory *workflow.Advisory
	Disease  *disease.Pipeline
}

func initEngine(ctx context.Context) (*engineEnv, error) {
	kv, err := kvstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	client := advisory.NewClient(
		advisory.WithBaseURL(cfg.Advisory.BaseURL),
		advisory.WithRateLimit(cfg.Advisory.RateRPS, cfg.Advisory.RateBurst),
	)

	p := prefs.New(kv)
	hist := history.New(kv, cfg.History.Capacity)

	return &engineEnv{
		KV:      kv,
		Prefs:   p,
		History: hist,
		Client:  client,
		Resolver: location.NewResolver(client, p, location.Options{
			GPSTimeout: cfg.Location.GPSTimeout(),
		}),
		Advisory: workflow.New(client, hist),
		Disease:  disease.New(client, hist, cfg.Disease.MaxUploadBytes()),
	}, nil
}

func (e *engineEnv) Close() {
	_ = e.KV.Close()
}
