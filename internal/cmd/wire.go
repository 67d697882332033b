package cmd

import (
	"time"

	"github.com/jimezsa/jobassist/internal/config"
	"github.com/jimezsa/jobassist/internal/network"
	"github.com/jimezsa/jobassist/internal/provider"
	"github.com/jimezsa/jobassist/internal/scraper"
	"github.com/jimezsa/jobassist/internal/search"
)

const proxyBanDuration = 10 * time.Minute

// newSearchService builds the jobs API client (when an API key is configured)
// and the standard search agent behind it.
func newSearchService(ctx *Context, proxiesFlag string) (*search.Service, error) {
	cfg := ctx.Config

	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}
	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}

	registry, err := scraper.Registry(rotator, cfg.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	agent := scraper.NewAgent(registry, ctx.Logger)

	var api search.Provider
	if cfg.HasAPIKey() {
		flavor, err := provider.ParseFlavor(cfg.Provider)
		if err != nil {
			return nil, err
		}
		client, err := network.NewClient(nil, cfg.TimeoutSeconds)
		if err != nil {
			return nil, err
		}
		api = provider.New(client, provider.Options{
			APIKey:   cfg.APIKey,
			Flavor:   flavor,
			Endpoint: cfg.Endpoint,
			Language: cfg.Language,
		}, ctx.Logger)
	} else {
		ctx.Logger.Debug().Msg("no api key configured, jobs API disabled")
	}

	return search.NewService(api, agent, ctx.Logger), nil
}
