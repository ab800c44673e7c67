package di

import (
	"fmt"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/service/alphavantage"
	"StockPulse/internal/service/fmp"
	"StockPulse/internal/service/retry"
	"StockPulse/internal/service/simulate"
	"StockPulse/internal/service/yahoo"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideHTTPClient creates the outbound HTTP client shared by adapters.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Fetch.AttemptTimeout))
}

// ProvideCache creates the cache backend selected in configuration.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
	case "", "memory":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideExecutor creates the bounded-retry executor.
func ProvideExecutor(cfg *config.Config, l *logger.Logger) *retry.Executor {
	return retry.New(l,
		retry.WithMaxAttempts(cfg.Fetch.MaxAttempts),
		retry.WithAttemptTimeout(cfg.Fetch.AttemptTimeout),
		retry.WithJitter(cfg.Fetch.JitterMin, cfg.Fetch.JitterMax),
		retry.WithCooldown(cfg.Fetch.RateLimitCooldown),
	)
}

// ProvideSimulator creates the fallback data simulator.
func ProvideSimulator() *simulate.Simulator {
	return simulate.New()
}

// ProvideProviderFactory builds adapters by provider id. An empty key for
// the keyed provider falls back to the configured one.
func ProvideProviderFactory(cfg *config.Config, hc *xhttp.Client, l *logger.Logger) usecase.ProviderFactory {
	return func(id, apiKey string) (repository.StockProvider, error) {
		switch id {
		case models.ProviderYahoo:
			return yahoo.New(hc, l), nil
		case models.ProviderFMP:
			return fmp.New(hc, l), nil
		case models.ProviderAlphaVantage:
			if apiKey == "" {
				apiKey = cfg.Provider.AlphaVantageKey
			}
			return alphavantage.New(hc, apiKey, l)
		default:
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, id)
		}
	}
}

// ProvideGateway creates the unified quote gateway bound to the default
// provider from configuration.
func ProvideGateway(
	cfg *config.Config,
	factory usecase.ProviderFactory,
	exec *retry.Executor,
	sim *simulate.Simulator,
	c cache.Service,
	m repository.Metrics,
	l *logger.Logger,
) (*usecase.Gateway, error) {
	return usecase.NewGateway(cfg.Provider.Default, cfg.Provider.AlphaVantageKey, usecase.GatewayOptions{
		Factory:   factory,
		Executor:  exec,
		Simulator: sim,
		Cache:     c,
		Metrics:   m,
		Logger:    l,
		QuoteTTL:  cfg.Cache.QuoteTTL,
		SeriesTTL: cfg.Cache.SeriesTTL,
	})
}

// ProvideStocksHandler creates the HTTP handler.
func ProvideStocksHandler(l *logger.Logger, gw *usecase.Gateway) *api.StocksEchoHandler {
	return api.NewStocksEchoHandler(l, gw)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, l *logger.Logger, h *api.StocksEchoHandler) *server.App {
	return server.New(cfg, l, h)
}
