package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oipulse/oipulse/config"
	"github.com/oipulse/oipulse/internal/api"
	"github.com/oipulse/oipulse/internal/service"
	"github.com/oipulse/oipulse/internal/source"
)

// newAdapters is an indirection for creating the market adapters; tests can
// override this.
var newAdapters = func(cfg config.UpstreamConfig) (source.Adapter, source.Adapter) {
	return source.NewNSEAdapter(cfg), source.NewYahooAdapter(cfg)
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Constructs the NSE and Yahoo source adapters.
//   - Creates the chain service orchestrating fetch/normalize/aggregate.
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes (upstream reachability).
//   - Provides a cleanup function to release idle upstream connections.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Market adapters (indirection for unit testing)
	nse, us := newAdapters(cfg.Upstream)

	// Service layer (business logic)
	svc := service.NewChainService(nse, us, cfg.Pipeline)

	// HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(
		pingURL(cfg.Upstream.NSEBaseURL, cfg.Upstream.UserAgent),
		pingURL(cfg.Upstream.YahooBaseURL, cfg.Upstream.UserAgent),
	)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		closeAdapter(nse)
		closeAdapter(us)
	}

	return router, cleanup, nil
}

// pingURL returns a readiness check that HEADs the given base URL.
func pingURL(baseURL, userAgent string) func() error {
	client := &http.Client{Timeout: 3 * time.Second}
	return func() error {
		req, err := http.NewRequest(http.MethodHead, baseURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		res, err := client.Do(req)
		if err != nil {
			return err
		}
		_ = res.Body.Close()
		return nil
	}
}

// closeAdapter releases an adapter's idle connections when it exposes Close.
func closeAdapter(a source.Adapter) {
	if c, ok := a.(interface{ Close() }); ok {
		c.Close()
	}
}
