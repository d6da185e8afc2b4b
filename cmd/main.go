package main

//
//  @title           oipulse API
//  @version         1.0
//  @description     Option-chain open interest & volume aggregation service.
//  @termsOfService  https://github.com/oipulse/oipulse
//  @contact.name    API Support
//  @contact.url     https://github.com/oipulse/oipulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        chain
//  @tag.description Endpoints for fetching and aggregating option chains
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/oipulse/oipulse/config"
	_ "github.com/oipulse/oipulse/docs" // swagger docs
	"github.com/oipulse/oipulse/internal/app"
	"github.com/oipulse/oipulse/internal/domain/models"
	"github.com/oipulse/oipulse/internal/export"
	"github.com/oipulse/oipulse/internal/logger"
	"github.com/oipulse/oipulse/internal/service"
	"github.com/oipulse/oipulse/internal/source"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., upstream connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runFetch runs the pipeline once for a single market/symbol and renders the
// aggregated table to stdout, or writes it to a CSV file when out is set.
func runFetch(ctx context.Context, svc service.ChainService, market models.Source, symbol string, expiry time.Time, out string) error {
	if out != "" {
		rows, report, err := svc.FetchRows(ctx, market, symbol, expiry)
		if err != nil {
			return err
		}
		body, err := export.ContractsCSV(rows)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
			return err
		}
		logger.L().Info().
			Str("file", out).
			Int("rows", len(rows)).
			Int("dropped", report.Dropped).
			Msg("chain written")
		return nil
	}

	resp, err := svc.GetChain(ctx, market, symbol, expiry)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Strike", "Call OI", "Put OI", "Call Vol", "Put Vol", "PCR(OI)"})
	for _, s := range resp.Strikes {
		pcr := ""
		if s.PCROI != nil {
			pcr = strconv.FormatFloat(*s.PCROI, 'f', 4, 64)
		}
		table.Append([]string{
			s.Strike.String(),
			strconv.FormatInt(s.CallOI, 10),
			strconv.FormatInt(s.PutOI, 10),
			strconv.FormatInt(s.CallVolume, 10),
			strconv.FormatInt(s.PutVolume, 10),
			pcr,
		})
	}
	table.Render()

	sum := resp.Summary
	totalPCR := "n/a"
	if sum.PCROI != nil {
		totalPCR = strconv.FormatFloat(*sum.PCROI, 'f', 4, 64)
	}
	fmt.Printf("%s %s  contracts=%d  call_oi=%d  put_oi=%d  pcr_oi=%s  dropped=%d\n",
		resp.Symbol, resp.Expiry.Format("2006-01-02"),
		sum.TotalContracts, sum.TotalCallOI, sum.TotalPutOI, totalPCR, resp.DroppedRows)
	return nil
}

// main is the entry point of the oipulse application.
//
// Modes (selected via --mode flag):
//   - fetch: Fetches one option chain, aggregates it, and prints (or exports) the result.
//   - api:   Starts the REST API exposing the chain pipeline.
//
// Flags:
//   - --mode:   Execution mode ("fetch" or "api"). Default: "fetch".
//   - --market: Market for fetch mode ("NSE" or "US"). Default: "NSE".
//   - --symbol: Underlying symbol for fetch mode. Default: "NIFTY".
//   - --expiry: Expiry in YYYY-MM-DD (empty = nearest listed).
//   - --out:    CSV output path for fetch mode (empty = render a table to stdout).
//   - --port:   Port for API mode. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "fetch", "Mode: fetch or api")
	marketFlag := flag.String("market", "NSE", "Market for fetch mode: NSE or US")
	symbol := flag.String("symbol", "NIFTY", "Underlying symbol for fetch mode")
	expiryFlag := flag.String("expiry", "", "Expiry (YYYY-MM-DD); empty selects nearest listed")
	out := flag.String("out", "", "CSV output path for fetch mode (empty prints a table)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "fetch":
		cfg := config.AppConfig

		var market models.Source
		switch *marketFlag {
		case "NSE", "nse":
			market = models.SourceNSE
		case "US", "us", "YAHOO", "yahoo":
			market = models.SourceUS
		default:
			logger.L().Fatal().Str("market", *marketFlag).Msg("unknown market")
		}

		var expiry time.Time
		if *expiryFlag != "" {
			parsed, err := time.Parse("2006-01-02", *expiryFlag)
			if err != nil {
				logger.L().Fatal().Err(err).Msg("invalid expiry, expected YYYY-MM-DD")
			}
			expiry = parsed
		}

		nse := source.NewNSEAdapter(cfg.Upstream)
		us := source.NewYahooAdapter(cfg.Upstream)
		defer nse.Close()
		defer us.Close()
		svc := service.NewChainService(nse, us, cfg.Pipeline)

		if err := runFetch(ctx, svc, market, *symbol, expiry, *out); err != nil {
			logger.L().Fatal().Err(err).Msg("fetch failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
