package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aaron/pitwall/internal/config"
	"github.com/aaron/pitwall/internal/f1api"
	"github.com/aaron/pitwall/internal/feed"
	"github.com/aaron/pitwall/internal/handlers"
	"github.com/aaron/pitwall/internal/logging"
	"github.com/aaron/pitwall/internal/middleware"
	"github.com/aaron/pitwall/internal/openf1"
	"github.com/aaron/pitwall/internal/supervisor"
	"github.com/aaron/pitwall/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	loc, err := cfg.Location()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid timezone")
	}

	client := upstream.NewClient(cfg.Upstream.Timeout, cfg.Upstream.UserAgent)
	svc := feed.NewService(
		f1api.NewClient(client, cfg.Upstream.F1APIURL),
		openf1.NewClient(client, cfg.Upstream.OpenF1URL),
		feed.Options{
			Location:    loc,
			EventDetail: cfg.Schedule.EventDetail,
			Grace:       cfg.Expiry.Grace,
		},
	)

	rateLimit := middleware.Disabled
	if cfg.RateLimit.Disabled {
		logging.Warn().Msg("Rate limiting disabled")
	} else {
		limiter := middleware.NewLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		logging.Info().
			Int("requests", limiter.Requests()).
			Dur("window", limiter.Window()).
			Msg("Rate limiting /f1 per client")
		rateLimit = limiter.Middleware
	}
	router := handlers.NewRouter(handlers.New(svc), handlers.RouterOptions{
		CORSOrigins: cfg.CORS.Origins,
		RateLimit:   rateLimit,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", cfg.Addr()).
		Str("timezone", loc.String()).
		Str("event_detail", cfg.Schedule.EventDetail).
		Msg("Listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor stopped")
		os.Exit(1)
	}
	logging.Info().Msg("Stopped")
}
