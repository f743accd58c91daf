package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/siteconf/internal/application"
	"github.com/eugenenazirov/siteconf/internal/composer"
	"github.com/eugenenazirov/siteconf/internal/config"
	"github.com/eugenenazirov/siteconf/internal/logging"
)

var (
	signalNotify = signal.Notify
	signalStop   = signal.Stop
)

func main() {
	kingpinApp := kingpin.New("siteconf", "Composes the web host configuration record from the environment")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()

	renderCmd := kingpinApp.Command("render", "Print the configuration record")
	format := renderCmd.Flag("format", "Output format").Enum(config.FormatJSON, config.FormatYAML)
	resolveStyles := renderCmd.Flag("resolve-styles", "Expand project-root aliases in stylesheet paths").Bool()

	serveCmd := kingpinApp.Command("serve", "Publish the configuration record over HTTP")
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		Port:       port,
		LogLevel:   logLevel,
	}

	if *format != "" {
		overrides.OutputFormat = format
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case renderCmd.FullCommand():
		if err := render(os.Stdout, cfg, logger, os.LookupEnv, *resolveStyles); err != nil {
			logger.Fatal("failed to render configuration", zap.Error(err))
		}
	case serveCmd.FullCommand():
		app, err := serve(cfg, logger, os.LookupEnv)
		if err != nil {
			logger.Fatal("failed to serve configuration", zap.Error(err))
		}
		if err := awaitShutdown(app, cfg.ShutdownGracePeriod, logger); err != nil {
			logger.Error("shutdown incomplete", zap.Error(err))
		}
	}
}

// render prints the record exactly as serve would publish it.
func render(w io.Writer, cfg config.Config, logger *zap.Logger, lookup composer.LookupFunc, resolveStyles bool) error {
	app, err := application.New(cfg, logger, lookup)
	if err != nil {
		return err
	}

	rec := app.Record()
	if resolveStyles {
		root, err := application.ResolveProjectRoot(cfg.ProjectRoot)
		if err != nil {
			return fmt.Errorf("resolve project root: %w", err)
		}
		rec.Styles = composer.ResolveStyles(rec.Styles, root)
	}

	return application.Render(w, rec, cfg.OutputFormat)
}

func serve(cfg config.Config, logger *zap.Logger, lookup composer.LookupFunc) (*application.App, error) {
	app, err := application.New(cfg, logger, lookup)
	if err != nil {
		return nil, fmt.Errorf("initialize application: %w", err)
	}
	if err := app.Start(); err != nil {
		return nil, fmt.Errorf("start server: %w", err)
	}
	return app, nil
}

// awaitShutdown blocks until SIGINT or SIGTERM, then drains in-flight requests
// within timeout before forcing the listener closed.
func awaitShutdown(app *application.App, timeout time.Duration, logger *zap.Logger) error {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGTERM)
	defer signalStop(quit)

	sig := <-quit
	logger.Info("shutting down server", zap.String("signal", sig.String()), zap.String("addr", app.Addr()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	server := app.Server()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			return fmt.Errorf("force close: %w", closeErr)
		}
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
