package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/siteconf/internal/api"
	"github.com/eugenenazirov/siteconf/internal/composer"
	"github.com/eugenenazirov/siteconf/internal/config"
	"github.com/eugenenazirov/siteconf/internal/logging"
	"github.com/eugenenazirov/siteconf/internal/storage"
)

// App encapsulates the composed record, its store and the HTTP server publishing it.
type App struct {
	record   composer.Record
	storage  storage.Storage
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
	listener net.Listener
}

// New composes the configuration record once from lookup and wires the
// publishing server around it.
func New(cfg config.Config, logger *zap.Logger, lookup composer.LookupFunc) (*App, error) {
	rec, err := ComposeRecord(logger, lookup)
	if err != nil {
		return nil, err
	}

	store := storage.NewMemoryStorage()
	if err := store.Publish(rec); err != nil {
		return nil, fmt.Errorf("failed to publish configuration record: %w", err)
	}

	router := api.NewRouter(api.NewHandler(store), logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithRegistry(prometheus.NewRegistry()),
	)

	return &App{
		record:  rec,
		storage: store,
		router:  router,
		logger:  logger,
		server:  NewServer(cfg, router),
	}, nil
}

// ComposeRecord builds and validates the record, logging which public values
// are configured without revealing them.
func ComposeRecord(logger *zap.Logger, lookup composer.LookupFunc) (composer.Record, error) {
	rec := composer.Compose(lookup)
	if err := rec.Validate(); err != nil {
		return composer.Record{}, fmt.Errorf("invalid configuration record: %w", err)
	}

	pub := rec.RuntimeConfig.Public
	logger.Info("configuration composed",
		zap.String("compatibility_date", rec.CompatibilityDate),
		zap.Bool("devtools", rec.Devtools.Enabled),
		zap.Strings("modules", rec.Modules),
		zap.Strings("styles", rec.Styles),
		zap.Int("plugins", len(rec.AssetPipeline.Plugins)),
		logging.SecretField("firebaseApiKey", pub.FirebaseAPIKey),
		logging.SecretField("firebaseDatabaseUrl", pub.FirebaseDatabaseURL),
		logging.SecretField("firebaseProjectId", pub.FirebaseProjectID),
		logging.SecretField("googleMapsApiKey", pub.GoogleMapsAPIKey),
	)
	if missing := pub.Missing(); len(missing) > 0 {
		logger.Debug("public runtime values not configured", zap.Strings("keys", missing))
	}
	return rec, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start binds the listen address and serves the published record in a goroutine.
// Bind failures are returned to the caller.
func (a *App) Start() error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	a.listener = ln
	a.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded, otherwise the configured one.
func (a *App) Addr() string {
	if a.listener == nil {
		return a.server.Addr
	}
	return a.listener.Addr().String()
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Record returns a copy of the record the server publishes.
func (a *App) Record() composer.Record {
	return a.record.Clone()
}

// Render writes rec to w in the given format.
func Render(w io.Writer, rec composer.Record, format string) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}

// ResolveProjectRoot returns explicit when set, otherwise the nearest directory
// at or above the working directory that contains go.mod.
func ResolveProjectRoot(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}

	path, err := resolveProjectPath("go.mod")
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
