package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/dagcanvas/internal/channel"
	"github.com/vk/dagcanvas/internal/config"
	"github.com/vk/dagcanvas/internal/ctxlog"
	"github.com/vk/dagcanvas/internal/renderer"
)

// Config holds everything an App instance needs to start.
type Config struct {
	// ConfigPath points at a .hcl file or directory; empty means
	// built-in defaults.
	ConfigPath string
	// Listen overrides the configured listen address when non-empty.
	Listen string

	LogFormat string
	LogLevel  string
}

// App encapsulates the canvas server's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *config.Config
	renderer *renderer.Renderer
	channel  *channel.Server
}

// NewApp constructs a fully wired application: isolated logger, loaded
// configuration, renderer, and channel server. A config that cannot be
// loaded is a fatal startup error and panics; main recovers it into a
// clean exit.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var paths []string
	if appConfig.ConfigPath != "" {
		paths = append(paths, appConfig.ConfigPath)
	}

	cfg, err := config.Load(ctx, paths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	if appConfig.Listen != "" {
		cfg.Listen = appConfig.Listen
	}
	logger.Debug("Configuration loaded.", "listen", cfg.Listen, "namespace", cfg.Namespace)

	rend := renderer.New(logger, cfg)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		renderer: rend,
		channel:  channel.New(logger, rend, cfg.Namespace),
	}
}

// Run serves the canvas channel until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Canvas server starting.", "listen", a.config.Listen)
	return a.channel.Listen(ctx, a.config.Listen)
}

// Renderer returns the application's renderer. Primarily for testing.
func (a *App) Renderer() *renderer.Renderer {
	return a.renderer
}

// Config returns the loaded configuration. Primarily for testing.
func (a *App) Config() *config.Config {
	return a.config
}
