package wire

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mithrel/tutor/internal/backend"
	"github.com/mithrel/tutor/internal/config"
	"github.com/mithrel/tutor/internal/db"
	"github.com/mithrel/tutor/internal/render"
	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/internal/wizard"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *zap.Logger
	Store    *db.Store
	Backend  *backend.Client
	Wizard   *wizard.Service
	Sessions *session.Manager
	Renderer render.Renderer

	closer io.Closer
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, err
	}
	logger, err := NewLogger(v.GetString("log.level"), v.GetString("log.format"))
	if err != nil {
		return nil, err
	}
	engine, err := render.ParseEngine(v.GetString("render.engine"))
	if err != nil {
		return nil, err
	}
	client, err := backend.New(backend.Options{
		BaseURL:    v.GetString("backend.url"),
		APIVersion: v.GetString("backend.api_version"),
		Token:      v.GetString("backend.token"),
		Timeout:    time.Duration(v.GetInt("backend.timeout_seconds")) * time.Second,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	dsn := v.GetString("db_url")
	if dsn == "" {
		dsn = "sqlite://" + config.ResolveDBPath(v)
	}
	store, closer, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open drafts store: %w", err)
	}

	return &App{
		Cfg:      v,
		Log:      logger,
		Store:    store,
		Backend:  client,
		Wizard:   wizard.New(client, store, logger),
		Sessions: session.NewManager(time.Duration(v.GetInt("session.idle_minutes")) * time.Minute),
		Renderer: render.Renderer{Engine: engine, Sanitize: v.GetBool("render.sanitize")},
		closer:   closer,
	}, nil
}

// Close flushes the logger and closes the store.
func (a *App) Close() error {
	_ = a.Log.Sync()
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// NewLogger builds a zap logger writing to stderr.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("log.format %q must be console or json", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
