package app

import (
	"context"
	"io"

	"go.uber.org/zap"

	"studentbook/internal/config"
	"studentbook/internal/logger"
	"studentbook/internal/repository/bolt"
	"studentbook/internal/repository/credfile"
	"studentbook/internal/repository/recordfile"
	"studentbook/internal/repository/sqlite"
	"studentbook/internal/service"
)

type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Services *service.Services

	recordsClose io.Closer
}

// NewLogger builds the error log described by cfg. It always returns a usable
// logger.
func NewLogger(cfg config.Config) *zap.Logger {
	log, err := logger.New(
		logger.WithPath(cfg.Log.ErrorFile),
		logger.WithLevel(cfg.Log.Level),
		logger.WithRotation(cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.Compress),
	)
	if err != nil {
		log.Error("invalid log level, logging at error", zap.String("level", cfg.Log.Level), zap.Error(err))
	}
	return log
}

// New opens the credential and record stores and builds the services. The
// credential store is loaded immediately; records are loaded at session start.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	records, closer, err := openRecordStore(cfg)
	if err != nil {
		return nil, err
	}
	services, err := service.NewServices(ctx, credfile.New(cfg.UsersFile, cfg.AtomicWrites), records)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	log.Debug("stores ready",
		zap.String("users_file", cfg.UsersFile),
		zap.String("data_file", cfg.DataPath()),
		zap.String("backend", cfg.RecordBackend),
	)
	return &App{Config: cfg, Logger: log, Services: services, recordsClose: closer}, nil
}

func openRecordStore(cfg config.Config) (service.RecordStore, io.Closer, error) {
	switch cfg.RecordBackend {
	case config.BackendSQLite:
		repo, err := sqlite.New(cfg.DataPath())
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	case config.BackendBolt:
		store, err := bolt.Open(cfg.DataPath())
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		store := recordfile.New(cfg.DataPath(), cfg.AtomicWrites)
		return store, store, nil
	}
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.recordsClose.Close()
}
