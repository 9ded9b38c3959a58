package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/CatsApp/internal/config"
	"github.com/GoArmGo/CatsApp/internal/core/ports"
	"github.com/GoArmGo/CatsApp/internal/usecase"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
)

type App struct {
	Config          *config.Config
	logger          *slog.Logger
	db              io.Closer
	catUseCase      usecase.CatUseCase
	photoStore      ports.PhotoStore
	uploadRules     usecase.UploadRules
	cleanupConsumer ports.OrphanCleanupConsumer
	queue           io.Closer
	uploadLimiter   chan struct{}
}

// Deps зависимости, собранные контейнером
type Deps struct {
	DB              io.Closer
	CatUseCase      usecase.CatUseCase
	PhotoStore      ports.PhotoStore
	UploadRules     usecase.UploadRules
	CleanupConsumer ports.OrphanCleanupConsumer
	Queue           io.Closer
	UploadLimiter   chan struct{}
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Deps) *App {
	return &App{
		Config:          cfg,
		logger:          logger,
		db:              deps.DB,
		catUseCase:      deps.CatUseCase,
		photoStore:      deps.PhotoStore,
		uploadRules:     deps.UploadRules,
		cleanupConsumer: deps.CleanupConsumer,
		queue:           deps.Queue,
		uploadLimiter:   deps.UploadLimiter,
	}
}

// Logger возвращает основной логгер приложения
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до сигнала завершения
func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting app", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.logger, a.catUseCase, a.photoStore, a.uploadRules, a.uploadLimiter)
	case ModeWorker:
		err = runWorker(ctx, a.logger, a.photoStore, a.cleanupConsumer)
	default:
		err = fmt.Errorf("unknown mode %q (use %q or %q)", mode, ModeServer, ModeWorker)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}

	if err != nil {
		return err
	}
	a.logger.Info("app stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close queue: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
