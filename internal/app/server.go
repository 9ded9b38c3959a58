package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/GoArmGo/CatsApp/internal/config"
	"github.com/GoArmGo/CatsApp/internal/core/ports"
	"github.com/GoArmGo/CatsApp/internal/handler"
	"github.com/GoArmGo/CatsApp/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// runServer запускает HTTP сервер и блокируется до отмены контекста
func runServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	catUseCase usecase.CatUseCase,
	photoStore ports.PhotoStore,
	rules usecase.UploadRules,
	uploadLimiter chan struct{},
) error {
	catHandler := handler.NewCatHandler(catUseCase, rules, uploadLimiter, logger)
	router := handler.NewRouter(handler.RouterDeps{
		Cats:           catHandler,
		Page:           handler.NewPageHandler(catHandler),
		Storage:        handler.NewStorageHandler(photoStore, logger),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}
	return serve(ctx, server, ln, logger)
}

// serve обслуживает соединения до отмены ctx, затем делает graceful shutdown
func serve(ctx context.Context, server *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
