package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/fakeadmin"
)

var logLVL slog.Level = slog.LevelInfo

func init() {
	if _, debug := os.LookupEnv("DEBUG"); debug {
		logLVL = slog.LevelDebug
	}
}

func main() {
	ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer ctxCancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLVL}))

	addr := lookupEnv("FAKEADMIN_ADDR", ":8080")
	router := fakeadmin.NewRouter(
		lookupEnv("SEEDER_ACCESS_TOKEN", "dev-token"),
		lookupEnv("SEEDER_API_KEY", "dev-key"),
		logger,
	)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to listen and serve", slog.String("addr", addr), slog.Any("error", err))
			ctxCancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown server", slog.Any("error", err))
	}

	wg.Wait()

	stats := router.Stats()
	logger.Info("served requests",
		slog.Int64("requests", stats.Requests),
		slog.Int64("created", stats.Created),
		slog.Int64("rejected", stats.Rejected),
	)
}

func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
