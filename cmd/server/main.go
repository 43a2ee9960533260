package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardhilabs/plotshare-backend/internal/adapter/events"
	"github.com/ardhilabs/plotshare-backend/internal/adapter/httpapi"
	"github.com/ardhilabs/plotshare-backend/internal/adapter/repository/memory"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/escrow"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/ledger"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/registry"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/splitter"
	"github.com/ardhilabs/plotshare-backend/pkg/logging"
)

const (
	defaultAPIToken = "dev-token"
	defaultAddr     = ":8080"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	// 1. Ledger state store and payment gateway
	db := memory.NewDB()
	gateway := memory.NewGateway(db)
	publisher := events.NewLog(slog.Default())

	// 2. Component services. The coordinator binds to them permanently,
	// so all three must exist before it is constructed.
	registryService := registry.NewService(memory.NewPropertyRepository(db), publisher)
	ledgerService := ledger.NewService(memory.NewSharePoolRepository(db), gateway, db, publisher)
	splitterService := splitter.NewService(memory.NewStakeholderRepository(db), gateway, db, publisher)
	coordinator := escrow.NewService(registryService, ledgerService, splitterService,
		memory.NewEscrowRepository(db), db, publisher)

	// 3. HTTP API
	apiToken := getEnv("API_TOKEN", defaultAPIToken)
	addr := getEnv("HTTP_ADDR", defaultAddr)

	apiServer := httpapi.NewServer(registryService, ledgerService, splitterService, coordinator)
	server := &http.Server{
		Addr:         addr,
		Handler:      apiServer.Handler(apiToken),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("settlement API listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server
func waitForShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	slog.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
