package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"paymentmcp/internal/bootstrap"
	"paymentmcp/internal/config"
	"paymentmcp/internal/handler"
	"paymentmcp/internal/payment"
	"paymentmcp/internal/pkg/utils"
	"paymentmcp/internal/router"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	// --- Config ---
	store, cfgErr := config.NewStore(flags)

	// --- Logger ---
	level := "info"
	logFile := ""
	if cfgErr == nil {
		level = store.Current().Log.Level
		logFile = store.Current().Log.File
	}
	logger, err := bootstrap.NewLogger(level, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Fatal("Failed to load config", zap.Error(cfgErr))
	}
	cfg := store.Current()

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider.Name),
		zap.String("transport", cfg.Server.Transport),
		zap.Bool("sandbox", cfg.Provider.Sandbox),
		zap.String("dealer_code", cfg.Dealer.DealerCode),
		zap.String("password", utils.MaskSecret(cfg.Dealer.Password)),
	)

	// --- Provider ---
	provider, err := payment.NewProvider(cfg.Provider.Name, cfg.Provider.Settings(), logger)
	if err != nil {
		logger.Fatal("Failed to create payment provider", zap.Error(err))
	}
	logger.Info("Initialized provider", zap.String("provider", provider.Name()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reloadOnHangup(ctx, store, logger)

	switch cfg.Server.Transport {
	case config.TransportSSE:
		runSSE(ctx, cfg, provider, logger)
	default:
		if err := handler.RunStdio(ctx, store, provider, logger); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Stdio session ended with error", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

func runSSE(ctx context.Context, cfg *config.Config, provider payment.Provider, logger *zap.Logger) {
	// --- Echo + Routes ---
	e := router.NewServer(ctx, handler.NewSSEHandler(cfg, provider, logger), cfg.Server.Name, logger)

	// --- Start Server ---
	addr := cfg.Server.Addr()
	go func() {
		logger.Info("Starting Payment MCP server", zap.String("addr", addr), zap.String("sse", "/sse"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

// reloadOnHangup re-reads configuration on SIGHUP so environment credential
// changes apply to the next tool call.
func reloadOnHangup(ctx context.Context, store *config.Store, logger *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := store.Reload(); err != nil {
				logger.Error("Configuration reload failed, keeping previous configuration", zap.Error(err))
				continue
			}
			logger.Info("Configuration reloaded")
		}
	}
}
