package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/bata-cart/internal/adapter/handler"
	"github.com/rl1809/bata-cart/internal/core/service"
	"github.com/rl1809/bata-cart/internal/platform/logging"
)

const shutdownTimeout = 5 * time.Second

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC cart servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *RootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Service: "bata-cart", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStorage, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
		logger.Info("connections closed")
	}()

	carts := service.NewCarts(store, logger, cfg.CheckoutPath)

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterCartServiceServer(grpcServer, handler.NewGRPCHandler(carts, logger))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	// one slot per server so neither goroutine blocks on send
	errCh := make(chan error, 2)

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(carts, logger, cfg.SessionCookie)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(httpHandler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
		logger.Error("server failed, shutting down", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	return serveErr
}
