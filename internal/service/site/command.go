package site

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	api "github.com/ollielynas/reanimator-site/internal/api/grpc/release"
	"github.com/ollielynas/reanimator-site/internal/config"
	"github.com/ollielynas/reanimator-site/internal/logger"
	"github.com/ollielynas/reanimator-site/internal/service/resolver"
)

// Options controls the release-site process.
type Options struct {
	// ConfigPath specifies the path to the settings file.
	ConfigPath string
	// ListenAddress overrides the configured HTTP listen address.
	ListenAddress string
	// GRPCAddress overrides the configured gRPC listen address.
	GRPCAddress string
}

const (
	// readHeaderTimeout bounds slow clients.
	readHeaderTimeout = 10 * time.Second
	// shutdownTimeout bounds in-flight requests on shutdown.
	shutdownTimeout = 15 * time.Second
)

// Run serves the download page until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-site")

	// Load configuration first to get the listen addresses and repository.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	// Command line arguments take precedence over the settings file.
	if opts.ListenAddress != "" {
		cfg.HTTPAddress = opts.ListenAddress
	}

	if opts.GRPCAddress != "" {
		cfg.GRPCAddress = opts.GRPCAddress
	}

	res, err := resolver.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialise resolver: %w", err)
	}

	// Setup TCP listeners before serving so address errors surface here.
	lc := net.ListenConfig{}

	httpListener, err := lc.Listen(ctx, "tcp", cfg.HTTPAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddress, err)
	}

	// The gRPC API is optional.
	var grpcListener net.Listener
	if cfg.GRPCAddress != "" {
		grpcListener, err = lc.Listen(ctx, "tcp", cfg.GRPCAddress)
		if err != nil {
			_ = httpListener.Close()
			return fmt.Errorf("listen on %s: %w", cfg.GRPCAddress, err)
		}
	}

	releaseAPI := api.NewServer(res, api.WithAllowedRepositories(cfg.AllowedRepositories...))

	return serve(ctx, res, releaseAPI, httpListener, grpcListener)
}

// serve runs the HTTP server and, when grpcListener is set, the gRPC server.
// It returns after both have stopped.
func serve(
	ctx context.Context,
	res *resolver.Resolver,
	releaseAPI *api.Server,
	httpListener, grpcListener net.Listener,
) error {
	httpServer := &http.Server{
		Handler:           NewHandler(ctx, res),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Both servers report fatal errors here.
	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if grpcListener != nil {
		grpcServer = grpc.NewServer()
		api.RegisterReleaseServiceServer(grpcServer, releaseAPI)

		logger.InfoKV(ctx, "gRPC listening", "listen_address", grpcListener.Addr().String())

		go func() {
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("serve gRPC: %w", err)
			}
		}()
	}

	logger.InfoKV(ctx, "Download page listening",
		"listen_address", httpListener.Addr().String(),
		"repository", res.DefaultRepository().String())

	go func() {
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
		}
	}()

	var runErr error

	// Wait for shutdown signal or a server failure.
	select {
	case <-ctx.Done():
		logger.Info(ctx, "Shutting down")
	case runErr = <-errCh:
		logger.ErrorKV(ctx, "Server failed", "error", runErr)
	}

	// ctx is already done here; give in-flight requests their own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown HTTP: %w", err)
	}

	// Let pending RPCs finish.
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	logger.Info(ctx, "Release site stopped")

	return runErr
}
