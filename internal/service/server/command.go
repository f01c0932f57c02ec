package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/theme-alarm/internal/api/grpc/alarm"
	"github.com/oshokin/theme-alarm/internal/config"
	"github.com/oshokin/theme-alarm/internal/logger"
	"github.com/oshokin/theme-alarm/internal/service/alarm"
)

// Options controls the theme-alarm-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StorePath overrides the theme store location from the settings.
	StorePath string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the alarm service and the gRPC server and blocks until context
// is canceled or the server stops.
//
//nolint:funlen // Linear wiring of the daemon components.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "theme-alarm-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyLogLevel(ctx, settings.LogLevel)

	if opts.StorePath != "" {
		settings.Store.Path = opts.StorePath
	}

	if err = settings.LoadEnv(); err != nil {
		return err
	}

	if !opts.AllowMultiple {
		if err = ensureSingleInstance(ctx, listProcesses); err != nil {
			return err
		}
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	repo, closeRepo, err := openRepository(ctx, &settings.Store)
	if err != nil {
		return err
	}

	defer closeRepo()

	notifier, telegram, err := buildNotifiers(ctx, settings)
	if err != nil {
		return err
	}

	svc, err := alarm.New(ctx, &alarm.Options{
		Repository:      repo,
		LeadTime:        settings.InitialLeadTime(),
		SnoozeDelay:     settings.SnoozeDelay,
		RefreshInterval: settings.RefreshInterval,
		Notifier:        notifier,
	})
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close alarm service", "error", closeErr)
		}
	}()

	if telegram != nil {
		go func() {
			if runErr := telegram.Run(ctx, svc); runErr != nil {
				logger.ErrorKV(ctx, "Telegram loop stopped", "error", runErr)
			}
		}()
	}

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Create and configure gRPC server with alarm service.
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(api.AuditInterceptor()))
	api.RegisterAlarmServiceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Theme alarm server listening",
		"listen_address", listenAddress,
		"store_driver", settings.Store.Driver,
		"store_path", settings.Store.Path,
	)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")

		// Streaming watchers end when the service closes their subscriptions.
		_ = svc.Close()

		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// applyLogLevel switches the global level when the settings name a valid one.
func applyLogLevel(ctx context.Context, value string) {
	if value == "" {
		return
	}

	level, ok := logger.ParseLogLevel(value)
	if !ok {
		logger.WarnKV(ctx, "Ignoring unknown log level", "log_level", value)

		return
	}

	logger.SetLevel(level)
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract port.
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
