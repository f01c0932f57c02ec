package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"google.golang.org/grpc/status"

	api "github.com/oshokin/theme-alarm/internal/api/grpc/alarm"
	"github.com/oshokin/theme-alarm/internal/config"
	"github.com/oshokin/theme-alarm/internal/logger"
)

// Options configures a client invocation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Out receives the printed result, stdout when nil.
	Out io.Writer
}

// Action is one call against the alarm server.
type Action func(ctx context.Context, client *api.Client, out io.Writer) error

// Run connects to the alarm server and performs the action.
func Run(ctx context.Context, opts *Options, action Action) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "theme-alarm")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	dialOptions := []api.Option{api.WithCallTimeout(cfg.Timeout)}

	// Identify current user and hostname for the server audit log.
	if actor, actorErr := api.DetectActor(); actorErr != nil {
		logger.WarnKV(ctx, "Failed to detect actor", "error", actorErr)
	} else {
		dialOptions = append(dialOptions, api.WithActor(actor))
	}

	client, err := api.Dial(ctx, serverAddress, dialOptions...)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Connected to alarm server", "server_address", serverAddress)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return describe(action(ctx, client, out))
}

// describe replaces a gRPC status error with its code and message.
func describe(err error) error {
	if err == nil {
		return nil
	}

	var grpcErr interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &grpcErr) {
		return err
	}

	st := grpcErr.GRPCStatus()

	return fmt.Errorf("%s: %s", st.Code(), st.Message())
}
