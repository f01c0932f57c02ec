package alarm

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/oshokin/theme-alarm/internal/logger"
)

// actorMetadataKey carries the "user@host" of the caller.
const actorMetadataKey = "x-theme-alarm-actor"

// unknownActor is logged for calls without actor metadata.
const unknownActor = "<unknown>"

// DetectActor returns "user@host" of the current process for audit logging.
func DetectActor() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username + "@" + hostname, nil
}

// withActor attaches the actor to outgoing call metadata.
func withActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, actorMetadataKey, actor)
}

// ActorFromContext returns the actor sent by the caller.
func ActorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return unknownActor
	}

	values := md.Get(actorMetadataKey)
	if len(values) == 0 || values[0] == "" {
		return unknownActor
	}

	return values[0]
}

// AuditInterceptor tags the request logger with the method and the caller
// and logs every unary call at debug level.
func AuditInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx = logger.WithKV(ctx, "method", info.FullMethod, "actor", ActorFromContext(ctx))
		logger.Debug(ctx, "Handling call")

		return handler(ctx, req)
	}
}
