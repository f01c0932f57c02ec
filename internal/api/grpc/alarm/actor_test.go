package alarm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

// TestDetectActor ensures the actor has both user and host parts.
func TestDetectActor(t *testing.T) {
	t.Parallel()

	actor, err := DetectActor()
	require.NoError(t, err)
	require.Regexp(t, `^.+@.+$`, actor)
}

// TestActorFromContext reads the actor from incoming metadata.
func TestActorFromContext(t *testing.T) {
	t.Parallel()

	require.Equal(t, unknownActor, ActorFromContext(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(actorMetadataKey, "ann@desk"))
	require.Equal(t, "ann@desk", ActorFromContext(ctx))

	outgoing := withActor(context.Background(), "bob@laptop")
	md, ok := metadata.FromOutgoingContext(outgoing)
	require.True(t, ok)
	require.Equal(t, []string{"bob@laptop"}, md.Get(actorMetadataKey))

	require.Equal(t, context.Background(), withActor(context.Background(), ""))
}
