package client

import (
	"context"

	"github.com/google/uuid"
)

// Identity identifies one console session to the daemon, letting it
// correlate the commands of a single operator session in its own logs.
type Identity struct {
	SessionUUID string
	Version     string
}

// NewIdentity mints a fresh per-process session identity.
func NewIdentity() Identity {
	return Identity{
		SessionUUID: uuid.NewString(),
		Version:     BuildVersion,
	}
}

type identityKeyType struct{}

//nolint:gochecknoglobals // this is zero-size sentinel type.
var identityKey = identityKeyType{}

// WithIdentity returns a new context carrying the provided identity,
// overriding the client's default for calls made with that context.
func WithIdentity(parent context.Context, id Identity) context.Context {
	return context.WithValue(parent, identityKey, id)
}

// IdentityFromContext extracts an Identity from context if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
