package client

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// TestWithIdentityAndFromContext verifies storing and retrieving Identity in context.
func TestWithIdentityAndFromContext(t *testing.T) {
	t.Parallel()

	baseCtx := context.Background()

	tests := []struct {
		name      string
		identity  Identity
		expectOK  bool
		mutateCtx func(ctx context.Context) context.Context
	}{
		{
			name:     "full session identity",
			identity: Identity{SessionUUID: "session-123", Version: "1.0.0"},
			expectOK: true,
		},
		{
			name:     "empty identity",
			identity: Identity{},
			expectOK: true,
		},
		{
			name:     "no identity in context",
			identity: Identity{},
			expectOK: false,
			mutateCtx: func(ctx context.Context) context.Context {
				// Return original ctx without setting identity to simulate absence.
				return ctx
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := baseCtx
			if tt.mutateCtx != nil {
				ctx = tt.mutateCtx(ctx)
			} else {
				ctx = WithIdentity(ctx, tt.identity)
			}

			got, ok := IdentityFromContext(ctx)
			if ok != tt.expectOK {
				t.Fatalf("expected ok=%v, got %v", tt.expectOK, ok)
			}
			if !ok {
				return
			}

			if got != tt.identity {
				t.Fatalf("unexpected identity: got %+v, want %+v", got, tt.identity)
			}
		})
	}
}

// TestIdentityFromContextWrongType ensures safe type assertion behavior when value has wrong type.
func TestIdentityFromContextWrongType(t *testing.T) {
	t.Parallel()

	// Manually place a value under the same key with an incorrect type.
	ctx := context.WithValue(context.Background(), identityKey, "not-an-identity")

	_, ok := IdentityFromContext(ctx)
	if ok {
		t.Fatalf("expected ok=false when value has wrong type")
	}
}

// TestNewIdentity ensures a fresh identity carries a valid UUID and the build version.
func TestNewIdentity(t *testing.T) {
	t.Parallel()

	id := NewIdentity()
	if _, err := uuid.Parse(id.SessionUUID); err != nil {
		t.Fatalf("session UUID not parseable: %v", err)
	}
	if id.Version != BuildVersion {
		t.Fatalf("unexpected version: got %q, want %q", id.Version, BuildVersion)
	}

	if NewIdentity().SessionUUID == id.SessionUUID {
		t.Fatalf("expected distinct session UUIDs per call")
	}
}
