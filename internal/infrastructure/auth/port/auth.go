package port

import (
	"context"
	"errors"
)

// Identity is the authenticated principal extracted from a credential.
// Only the id crosses into the chat domain; the handle is carried for
// presentation (typing indicators, member listings).
type Identity struct {
	UserID int64
	Handle string
}

// Verifier validates a bearer credential. It is consumed identically at
// request time (HTTP middleware) and at websocket handshake time.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// ErrInvalidToken covers every verification failure: missing, malformed,
// expired or wrongly signed credentials. Callers map it to 401.
var ErrInvalidToken = errors.New("auth: invalid token")
