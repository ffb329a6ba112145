package domain

import "context"

// SessionRecord is the cache-resident tracking entry written at login.
// It is distinct from the signed bearer token and is never consulted to
// authorize requests; it exists as a server-side revocation hook.
type SessionRecord struct {
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
}

// SessionCache defines the expiring key-value contract for session records.
// All operations are best-effort: implementations log cache faults and
// report them as false/nil results rather than errors, because the cache is
// an optional tracking layer, not the source of truth for authorization.
type SessionCache interface {
	// GenerateToken returns a cryptographically random opaque token used
	// only as a cache key.
	GenerateToken() (string, error)

	// Store writes the record under the token with the configured TTL,
	// overwriting any existing entry. Returns false on cache failure.
	Store(ctx context.Context, token, userID string) bool

	// Get returns the stored record, or nil when the token is absent,
	// expired, or the cache is unavailable.
	Get(ctx context.Context, token string) *SessionRecord

	// Delete removes the record immediately regardless of remaining TTL.
	// Returns false on cache failure.
	Delete(ctx context.Context, token string) bool

	// Verify returns the user ID bound to the token, or ("", false) when
	// the token is unknown. Absence is a lookup outcome, not a fault.
	Verify(ctx context.Context, token string) (string, bool)
}
