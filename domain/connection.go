package domain

import "time"

// Connection binds one socket to one authenticated identity.
// A user may hold several connections at once (multi-tab); presence is
// the union of their liveness.
type Connection struct {
	ID          string
	UserID      string
	UserName    string
	ConnectedAt time.Time
}
