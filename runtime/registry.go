package runtime

import (
	"sync"
	"time"

	"creator-chat/contract"
	"creator-chat/domain"
	"creator-chat/errors"
)

type Set map[string]struct{}

// Registry tracks socket-to-identity bindings and advisory presence.
// A user may hold several live connections at once (multi-tab); the user
// is online as long as at least one of them is.
//
// Presence derived from the registry is advisory only. Delivery decisions
// always attempt the live path first and fall back to the offline queue,
// never the other way around.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]domain.Connection // connection id -> identity
	sinks       map[string]contract.EventSink
	byUser      map[string]Set // user id -> connection ids
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]domain.Connection),
		sinks:       make(map[string]contract.EventSink),
		byUser:      make(map[string]Set),
	}
}

// Authenticate binds an identity to a connection. Both identity fields are
// required; a rejected call leaves no trace in the registry.
// Re-authenticating an already bound connection silently replaces the
// previous identity, which is what a reconnecting tab does.
// It returns true when this is the user's first live connection.
func (r *Registry) Authenticate(connID, userID, userName string, sink contract.EventSink) (bool, error) {
	if connID == "" || userID == "" || userName == "" {
		return false, errors.ErrInvalidIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.connections[connID]; ok {
		r.dropUserBinding(prev.UserID, connID)
	}

	r.connections[connID] = domain.Connection{
		ID:          connID,
		UserID:      userID,
		UserName:    userName,
		ConnectedAt: time.Now().UTC(),
	}
	r.sinks[connID] = sink

	if _, ok := r.byUser[userID]; !ok {
		r.byUser[userID] = make(Set)
	}
	first := len(r.byUser[userID]) == 0
	r.byUser[userID][connID] = struct{}{}
	return first, nil
}

// Disconnect removes a connection binding. It returns the identity that
// was bound and whether this was the user's last live connection.
func (r *Registry) Disconnect(connID string) (domain.Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[connID]
	if !ok {
		return domain.Connection{}, false
	}
	delete(r.connections, connID)
	delete(r.sinks, connID)
	r.dropUserBinding(conn.UserID, connID)

	_, stillOnline := r.byUser[conn.UserID]
	return conn, !stillOnline
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// SinksForUser returns the live sinks of every connection the user holds.
func (r *Registry) SinksForUser(userID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sinks []contract.EventSink
	for connID := range r.byUser[userID] {
		if sink, ok := r.sinks[connID]; ok {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

// AllSinks returns every live sink, used for advisory broadcasts such as
// presence changes.
func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.sinks))
	for _, sink := range r.sinks {
		sinks = append(sinks, sink)
	}
	return sinks
}

// OnlineUsers lists the distinct identities holding at least one live
// connection, the oldest binding winning for the display name.
func (r *Registry) OnlineUsers() []domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := make(map[string]domain.Connection)
	for _, conn := range r.connections {
		if current, ok := byUser[conn.UserID]; !ok || conn.ConnectedAt.Before(current.ConnectedAt) {
			byUser[conn.UserID] = conn
		}
	}
	users := make([]domain.Connection, 0, len(byUser))
	for _, conn := range byUser {
		users = append(users, conn)
	}
	return users
}

func (r *Registry) Connection(connID string) (domain.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.connections[connID]
	return conn, ok
}

// dropUserBinding must be called with the write lock held.
// Empty sets are removed so presence checks stay a single map lookup.
func (r *Registry) dropUserBinding(userID, connID string) {
	if conns, ok := r.byUser[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byUser, userID)
		}
	}
}
