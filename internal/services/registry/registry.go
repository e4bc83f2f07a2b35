package registry

import (
	"fmt"
	"net"
	"sort"
	"sync"

	"go.uber.org/zap"

	"cipherchat/internal/domain"
	"cipherchat/internal/services/session"
)

// Entry is one (username, session) pair of a snapshot.
type Entry struct {
	Username domain.Username
	Session  *session.Session
}

// EventSink is told about sessions joining and leaving.
//
// audience is the set of sessions that should be notified: every other live
// session for a join, every remaining session for a leave.
type EventSink interface {
	SessionJoined(username domain.Username, audience []Entry)
	SessionLeft(username domain.Username, audience []Entry)
}

// KeyDropper releases a departed peer's public key.
type KeyDropper interface {
	RemovePeerKey(identity string) bool
}

// Registry maps usernames to live sessions and connections back to usernames.
type Registry struct {
	keys KeyDropper
	log  *zap.SugaredLogger

	mu         sync.Mutex
	byUsername map[domain.Username]*session.Session
	byConn     map[net.Conn]domain.Username
	sinks      []EventSink
}

// New returns an empty registry. keys is told to drop a peer's key when that
// peer's session is removed.
func New(keys KeyDropper, log *zap.SugaredLogger) *Registry {
	return &Registry{
		keys:       keys,
		log:        log,
		byUsername: make(map[domain.Username]*session.Session),
		byConn:     make(map[net.Conn]domain.Username),
	}
}

// Subscribe registers sink for join and leave events.
func (r *Registry) Subscribe(sink EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sink)
}

// IsReserved reports whether username may never be registered.
func IsReserved(username domain.Username) bool {
	return username == domain.AdministratorName
}

// Add registers s under s.Username and announces it to subscribers.
func (r *Registry) Add(s *session.Session) error {
	announce, err := r.Admit(s)
	if err != nil {
		return err
	}
	announce()
	return nil
}

// Admit registers s like Add but leaves the join event to the returned
// announce func. A caller that must write to s before any broadcast does
// calls Admit while holding s's write lock and announces after releasing it.
func (r *Registry) Admit(s *session.Session) (announce func(), err error) {
	switch {
	case s.Username == "":
		return nil, domain.ErrEmptyUsername
	case IsReserved(s.Username):
		return nil, fmt.Errorf("%w: %q", domain.ErrReservedUsername, s.Username)
	}

	r.mu.Lock()
	if _, taken := r.byUsername[s.Username]; taken {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", domain.ErrUsernameTaken, s.Username)
	}
	audience := r.snapshotLocked()
	r.byUsername[s.Username] = s
	r.byConn[s.Conn()] = s.Username
	sinks := r.sinks
	r.mu.Unlock()

	r.log.Infow("session added", "username", s.Username, "session", s.ID)
	return func() {
		for _, sink := range sinks {
			sink.SessionJoined(s.Username, audience)
		}
	}, nil
}

// Remove unregisters the session bound to conn. It reports whether one was
// found; an unknown conn is not an error.
func (r *Registry) Remove(conn net.Conn) bool {
	r.mu.Lock()
	username, ok := r.byConn[conn]
	if !ok {
		r.mu.Unlock()
		return false
	}
	s := r.byUsername[username]
	delete(r.byConn, conn)
	delete(r.byUsername, username)
	audience := r.snapshotLocked()
	sinks := r.sinks
	r.mu.Unlock()

	r.keys.RemovePeerKey(username.String())
	r.log.Infow("session removed", "username", username, "session", s.ID)
	for _, sink := range sinks {
		sink.SessionLeft(username, audience)
	}
	return true
}

// Lookup returns the session registered under username.
func (r *Registry) Lookup(username domain.Username) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUsername[username]
	return s, ok
}

// UsernameOf returns the username bound to conn.
func (r *Registry) UsernameOf(conn net.Conn) (domain.Username, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byConn[conn]
	return u, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUsername)
}

// Snapshot returns a point-in-time copy of all sessions ordered by username.
// It is safe to iterate without holding any lock.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() []Entry {
	out := make([]Entry, 0, len(r.byUsername))
	for u, s := range r.byUsername {
		out = append(out, Entry{Username: u, Session: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
