package registry_test

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cipherchat/internal/domain"
	"cipherchat/internal/services/registry"
	"cipherchat/internal/services/session"
)

type event struct {
	joined   bool
	username domain.Username
	audience []domain.Username
}

type recordingSink struct {
	mu     sync.Mutex
	events []event
}

func (r *recordingSink) record(joined bool, u domain.Username, audience []registry.Entry) {
	names := make([]domain.Username, 0, len(audience))
	for _, e := range audience {
		names = append(names, e.Username)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{joined: joined, username: u, audience: names})
}

func (r *recordingSink) SessionJoined(u domain.Username, audience []registry.Entry) {
	r.record(true, u, audience)
}

func (r *recordingSink) SessionLeft(u domain.Username, audience []registry.Entry) {
	r.record(false, u, audience)
}

type keyLog struct {
	mu      sync.Mutex
	dropped []string
}

func (k *keyLog) RemovePeerKey(identity string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.dropped = append(k.dropped, identity)
	return true
}

func newRegistry(t *testing.T) (*registry.Registry, *recordingSink, *keyLog) {
	t.Helper()
	keys := &keyLog{}
	r := registry.New(keys, zaptest.NewLogger(t).Sugar())
	sink := &recordingSink{}
	r.Subscribe(sink)
	return r, sink, keys
}

func newSession(t *testing.T, username domain.Username) *session.Session {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return session.New(username, a)
}

func TestAdd_RejectsDuplicateReservedAndEmpty(t *testing.T) {
	r, _, _ := newRegistry(t)

	require.NoError(t, r.Add(newSession(t, "alice")))

	err := r.Add(newSession(t, "alice"))
	require.ErrorIs(t, err, domain.ErrUsernameTaken)

	err = r.Add(newSession(t, domain.AdministratorName))
	require.ErrorIs(t, err, domain.ErrReservedUsername)

	err = r.Add(newSession(t, ""))
	require.ErrorIs(t, err, domain.ErrEmptyUsername)

	require.Equal(t, 1, r.Len())
}

func TestAdd_ViewsStayConsistent(t *testing.T) {
	r, _, _ := newRegistry(t)
	alice := newSession(t, "alice")
	bob := newSession(t, "bob")
	require.NoError(t, r.Add(bob))
	require.NoError(t, r.Add(alice))

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	require.Same(t, alice, got)

	u, ok := r.UsernameOf(bob.Conn())
	require.True(t, ok)
	require.Equal(t, domain.Username("bob"), u)

	snap := r.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, domain.Username("alice"), snap[0].Username)
	require.Equal(t, domain.Username("bob"), snap[1].Username)

	require.True(t, r.Remove(alice.Conn()))
	_, ok = r.Lookup("alice")
	require.False(t, ok)
	_, ok = r.UsernameOf(alice.Conn())
	require.False(t, ok)
	require.Len(t, r.Snapshot(), 1)
}

func TestAdd_ConcurrentSameUsernameOnlyOneWins(t *testing.T) {
	r, _, _ := newRegistry(t)

	const n = 32
	sessions := make([]*session.Session, n)
	for i := range sessions {
		sessions[i] = newSession(t, "carol")
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, s := range sessions {
		wg.Add(1)
		go func(s *session.Session) {
			defer wg.Done()
			errs <- r.Add(s)
		}(s)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.True(t, errors.Is(err, domain.ErrUsernameTaken))
	}
	require.Equal(t, 1, wins)
	require.Equal(t, 1, r.Len())
}

func TestAdd_ConcurrentDistinctUsernames(t *testing.T) {
	r, _, _ := newRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		s := newSession(t, domain.Username(fmt.Sprintf("user%02d", i)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Add(s))
		}()
	}
	wg.Wait()
	require.Equal(t, 20, r.Len())
}

func TestRemove_UnknownConnIsNoop(t *testing.T) {
	r, sink, keys := newRegistry(t)
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	require.False(t, r.Remove(a))
	require.Empty(t, sink.events)
	require.Empty(t, keys.dropped)
}

func TestRemove_TwiceFiresOnce(t *testing.T) {
	r, sink, keys := newRegistry(t)
	alice := newSession(t, "alice")
	require.NoError(t, r.Add(alice))

	require.True(t, r.Remove(alice.Conn()))
	require.False(t, r.Remove(alice.Conn()))

	require.Equal(t, []string{"alice"}, keys.dropped)
	require.Len(t, sink.events, 2)
}

func TestEvents_CarryAudience(t *testing.T) {
	r, sink, keys := newRegistry(t)
	alice := newSession(t, "alice")
	bob := newSession(t, "bob")

	require.NoError(t, r.Add(alice))
	require.NoError(t, r.Add(bob))
	require.True(t, r.Remove(alice.Conn()))

	require.Equal(t, []event{
		{joined: true, username: "alice", audience: []domain.Username{}},
		{joined: true, username: "bob", audience: []domain.Username{"alice"}},
		{joined: false, username: "alice", audience: []domain.Username{"bob"}},
	}, sink.events)
	require.Equal(t, []string{"alice"}, keys.dropped)
}

func TestAdd_RejectedDoesNotEmit(t *testing.T) {
	r, sink, _ := newRegistry(t)
	require.Error(t, r.Add(newSession(t, domain.AdministratorName)))
	require.Empty(t, sink.events)
}

func TestIsReserved(t *testing.T) {
	require.True(t, registry.IsReserved(domain.AdministratorName))
	require.False(t, registry.IsReserved("administrator"))
	require.False(t, registry.IsReserved("alice"))
}

func TestAdmit_DefersJoinEvent(t *testing.T) {
	r, sink, _ := newRegistry(t)
	alice := newSession(t, "alice")
	require.NoError(t, r.Add(alice))

	announce, err := r.Admit(newSession(t, "bob"))
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	require.Len(t, sink.events, 1)

	announce()
	require.Len(t, sink.events, 2)
	require.Equal(t, []domain.Username{"alice"}, sink.events[1].audience)
}
