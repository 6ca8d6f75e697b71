package ws

import (
	"errors"
	"sync"
	"testing"

	"chatrooms/internal/domain"
)

func newTestSession(reg *Registry, userID, roomID int) *Session {
	return NewSession(reg, &fakeStore{}, nil, domain.User{ID: userID, Username: "u"}, roomID)
}

func TestRegistry_RegisterOrder(t *testing.T) {
	reg := NewRegistry()
	s1 := newTestSession(reg, 1, 7)
	s2 := newTestSession(reg, 2, 7)
	s3 := newTestSession(reg, 3, 7)

	reg.Register(7, s1)
	reg.Register(7, s2)
	reg.Register(7, s3)

	conns := reg.Connections(7)
	if len(conns) != 3 {
		t.Fatalf("expected 3 connections, got %d", len(conns))
	}
	for i, want := range []*Session{s1, s2, s3} {
		if conns[i] != want {
			t.Errorf("connection %d out of registration order", i)
		}
	}
}

func TestRegistry_DeregisterKeepsSurvivorOrder(t *testing.T) {
	reg := NewRegistry()
	s1 := newTestSession(reg, 1, 7)
	s2 := newTestSession(reg, 2, 7)
	s3 := newTestSession(reg, 3, 7)

	reg.Register(7, s1)
	reg.Register(7, s2)
	reg.Register(7, s3)

	if err := reg.Deregister(7, s2); err != nil {
		t.Fatalf("deregister: %v", err)
	}

	conns := reg.Connections(7)
	if len(conns) != 2 || conns[0] != s1 || conns[1] != s3 {
		t.Errorf("expected survivors [s1 s3] in order, got %d connections", len(conns))
	}
}

func TestRegistry_DeregisterUnknown(t *testing.T) {
	reg := NewRegistry()
	s1 := newTestSession(reg, 1, 7)

	if err := reg.Deregister(7, s1); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}

	reg.Register(7, s1)
	if err := reg.Deregister(7, s1); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if err := reg.Deregister(7, s1); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second deregister: expected ErrNotRegistered, got %v", err)
	}
}

func TestRegistry_UserIDsKeepsDuplicates(t *testing.T) {
	// One user on two tabs is two connections, so the roster lists them twice.
	reg := NewRegistry()
	reg.Register(7, newTestSession(reg, 1, 7))
	reg.Register(7, newTestSession(reg, 1, 7))
	reg.Register(7, newTestSession(reg, 2, 7))

	ids := reg.UserIDs(7)
	want := []int{1, 1, 2}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestRegistry_RoomsAreIndependent(t *testing.T) {
	reg := NewRegistry()
	reg.Register(7, newTestSession(reg, 1, 7))
	reg.Register(8, newTestSession(reg, 2, 8))

	if got := reg.Count(7); got != 1 {
		t.Errorf("room 7: expected 1 connection, got %d", got)
	}
	if got := reg.Count(8); got != 1 {
		t.Errorf("room 8: expected 1 connection, got %d", got)
	}
	if got := reg.Count(9); got != 0 {
		t.Errorf("room 9: expected 0 connections, got %d", got)
	}
}

func TestRegistry_ConnectionsIsASnapshot(t *testing.T) {
	reg := NewRegistry()
	s1 := newTestSession(reg, 1, 7)
	reg.Register(7, s1)

	snapshot := reg.Connections(7)
	if err := reg.Deregister(7, s1); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if len(snapshot) != 1 || snapshot[0] != s1 {
		t.Error("snapshot mutated by deregister")
	}
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			s := newTestSession(reg, userID, 7)
			reg.Register(7, s)
			reg.Connections(7)
			reg.UserIDs(7)
			if err := reg.Deregister(7, s); err != nil {
				t.Errorf("deregister: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := reg.Count(7); got != 0 {
		t.Errorf("expected empty room after churn, got %d connections", got)
	}
}
