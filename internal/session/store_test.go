package session

import (
	"testing"
	"time"
)

func TestStoreSetGetClear(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	if got := s.Get(1); got != StateNone {
		t.Fatalf("fresh store: got %v", got)
	}

	s.Set(1, StateAwaitingName)
	if got := s.Get(1); got != StateAwaitingName {
		t.Fatalf("after set: got %v", got)
	}
	if got := s.Get(2); got != StateNone {
		t.Fatalf("other user leaked: got %v", got)
	}

	s.Clear(1)
	if got := s.Get(1); got != StateNone {
		t.Fatalf("after clear: got %v", got)
	}
}

func TestStoreSetNoneDeletes(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Set(1, StateAwaitingName)
	s.Set(1, StateNone)
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	defer s.Close()

	s.Set(1, StateAwaitingName)
	time.Sleep(20 * time.Millisecond)
	if got := s.Get(1); got != StateNone {
		t.Fatalf("expired state still visible: %v", got)
	}
	if s.Len() != 0 {
		t.Fatalf("lazy expiry left entry behind")
	}
}
