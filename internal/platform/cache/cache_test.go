package cache

import (
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	m.Set("facility_f-1", []byte(`{"id":"f-1"}`), time.Minute)

	got, ok := m.Get("facility_f-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != `{"id":"f-1"}` {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestMemory_Miss(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("absent"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	m.Set("k", []byte("v"), -time.Second)
	if _, ok := m.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	// lazy expiration removes the entry
	m.mu.RLock()
	_, still := m.entries["k"]
	m.mu.RUnlock()
	if still {
		t.Error("expected expired entry to be deleted on read")
	}
}

func TestMemory_DeleteAndClear(t *testing.T) {
	m := NewMemory()
	m.Set("a", []byte("1"), time.Minute)
	m.Set("b", []byte("2"), time.Minute)

	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Error("expected deleted key to miss")
	}

	m.Clear()
	if _, ok := m.Get("b"); ok {
		t.Error("expected cleared cache to miss")
	}
}
