package remap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLazyBuildsOnce(t *testing.T) {
	var builds atomic.Int32
	lazy := NewLazy(func(ctx context.Context) (*Table, error) {
		builds.Add(1)
		return NewTable(Versionless, Entry{Key: Key{Group: "g", Name: "a"}, Target: Target{Group: "JPP", Name: "a"}}), nil
	})

	if lazy.Built() {
		t.Fatal("Built() = true before first Get")
	}

	var wg sync.WaitGroup
	tables := make([]*Table, 32)
	for i := range tables {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := lazy.Get(context.Background())
			if err != nil {
				t.Errorf("Get() error: %v", err)
				return
			}
			tables[i] = table
		}()
	}
	wg.Wait()

	if n := builds.Load(); n != 1 {
		t.Errorf("build called %d times, want 1", n)
	}
	for i, table := range tables {
		if table != tables[0] {
			t.Errorf("Get() #%d returned a different table", i)
		}
	}
	if !lazy.Built() {
		t.Error("Built() = false after Get")
	}
}

func TestLazyRetriesAfterError(t *testing.T) {
	var calls int
	lazy := NewLazy(func(ctx context.Context) (*Table, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return NewTable(Versionless), nil
	})

	if _, err := lazy.Get(context.Background()); err == nil {
		t.Fatal("first Get() expected error")
	}
	if lazy.Built() {
		t.Error("Built() = true after failed build")
	}
	if _, err := lazy.Get(context.Background()); err != nil {
		t.Fatalf("second Get() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestLazyShouldElide(t *testing.T) {
	lazy := Preloaded(NewTable(Versionless,
		Entry{Key: Key{Group: "g", Name: "gone"}, Target: Target{Group: RepackagedPrefix, Name: ElisionName}},
		Entry{Key: Key{Group: "g", Name: "kept"}, Target: Target{Group: RepackagedPrefix, Name: "kept"}},
	))
	tests := []struct {
		name string
		want bool
	}{
		{"gone", true},
		{"kept", false},
		{"unmapped", false},
	}
	for _, tt := range tests {
		if got := lazy.ShouldElide("g", tt.name, "1.0"); got != tt.want {
			t.Errorf("ShouldElide(g:%s) = %v, want %v", tt.name, got, tt.want)
		}
	}

	failing := NewLazy(func(context.Context) (*Table, error) { return nil, errors.New("boom") })
	if failing.ShouldElide("g", "gone", "1.0") {
		t.Error("ShouldElide() = true on a failed build")
	}
}
