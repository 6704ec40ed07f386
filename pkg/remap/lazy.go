package remap

import (
	"context"
	"sync"
	"sync/atomic"
)

// BuildFunc produces a table.
type BuildFunc func(ctx context.Context) (*Table, error)

// Lazy builds a table on first use and returns the same table afterwards.
// Concurrent first calls trigger exactly one build. A failed build is not
// cached, so a later call retries.
type Lazy struct {
	build BuildFunc
	mu    sync.Mutex
	table atomic.Pointer[Table]
}

// NewLazy returns a holder that calls build at most once successfully.
func NewLazy(build BuildFunc) *Lazy {
	return &Lazy{build: build}
}

// NewLazySources is shorthand for a holder around [Build].
func NewLazySources(src Sources, opts Options) *Lazy {
	return NewLazy(func(ctx context.Context) (*Table, error) {
		return Build(ctx, src, opts)
	})
}

// Get returns the table, building it if needed.
func (l *Lazy) Get(ctx context.Context) (*Table, error) {
	if t := l.table.Load(); t != nil {
		return t, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if t := l.table.Load(); t != nil {
		return t, nil
	}
	t, err := l.build(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = NewTable(Versionless)
	}
	l.table.Store(t)
	return t, nil
}

// Built reports whether the table has been built.
func (l *Lazy) Built() bool {
	return l.table.Load() != nil
}

// Preloaded returns a holder that already contains t.
func Preloaded(t *Table) *Lazy {
	l := &Lazy{build: func(context.Context) (*Table, error) { return t, nil }}
	if t != nil {
		l.table.Store(t)
	}
	return l
}

// ShouldElide is [Table.ShouldElide] on the held table, building it with
// a background context if needed. It lets a Lazy stand in wherever a
// table is consulted for elision.
func (l *Lazy) ShouldElide(group, name, version string) bool {
	t, err := l.Get(context.Background())
	if err != nil {
		return false
	}
	return t.ShouldElide(group, name, version)
}
