package remap

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Reserved coordinates understood by the javadir layout.
const (
	// ElisionGroup and ElisionName form the target that marks a
	// dependency for removal.
	ElisionGroup = "JPP/maven"
	ElisionName  = "empty-dep"

	// PlaceholderVersion replaces a version missing from a fragment block.
	PlaceholderVersion = "DUMMY_VER"

	// RepackagedPrefix marks groups that already use javadir naming and
	// must not be remapped again.
	RepackagedPrefix = "JPP"
)

// Mode selects how keys are addressed.
type Mode int

const (
	// Versionless keys omit the version: every version of group:name maps
	// to the same target.
	Versionless Mode = iota
	// VersionAware keys include the version.
	VersionAware
)

// String returns "versionless" or "version-aware".
func (m Mode) String() string {
	if m == VersionAware {
		return "version-aware"
	}
	return "versionless"
}

// Key addresses an entry. Version is empty in Versionless mode.
type Key struct {
	Group   string `json:"group"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Target is the replacement coordinate for a key.
type Target struct {
	Group   string `json:"group"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Elided reports whether t marks its key for removal.
func (t Target) Elided() bool { return t.Name == ElisionName }

// String renders "group:name:version".
func (t Target) String() string { return t.Group + ":" + t.Name + ":" + t.Version }

// Entry is one key/target pair of a table.
type Entry struct {
	Key    Key    `json:"key"`
	Target Target `json:"target"`
}

// Table is an immutable coordinate remap table. A nil *Table behaves as
// an empty table. Tables are safe for concurrent use.
type Table struct {
	mode    Mode
	entries map[Key]Target
}

// NewTable builds a table from entries applied in order; later entries
// overwrite earlier ones with the same key.
func NewTable(mode Mode, entries ...Entry) *Table {
	t := &Table{mode: mode, entries: make(map[Key]Target, len(entries))}
	for _, e := range entries {
		t.entries[t.key(e.Key.Group, e.Key.Name, e.Key.Version)] = e.Target
	}
	return t
}

func (t *Table) key(group, name, version string) Key {
	if t.mode == Versionless {
		version = ""
	}
	return Key{Group: group, Name: name, Version: version}
}

// Mode returns the addressing mode the table was built with.
func (t *Table) Mode() Mode {
	if t == nil {
		return Versionless
	}
	return t.mode
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Find returns the target for the triple and whether one exists.
func (t *Table) Find(group, name, version string) (Target, bool) {
	if t == nil {
		return Target{}, false
	}
	target, ok := t.entries[t.key(group, name, version)]
	return target, ok
}

// Lookup translates a triple. Without a matching entry it returns the
// input unchanged.
func (t *Table) Lookup(group, name, version string) Target {
	if target, ok := t.Find(group, name, version); ok {
		return target
	}
	return Target{Group: group, Name: name, Version: version}
}

// ShouldElide reports whether the triple is mapped to the elision target.
func (t *Table) ShouldElide(group, name, version string) bool {
	target, ok := t.Find(group, name, version)
	return ok && target.Elided()
}

// Entries returns all entries sorted by key.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, Entry{Key: k, Target: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Version < b.Version
	})
	return out
}

// Digest returns a SHA-256 over the mode and the sorted entries. Two
// tables with the same content have the same digest.
func (t *Table) Digest() string {
	var b strings.Builder
	b.WriteString(t.Mode().String())
	b.WriteByte('\n')
	for _, e := range t.Entries() {
		b.WriteString(strings.Join([]string{e.Key.Group, e.Key.Name, e.Key.Version}, ","))
		b.WriteString("=>")
		b.WriteString(strings.Join([]string{e.Target.Group, e.Target.Name, e.Target.Version}, ","))
		b.WriteByte('\n')
	}
	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:])
}
