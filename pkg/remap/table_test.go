package remap

import (
	"testing"
)

func TestLookupIdentityOnMiss(t *testing.T) {
	table := NewTable(Versionless, Entry{
		Key:    Key{Group: "junit", Name: "junit"},
		Target: Target{Group: "JPP", Name: "junit4", Version: PlaceholderVersion},
	})

	triples := []Target{
		{Group: "org.example", Name: "lib", Version: "1.0"},
		{Group: "junit", Name: "junit-dep", Version: "4.12"},
		{Group: "", Name: "", Version: ""},
		{Group: "JPP", Name: "junit4", Version: "LATEST"},
	}
	for _, in := range triples {
		t.Run(in.String(), func(t *testing.T) {
			if got := table.Lookup(in.Group, in.Name, in.Version); got != in {
				t.Errorf("Lookup() = %+v, want %+v", got, in)
			}
			if table.ShouldElide(in.Group, in.Name, in.Version) {
				t.Error("ShouldElide() = true for unmapped coordinate")
			}
		})
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	in := Target{Group: "g", Name: "a", Version: "1"}
	if got := table.Lookup("g", "a", "1"); got != in {
		t.Errorf("Lookup() = %+v, want %+v", got, in)
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
	if table.ShouldElide("g", "a", "1") {
		t.Error("ShouldElide() = true on nil table")
	}
}

func TestModes(t *testing.T) {
	entries := []Entry{
		{Key: Key{Group: "g", Name: "a", Version: "1.0"}, Target: Target{Group: "JPP", Name: "a1", Version: "1.0"}},
		{Key: Key{Group: "g", Name: "a", Version: "2.0"}, Target: Target{Group: "JPP", Name: "a2", Version: "2.0"}},
	}

	tests := []struct {
		mode    Mode
		version string
		want    string
	}{
		// versionless: last entry for g:a wins regardless of version
		{Versionless, "1.0", "a2"},
		{Versionless, "9.9", "a2"},
		{VersionAware, "1.0", "a1"},
		{VersionAware, "2.0", "a2"},
		{VersionAware, "9.9", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.version, func(t *testing.T) {
			table := NewTable(tt.mode, entries...)
			if got := table.Lookup("g", "a", tt.version).Name; got != tt.want {
				t.Errorf("Lookup().Name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldElide(t *testing.T) {
	table := NewTable(Versionless,
		Entry{Key: Key{Group: "g", Name: "drop"}, Target: Target{Group: ElisionGroup, Name: ElisionName, Version: "1"}},
		Entry{Key: Key{Group: "g", Name: "keep"}, Target: Target{Group: "JPP", Name: "keep", Version: "1"}},
	)

	if !table.ShouldElide("g", "drop", "1") {
		t.Error("ShouldElide(g:drop) = false, want true")
	}
	if table.ShouldElide("g", "keep", "1") {
		t.Error("ShouldElide(g:keep) = true, want false")
	}
}

func TestDigestIgnoresInsertionOrderOfDistinctKeys(t *testing.T) {
	a := Entry{Key: Key{Group: "g", Name: "a"}, Target: Target{Group: "JPP", Name: "a", Version: "1"}}
	b := Entry{Key: Key{Group: "g", Name: "b"}, Target: Target{Group: "JPP", Name: "b", Version: "1"}}

	t1 := NewTable(Versionless, a, b)
	t2 := NewTable(Versionless, b, a)
	if t1.Digest() != t2.Digest() {
		t.Errorf("Digest() differs for same content: %s vs %s", t1.Digest(), t2.Digest())
	}

	t3 := NewTable(VersionAware, a, b)
	if t1.Digest() == t3.Digest() {
		t.Error("Digest() equal across modes, want different")
	}
}

func TestEntriesSorted(t *testing.T) {
	table := NewTable(VersionAware,
		Entry{Key: Key{Group: "z", Name: "a", Version: "1"}},
		Entry{Key: Key{Group: "a", Name: "b", Version: "2"}},
		Entry{Key: Key{Group: "a", Name: "b", Version: "1"}},
		Entry{Key: Key{Group: "a", Name: "a", Version: "1"}},
	)
	got := table.Entries()
	want := []Key{
		{Group: "a", Name: "a", Version: "1"},
		{Group: "a", Name: "b", Version: "1"},
		{Group: "a", Name: "b", Version: "2"},
		{Group: "z", Name: "a", Version: "1"},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Entries()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Key != want[i] {
			t.Errorf("Entries()[%d].Key = %+v, want %+v", i, got[i].Key, want[i])
		}
	}
}
