package artifact

import (
	"reflect"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1", 0},
		{"1.0.0", "1", 0},
		{"1.0", "1.1", -1},
		{"1.10", "1.9", 1},
		{"2.0", "10.0", -1},
		{"1.0-beta", "1.0", -1},
		{"1.0-alpha", "1.0-beta", -1},
		{"1.0-rc1", "1.0-beta2", 1},
		{"1.0-SNAPSHOT", "1.0", -1},
		{"1.0-rc1", "1.0-SNAPSHOT", -1},
		{"1.0-sp1", "1.0", 1},
		{"1.0.1", "1.0-sp1", 1},
		{"32.1.3-jre", "32.1.3-android", 1},
		{"1.007", "1.7", 0},
		{"20240101120000000001", "20240101120000000002", -1},
		{"1.99999999999999999999", "1.100000000000000000000", -1},
		{"1.99999999999999999999", "1.0-sp1", 1},
		{"99999999999999999999", "1", 1},
		{"1.00000000000000000000", "1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := CompareVersions(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := CompareVersions(tt.b, tt.a); got != -tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestSortVersions(t *testing.T) {
	versions := []string{"1.10", "1.2", "1.0-beta", "1.0", "1.2-rc1"}
	SortVersions(versions)
	want := []string{"1.0-beta", "1.0", "1.2-rc1", "1.2", "1.10"}
	if !reflect.DeepEqual(versions, want) {
		t.Errorf("SortVersions() = %v, want %v", versions, want)
	}
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		{"[1.0,2.0)", "1.0", true},
		{"[1.0,2.0)", "1.5", true},
		{"[1.0,2.0)", "2.0", false},
		{"(1.0,2.0]", "1.0", false},
		{"(1.0,2.0]", "2.0", true},
		{"[1.0,)", "99", true},
		{"(,1.0]", "0.9", true},
		{"(,1.0]", "1.1", false},
		{"[1.5]", "1.5", true},
		{"[1.5]", "1.6", false},
		{"[1,2),[3,4)", "3.5", true},
		{"[1,2),[3,4)", "2.5", false},
		{"1.0", "1.0", true},
		{"1.0", "1.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"/"+tt.version, func(t *testing.T) {
			r, err := ParseRange(tt.spec)
			if err != nil {
				t.Fatalf("ParseRange(%q) error: %v", tt.spec, err)
			}
			if got := r.Contains(tt.version); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestParseRangeInvalid(t *testing.T) {
	for _, spec := range []string{"", "[1.0", "(1.0)", "[]", "[1.0,2.0)x"} {
		t.Run(spec, func(t *testing.T) {
			if _, err := ParseRange(spec); err == nil {
				t.Errorf("ParseRange(%q) expected error", spec)
			}
		})
	}
}

func TestRangeFilter(t *testing.T) {
	r, err := ParseRange("[1.0,2.0)")
	if err != nil {
		t.Fatal(err)
	}
	got := r.Filter([]string{"2.0", "1.5", "0.9", "1.0", "1.10"})
	want := []string{"1.0", "1.5", "1.10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter() = %v, want %v", got, want)
	}
}
