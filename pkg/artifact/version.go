package artifact

import (
	"sort"
	"strings"

	"github.com/matzehuels/fossrepo/pkg/errors"
)

// qualifierOrder ranks well-known version qualifiers. Unknown qualifiers
// sort after all known ones and are compared lexically among themselves.
var qualifierOrder = map[string]int{
	"alpha":     1,
	"a":         1,
	"beta":      2,
	"b":         2,
	"milestone": 3,
	"m":         3,
	"rc":        4,
	"cr":        4,
	"snapshot":  5,
	"":          6,
	"ga":        6,
	"final":     6,
	"release":   6,
	"sp":        7,
}

// CompareVersions orders two version strings the way Maven repositories
// usually expect: numeric segments numerically, qualifiers by maturity.
// It returns -1, 0 or +1.
func CompareVersions(a, b string) int {
	as, bs := splitVersion(a), splitVersion(b)
	n := max(len(as), len(bs))
	for i := range n {
		var x, y string
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		if c := compareSegment(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// SortVersions sorts versions in ascending order in place.
func SortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) < 0
	})
}

func splitVersion(v string) []string {
	v = strings.ToLower(strings.TrimSpace(v))
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == '.' || r == '-' || r == '_' })
	var out []string
	for _, f := range fields {
		// split transitions between digits and letters: "1rc2" -> 1, rc, 2
		start := 0
		for i := 1; i < len(f); i++ {
			if isDigit(f[i]) != isDigit(f[i-1]) {
				out = append(out, f[start:i])
				start = i
			}
		}
		out = append(out, f[start:])
	}
	// trailing zeros are insignificant: 1.0 == 1
	for len(out) > 0 && isZero(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func compareSegment(x, y string) int {
	xn, xNum := number(x)
	yn, yNum := number(y)
	switch {
	case xNum && yNum:
		return compareNumbers(xn, yn)
	case xNum && y == "":
		return compareNumbers(xn, "")
	case yNum && x == "":
		return compareNumbers("", yn)
	case xNum:
		// numbers sort after qualifiers
		return 1
	case yNum:
		return -1
	}
	xr, xKnown := qualifierOrder[x]
	yr, yKnown := qualifierOrder[y]
	switch {
	case xKnown && yKnown:
		return cmp(xr, yr)
	case xKnown:
		return -1
	case yKnown:
		return 1
	}
	return strings.Compare(x, y)
}

// number reports whether s is all digits and returns it without leading
// zeros. Zero is returned as "".
func number(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return "", false
		}
	}
	return strings.TrimLeft(s, "0"), true
}

// compareNumbers orders digit strings without leading zeros, so segments
// of any length compare numerically.
func compareNumbers(x, y string) int {
	if c := cmp(len(x), len(y)); c != 0 {
		return c
	}
	return strings.Compare(x, y)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isZero(s string) bool {
	n, ok := number(s)
	return ok && n == ""
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// bound is one side of a version interval. An empty version means unbounded.
type bound struct {
	version   string
	inclusive bool
}

type interval struct {
	lower, upper bound
}

func (iv interval) contains(v string) bool {
	if iv.lower.version != "" {
		c := CompareVersions(v, iv.lower.version)
		if c < 0 || (c == 0 && !iv.lower.inclusive) {
			return false
		}
	}
	if iv.upper.version != "" {
		c := CompareVersions(v, iv.upper.version)
		if c > 0 || (c == 0 && !iv.upper.inclusive) {
			return false
		}
	}
	return true
}

// Range is a union of version intervals, e.g. "[1.0,2.0)" or "[1,2),[3,)".
// A bare version such as "1.0" is a soft requirement that matches only
// itself.
type Range struct {
	spec      string
	intervals []interval
}

// ParseRange parses a Maven version range specification.
func ParseRange(spec string) (Range, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return Range{}, errors.New(errors.ErrCodeInvalidInput, "empty version range")
	}
	if s[0] != '[' && s[0] != '(' {
		return Range{spec: s, intervals: []interval{{
			lower: bound{version: s, inclusive: true},
			upper: bound{version: s, inclusive: true},
		}}}, nil
	}

	r := Range{spec: s}
	for len(s) > 0 {
		end := strings.IndexAny(s, "])")
		if end < 0 || (s[0] != '[' && s[0] != '(') {
			return Range{}, errors.New(errors.ErrCodeInvalidInput, "malformed version range %q", spec)
		}
		body := s[1:end]
		lowerIncl, upperIncl := s[0] == '[', s[end] == ']'
		var iv interval
		if lo, hi, ok := strings.Cut(body, ","); ok {
			iv = interval{
				lower: bound{version: strings.TrimSpace(lo), inclusive: lowerIncl},
				upper: bound{version: strings.TrimSpace(hi), inclusive: upperIncl},
			}
		} else {
			// [1.0] pins an exact version
			v := strings.TrimSpace(body)
			if v == "" || !lowerIncl || !upperIncl {
				return Range{}, errors.New(errors.ErrCodeInvalidInput, "malformed version range %q", spec)
			}
			iv = interval{lower: bound{v, true}, upper: bound{v, true}}
		}
		r.intervals = append(r.intervals, iv)
		s = strings.TrimSpace(s[end+1:])
		s = strings.TrimPrefix(s, ",")
		s = strings.TrimSpace(s)
	}
	return r, nil
}

// IsRange reports whether spec uses interval syntax rather than a bare version.
func IsRange(spec string) bool {
	s := strings.TrimSpace(spec)
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(")
}

// Contains reports whether v falls inside any interval of r.
func (r Range) Contains(v string) bool {
	for _, iv := range r.intervals {
		if iv.contains(v) {
			return true
		}
	}
	return false
}

// Filter returns the versions contained in r, sorted ascending.
func (r Range) Filter(versions []string) []string {
	var out []string
	for _, v := range versions {
		if r.Contains(v) {
			out = append(out, v)
		}
	}
	SortVersions(out)
	return out
}

// String returns the original specification.
func (r Range) String() string { return r.spec }
