package artifact

import (
	"strings"

	"github.com/matzehuels/fossrepo/pkg/errors"
)

// Version sentinels denoting an unresolved version.
const (
	Latest  = "LATEST"
	Release = "RELEASE"
)

// Default extensions.
const (
	BinaryExtension     = "jar"
	DescriptorExtension = "pom"
)

// Kind classifies an artifact by the file layout used to store it.
type Kind int

const (
	// KindBinary is a compiled artifact (jar, war, so, ...).
	KindBinary Kind = iota
	// KindDescriptor is a project descriptor (pom).
	KindDescriptor
)

// String returns "binary" or "descriptor".
func (k Kind) String() string {
	if k == KindDescriptor {
		return "descriptor"
	}
	return "binary"
}

// Coordinate identifies one artifact. It is a comparable value; two
// coordinates are equal when all five parts are equal.
type Coordinate struct {
	Group      string `json:"group"`
	Name       string `json:"name"`
	Classifier string `json:"classifier,omitempty"`
	Extension  string `json:"extension"`
	Version    string `json:"version"`
}

// New returns a binary coordinate with the default "jar" extension.
func New(group, name, version string) Coordinate {
	return Coordinate{Group: group, Name: name, Extension: BinaryExtension, Version: version}
}

// WithVersion returns a copy of c with the version replaced.
func (c Coordinate) WithVersion(version string) Coordinate {
	c.Version = version
	return c
}

// WithExtension returns a copy of c with the extension replaced.
func (c Coordinate) WithExtension(ext string) Coordinate {
	c.Extension = ext
	return c
}

// Descriptor returns the descriptor coordinate (pom, no classifier) for c.
func (c Coordinate) Descriptor() Coordinate {
	c.Extension = DescriptorExtension
	c.Classifier = ""
	return c
}

// Kind reports whether c names a descriptor or a binary.
func (c Coordinate) Kind() Kind {
	if c.Extension == DescriptorExtension {
		return KindDescriptor
	}
	return KindBinary
}

// Unresolved reports whether the version is one of the LATEST/RELEASE sentinels.
func (c Coordinate) Unresolved() bool {
	return c.Version == Latest || c.Version == Release
}

// Key returns "group:name".
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Name
}

// String renders c as group:name[:extension[:classifier]]:version.
// The extension is omitted when it is "jar" and there is no classifier.
func (c Coordinate) String() string {
	var b strings.Builder
	b.WriteString(c.Group)
	b.WriteByte(':')
	b.WriteString(c.Name)
	if c.Classifier != "" || (c.Extension != "" && c.Extension != BinaryExtension) {
		b.WriteByte(':')
		b.WriteString(c.Extension)
		if c.Classifier != "" {
			b.WriteByte(':')
			b.WriteString(c.Classifier)
		}
	}
	if c.Version != "" {
		b.WriteByte(':')
		b.WriteString(c.Version)
	}
	return b.String()
}

// Validate checks every part of c. Group and name are required.
func (c Coordinate) Validate() error {
	if err := errors.ValidateGroup(c.Group); err != nil {
		return err
	}
	if err := errors.ValidateName(c.Name); err != nil {
		return err
	}
	for _, p := range []struct{ field, value string }{
		{"classifier", c.Classifier},
		{"extension", c.Extension},
		{"version", c.Version},
	} {
		if err := errors.ValidateCoordinatePart(p.field, p.value); err != nil {
			return err
		}
	}
	return nil
}

// Parse parses a coordinate string. Accepted forms:
//
//	group:name
//	group:name:version
//	group:name:extension:version
//	group:name:extension:classifier:version
//
// A missing extension defaults to "jar"; a missing version is left empty.
func Parse(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	var c Coordinate
	switch len(parts) {
	case 2:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: BinaryExtension}
	case 3:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: BinaryExtension, Version: parts[2]}
	case 4:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: parts[2], Version: parts[3]}
	case 5:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Coordinate{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"invalid coordinate %q (expected group:name[:extension[:classifier]][:version])", s)
	}
	if c.Extension == "" {
		c.Extension = BinaryExtension
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}
