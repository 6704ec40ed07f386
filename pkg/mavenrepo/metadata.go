package mavenrepo

import (
	"encoding/xml"

	"github.com/matzehuels/fossrepo/pkg/errors"
)

// Metadata is the parsed content of a maven-metadata.xml document.
type Metadata struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// ParseMetadata decodes a maven-metadata.xml document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var md Metadata
	if err := xml.Unmarshal(data, &md); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", MetadataFile)
	}
	return &md, nil
}

// Latest returns the newest version, deployed snapshots included. It falls
// back to the last listed version.
func (m *Metadata) Latest() string {
	if m.Versioning.Latest != "" {
		return m.Versioning.Latest
	}
	return m.last()
}

// Release returns the newest release version, falling back like
// [Metadata.Latest].
func (m *Metadata) Release() string {
	if m.Versioning.Release != "" {
		return m.Versioning.Release
	}
	return m.last()
}

func (m *Metadata) last() string {
	if n := len(m.Versioning.Versions); n > 0 {
		return m.Versioning.Versions[n-1]
	}
	return ""
}
