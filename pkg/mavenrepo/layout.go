package mavenrepo

import (
	"path"
	"strings"

	"github.com/matzehuels/fossrepo/pkg/artifact"
)

// MetadataFile is the name of the per-artifact version listing.
const MetadataFile = "maven-metadata.xml"

// ArtifactPath returns the default-layout path of c relative to the
// repository root:
//
//	org/example/lib/1.0/lib-1.0-sources.jar
func ArtifactPath(c artifact.Coordinate) string {
	file := c.Name + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	ext := c.Extension
	if ext == "" {
		ext = artifact.BinaryExtension
	}
	return path.Join(groupPath(c.Group), c.Name, c.Version, file+"."+ext)
}

// MetadataPath returns the path of the version listing of group:name.
func MetadataPath(group, name string) string {
	return path.Join(groupPath(group), name, MetadataFile)
}

// ArtifactDir returns the directory that holds every version of group:name.
func ArtifactDir(group, name string) string {
	return path.Join(groupPath(group), name)
}

func groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}
