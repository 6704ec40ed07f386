// Package artifact defines the coordinate value type used across fossrepo.
//
// # Coordinates
//
// A [Coordinate] names one artifact by group, name, classifier, extension
// and version. Coordinates are plain comparable values: derive modified
// copies with [Coordinate.WithVersion] and friends, never mutate a shared
// one.
//
// The version sentinels [Latest] and [Release] mark a coordinate as
// unresolved; stores are expected to pick the highest or most recent
// version available.
//
// # Kinds
//
// Stores lay out descriptors (pom files) differently from binaries, so
// [Coordinate.Kind] classifies a coordinate by its extension.
//
// # Versions
//
// [CompareVersions] and [ParseRange] provide the small amount of version
// arithmetic the resolution engine needs: picking the highest version and
// filtering a listing by a range such as "[1.0,2.0)".
package artifact
