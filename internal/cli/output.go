package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// checkFormat rejects a --format value outside allowed.
func checkFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want one of %v)", format, allowed)
}

// writeStructured encodes v as JSON, YAML or TOML. TOML needs v to be a
// struct or map at the top level.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		return toml.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("format %q is not structured", format)
}

// artifactView is the structured form of one resolved artifact.
type artifactView struct {
	Coordinate string   `json:"coordinate" yaml:"coordinate" toml:"coordinate"`
	Path       string   `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Repository string   `json:"repository,omitempty" yaml:"repository,omitempty" toml:"repository,omitempty"`
	Match      string   `json:"match,omitempty" yaml:"match,omitempty" toml:"match,omitempty"`
	Warnings   []string `json:"warnings,omitempty" yaml:"warnings,omitempty" toml:"warnings,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

type artifactsView struct {
	Artifacts []artifactView `json:"artifacts" yaml:"artifacts" toml:"artifacts"`
}

func newArtifactView(requested string, o repository.ArtifactOutcome) artifactView {
	if o.Err != nil {
		return artifactView{Coordinate: requested, Error: o.Err.Error()}
	}
	r := o.Result
	return artifactView{
		Coordinate: r.Artifact.String(),
		Path:       r.Path,
		Repository: r.Repository.ID,
		Match:      r.Match.String(),
		Warnings:   errorStrings(r.Exceptions),
	}
}

// versionsView is the structured form of a version range result.
type versionsView struct {
	Coordinate string        `json:"coordinate" yaml:"coordinate" toml:"coordinate"`
	Match      string        `json:"match" yaml:"match" toml:"match"`
	Versions   []versionView `json:"versions" yaml:"versions" toml:"versions"`
	Warnings   []string      `json:"warnings,omitempty" yaml:"warnings,omitempty" toml:"warnings,omitempty"`
}

type versionView struct {
	Version    string `json:"version" yaml:"version" toml:"version"`
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty" toml:"repository,omitempty"`
}

func newVersionsView(requested string, r *repository.VersionRangeResult) versionsView {
	v := versionsView{
		Coordinate: requested,
		Match:      r.Match.String(),
		Versions:   make([]versionView, 0, len(r.Versions)),
		Warnings:   errorStrings(r.Exceptions),
	}
	for _, ver := range r.Versions {
		repo, _ := r.Repository(ver)
		v.Versions = append(v.Versions, versionView{Version: ver, Repository: repo.ID})
	}
	return v
}

// descriptorView is the structured form of a descriptor.
type descriptorView struct {
	Coordinate   string           `json:"coordinate" yaml:"coordinate" toml:"coordinate"`
	Repository   string           `json:"repository" yaml:"repository" toml:"repository"`
	Match        string           `json:"match" yaml:"match" toml:"match"`
	Dependencies []dependencyView `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	Managed      []dependencyView `json:"managed,omitempty" yaml:"managed,omitempty" toml:"managed,omitempty"`
	Warnings     []string         `json:"warnings,omitempty" yaml:"warnings,omitempty" toml:"warnings,omitempty"`
}

type dependencyView struct {
	Coordinate string `json:"coordinate" yaml:"coordinate" toml:"coordinate"`
	Scope      string `json:"scope,omitempty" yaml:"scope,omitempty" toml:"scope,omitempty"`
	Optional   bool   `json:"optional,omitempty" yaml:"optional,omitempty" toml:"optional,omitempty"`
}

func newDependencyViews(deps []repository.Dependency) []dependencyView {
	out := make([]dependencyView, len(deps))
	for i, d := range deps {
		out[i] = dependencyView{Coordinate: d.Artifact.String(), Scope: d.Scope, Optional: d.Optional}
	}
	return out
}

func newDescriptorView(r *repository.DescriptorResult) descriptorView {
	return descriptorView{
		Coordinate:   r.Artifact.String(),
		Repository:   r.Repository.ID,
		Match:        r.Match.String(),
		Dependencies: newDependencyViews(r.Dependencies),
		Managed:      newDependencyViews(r.ManagedDependencies),
		Warnings:     errorStrings(r.Exceptions),
	}
}

func errorStrings(errs []error) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
