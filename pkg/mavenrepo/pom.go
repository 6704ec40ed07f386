package mavenrepo

import (
	"encoding/xml"
	"strings"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

type pomProject struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Packaging    string          `xml:"packaging"`
	Name         string          `xml:"name"`
	Description  string          `xml:"description"`
	Parent       *pomParent      `xml:"parent"`
	Properties   pomProperties   `xml:"properties"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Managed      []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	Repositories []pomRepository `xml:"repositories>repository"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

type pomRepository struct {
	ID     string `xml:"id"`
	URL    string `xml:"url"`
	Layout string `xml:"layout"`
}

// pomProperties collects the free-form children of <properties>.
type pomProperties struct {
	Entries []struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	} `xml:",any"`
}

func parsePOM(data []byte) (*pomProject, error) {
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse pom")
	}
	if pom.Parent != nil {
		if pom.GroupID == "" {
			pom.GroupID = pom.Parent.GroupID
		}
		if pom.Version == "" {
			pom.Version = pom.Parent.Version
		}
	}
	return &pom, nil
}

// properties returns the interpolation table of the project.
func (p *pomProject) properties() map[string]string {
	props := map[string]string{
		"project.groupId":    p.GroupID,
		"project.artifactId": p.ArtifactID,
		"project.version":    p.Version,
		"pom.groupId":        p.GroupID,
		"pom.version":        p.Version,
		"version":            p.Version,
	}
	if p.Parent != nil {
		props["project.parent.groupId"] = p.Parent.GroupID
		props["project.parent.version"] = p.Parent.Version
	}
	for _, e := range p.Properties.Entries {
		props[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}
	return props
}

// interpolate expands ${name} references. References that cannot be
// expanded are left in place.
func interpolate(s string, props map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			break
		}
		end += start
		b.WriteString(s[:start])
		if v, ok := props[s[start+2:end]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}

func unresolved(s string) bool { return strings.Contains(s, "${") }

// dependencies converts pom dependencies. Entries whose group or name
// still hold a property reference after interpolation are returned as
// skipped.
func convertDependencies(in []pomDependency, props map[string]string, types repository.ArtifactTypeRegistry) (deps []repository.Dependency, skipped []string) {
	for _, d := range in {
		group := interpolate(strings.TrimSpace(d.GroupID), props)
		name := interpolate(strings.TrimSpace(d.ArtifactID), props)
		if unresolved(group) || unresolved(name) {
			skipped = append(skipped, group+":"+name)
			continue
		}
		version := interpolate(strings.TrimSpace(d.Version), props)
		if unresolved(version) {
			version = ""
		}

		c := artifact.Coordinate{Group: group, Name: name, Version: version, Classifier: d.Classifier}
		c.Extension = artifact.BinaryExtension
		if typ := strings.TrimSpace(d.Type); typ != "" {
			c.Extension = typ
			if t, ok := types.Get(typ); ok {
				c.Extension = t.Extension
				if c.Classifier == "" {
					c.Classifier = t.Classifier
				}
			}
		}
		deps = append(deps, repository.Dependency{
			Artifact: c,
			Scope:    strings.TrimSpace(d.Scope),
			Optional: strings.TrimSpace(d.Optional) == "true",
		})
	}
	return deps, skipped
}

func (p *pomProject) repositories() []repository.Repository {
	var repos []repository.Repository
	for _, r := range p.Repositories {
		layout := r.Layout
		if layout == "" {
			layout = repository.LayoutDefault
		}
		repos = append(repos, repository.Repository{ID: r.ID, Layout: layout, URL: strings.TrimSpace(r.URL)})
	}
	return repos
}
