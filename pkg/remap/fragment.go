package remap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fossrepo/pkg/errors"
)

// Format is the syntax of a mapping fragment.
type Format int

const (
	FormatXML Format = iota
	FormatTOML
	FormatYAML
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "xml"
	}
}

// FormatFor picks the format from a file extension. Anything that is not
// .toml, .yaml or .yml is read as XML, which is what installed fragments
// usually are regardless of their name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatXML
	}
}

// block is one canonical or replacement triple inside a record.
type block struct {
	GroupID    string `xml:"groupId" toml:"groupId" yaml:"groupId"`
	ArtifactID string `xml:"artifactId" toml:"artifactId" yaml:"artifactId"`
	Version    string `xml:"version" toml:"version" yaml:"version"`
}

// blocks collects every occurrence of a block element. TOML and YAML
// fragments may write a single table or a list of them.
type blocks []block

// UnmarshalTOML implements toml.Unmarshaler.
func (b *blocks) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case map[string]any:
		*b = blocks{blockFromMap(v)}
	case []map[string]any:
		for _, m := range v {
			*b = append(*b, blockFromMap(m))
		}
	case []any:
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("expected table, got %T", item)
			}
			*b = append(*b, blockFromMap(m))
		}
	default:
		return fmt.Errorf("expected table or array of tables, got %T", data)
	}
	return nil
}

func blockFromMap(m map[string]any) block {
	str := func(k string) string {
		if s, ok := m[k].(string); ok {
			return s
		}
		return ""
	}
	return block{GroupID: str("groupId"), ArtifactID: str("artifactId"), Version: str("version")}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *blocks) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var one block
		if err := value.Decode(&one); err != nil {
			return err
		}
		*b = blocks{one}
	case yaml.SequenceNode:
		var many []block
		if err := value.Decode(&many); err != nil {
			return err
		}
		*b = many
	default:
		return fmt.Errorf("line %d: expected mapping or sequence", value.Line)
	}
	return nil
}

// record is one <dependency> element before validation.
type record struct {
	Maven blocks `xml:"maven" toml:"maven" yaml:"maven"`
	JPP   blocks `xml:"jpp" toml:"jpp" yaml:"jpp"`
}

type document struct {
	Dependency []record `toml:"dependency" yaml:"dependency"`
}

// entry validates r and converts it to a table entry.
func (r record) entry() (Entry, error) {
	if len(r.Maven) != 1 {
		return Entry{}, fmt.Errorf("record has %d maven blocks, want 1", len(r.Maven))
	}
	m := r.Maven[0].trimmed()
	if m.GroupID == "" || m.ArtifactID == "" {
		return Entry{}, fmt.Errorf("maven block missing groupId or artifactId")
	}
	key := Key{Group: m.GroupID, Name: m.ArtifactID, Version: orPlaceholder(m.Version)}

	switch len(r.JPP) {
	case 0:
		return Entry{Key: key, Target: Target{Group: ElisionGroup, Name: ElisionName, Version: key.Version}}, nil
	case 1:
		j := r.JPP[0].trimmed()
		if j.GroupID == "" || j.ArtifactID == "" {
			return Entry{}, fmt.Errorf("jpp block for %s:%s missing groupId or artifactId", key.Group, key.Name)
		}
		return Entry{Key: key, Target: Target{Group: j.GroupID, Name: j.ArtifactID, Version: orPlaceholder(j.Version)}}, nil
	default:
		return Entry{}, fmt.Errorf("record %s:%s has %d jpp blocks, want at most 1", key.Group, key.Name, len(r.JPP))
	}
}

func (b block) trimmed() block {
	return block{
		GroupID:    strings.TrimSpace(b.GroupID),
		ArtifactID: strings.TrimSpace(b.ArtifactID),
		Version:    strings.TrimSpace(b.Version),
	}
}

func orPlaceholder(v string) string {
	if v == "" {
		return PlaceholderVersion
	}
	return v
}

// ParseFragment parses one mapping fragment.
//
// It returns the valid entries in document order and one error per
// record that was skipped. A non-nil err means the document as a whole
// could not be read; no entries are returned in that case.
func ParseFragment(format Format, data []byte) (entries []Entry, skipped []error, err error) {
	var recs []record
	switch format {
	case FormatTOML:
		var doc document
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMappingMalformed, err, "decode toml fragment")
		}
		recs = doc.Dependency
	case FormatYAML:
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMappingMalformed, err, "decode yaml fragment")
		}
		recs = doc.Dependency
	default:
		recs, err = decodeXML(data)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMappingMalformed, err, "decode xml fragment")
		}
	}

	for i, r := range recs {
		e, err := r.entry()
		if err != nil {
			skipped = append(skipped, errors.Wrap(errors.ErrCodeMappingMalformed, err, "record %d", i+1))
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped, nil
}

var xmlProlog = []byte("<?xml")

// decodeXML reads every <dependency> element at any depth. Fragments have
// no root element, so the content is wrapped in <deps> first.
func decodeXML(data []byte) ([]record, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, xmlProlog) {
		if end := bytes.Index(data, []byte("?>")); end >= 0 {
			data = data[end+2:]
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + 13)
	buf.WriteString("<deps>")
	buf.Write(data)
	buf.WriteString("</deps>")

	var recs []record
	dec := xml.NewDecoder(&buf)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "dependency" {
			continue
		}
		var r record
		if err := dec.DecodeElement(&r, &se); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
}
