// Package scene saves and loads registries as YAML documents. It only goes
// through the registry's public API: entities are recreated with
// CreateEntity and components with Add, and cross references are resolved
// through Identity ids since registry entity ids are process-local.
package scene

import (
	"bytes"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/lockstep/ecs/system"
)

// Document is one scene file.
type Document struct {
	Entities []EntitySpec `yaml:"entities"`
	Systems  system.Config `yaml:"systems,omitempty"`
}

// EntitySpec is one entity. Parent holds the Identity id of the parent
// entity, if any.
type EntitySpec struct {
	ID         uuid.UUID      `yaml:"id"`
	Name       string         `yaml:"name,omitempty"`
	Parent     string         `yaml:"parent,omitempty"`
	Components map[string]any `yaml:"components,omitempty"`
}

// Read parses a document.
func Read(rd io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return Document{}, eris.Wrap(err, "scene: decode")
	}
	return doc, nil
}

// Write encodes doc as YAML.
func Write(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "scene: encode")
	}
	return eris.Wrap(enc.Close(), "scene: encode")
}

// ReadFile reads a document from disk, falling back to the embedded scenes.
func ReadFile(name string) (Document, error) {
	data, err := LoadScene(name)
	if err != nil {
		return Document{}, eris.Wrapf(err, "scene: load %s", name)
	}
	doc, err := Read(bytes.NewReader(data))
	if err != nil {
		return Document{}, eris.Wrapf(err, "scene: %s", name)
	}
	return doc, nil
}

// WriteFile writes doc to path.
func WriteFile(path string, doc Document) error {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "scene: write %s", path)
	}
	return nil
}

// DecodeSpec converts a generically decoded YAML value into T. Fields T
// does not declare are rejected, as they are by Read.
func DecodeSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return zero, err
	}
	return out, nil
}
