package canvas

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current catalog manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// CatalogManifest models a YAML/JSON document listing widget types.
type CatalogManifest struct {
	Version string       `json:"version" yaml:"version"`
	Name    string       `json:"name,omitempty" yaml:"name,omitempty"`
	Types   []WidgetType `json:"types" yaml:"types"`
	Source  string       `json:"-" yaml:"-"`
}

// LoadManifestFile reads a catalog manifest from disk and registers its types.
func (c *Catalog) LoadManifestFile(path string) (*CatalogManifest, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := c.LoadManifest(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifest registers every widget type of a decoded manifest.
func (c *Catalog) LoadManifest(doc *CatalogManifest) error {
	if doc == nil {
		return errors.New("canvas: manifest document is nil")
	}
	for _, t := range doc.Types {
		if err := c.Register(t); err != nil {
			return fmt.Errorf("canvas: register widget type %s from %s: %w", t.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a catalog manifest from disk without registering it.
func ReadManifest(path string) (*CatalogManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("canvas: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("canvas: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a catalog manifest from any reader.
func DecodeManifest(r io.Reader) (*CatalogManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc CatalogManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("canvas: manifest is empty")
		}
		return nil, fmt.Errorf("canvas: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *CatalogManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("canvas: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Types))
	for idx, t := range doc.Types {
		if t.Code == "" {
			return fmt.Errorf("canvas: manifest widget type at index %d is missing code", idx)
		}
		if t.MinColumns < 0 || t.MinRows < 0 {
			return fmt.Errorf("canvas: manifest widget type %s has negative minimum size", t.Code)
		}
		if _, exists := seen[t.Code]; exists {
			return fmt.Errorf("canvas: manifest duplicates widget type %s", t.Code)
		}
		seen[t.Code] = struct{}{}
	}
	return nil
}
