package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

type widgetCmd struct {
	Code         string `required:"" help:"Widget type code (e.g. acme.widget.heatMap)."`
	Label        string `help:"Display label (defaults to a title-cased code)."`
	Icon         string `help:"Optional icon name."`
	MinColumns   int    `name:"min-columns" default:"2" help:"Minimum width in grid columns."`
	MinRows      int    `name:"min-rows" default:"2" help:"Minimum height in grid rows."`
	ManifestPath string `required:"" name:"manifest" type:"path" help:"Catalog manifest YAML file to update."`
	SchemaPath   string `name:"schema" type:"path" help:"Optional JSON schema file for the widget configuration."`
	Overwrite    bool   `help:"Replace an existing entry with the same code."`
}

func (cmd *widgetCmd) Run() error {
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("canvasctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	schema, err := loadSchema(cmd.SchemaPath)
	if err != nil {
		return err
	}
	entry := canvas.WidgetType{
		Code:       cmd.Code,
		Label:      cmd.Label,
		Icon:       cmd.Icon,
		MinColumns: cmd.MinColumns,
		MinRows:    cmd.MinRows,
		Schema:     schema,
	}
	if entry.Label == "" {
		entry.Label = deriveLabel(cmd.Code)
	}
	if err := upsertWidgetType(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s (%s) to %s\n", entry.Code, entry.Label, manifestPath)
	return nil
}

func upsertWidgetType(doc *canvas.CatalogManifest, entry canvas.WidgetType, overwrite bool) error {
	if strings.TrimSpace(entry.Code) == "" {
		return errors.New("canvasctl: widget code is required")
	}
	replaced := false
	for idx := range doc.Types {
		if doc.Types[idx].Code != entry.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("canvasctl: manifest already defines widget type %s (use --overwrite to replace)", entry.Code)
		}
		doc.Types[idx] = entry
		replaced = true
	}
	if !replaced {
		doc.Types = append(doc.Types, entry)
	}
	sort.Slice(doc.Types, func(i, j int) bool {
		return doc.Types[i].Code < doc.Types[j].Code
	})
	return nil
}

// deriveLabel title-cases the last dotted segment of a code.
func deriveLabel(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToCase(slug, strcase.TitleCase, ' ')
}

func loadSchema(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("canvasctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("canvasctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*canvas.CatalogManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &canvas.CatalogManifest{
				Version: canvas.ManifestVersion,
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("canvasctl: stat manifest: %w", err)
	}
	return canvas.ReadManifest(path)
}

func writeManifest(path string, doc *canvas.CatalogManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("canvasctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("canvasctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("canvasctl: write manifest: %w", err)
	}
	return nil
}
