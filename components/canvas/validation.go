package canvas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator checks a widget config against the schema of its widget type.
type ConfigValidator interface {
	Validate(t WidgetType, config map[string]any) error
}

// JSONSchemaValidator validates widget configs with jsonschema. Compiled schemas are
// cached per widget type and recompiled when a manifest reload changes the schema.
type JSONSchemaValidator struct {
	mu    sync.Mutex
	cache map[string]compiledSchema
}

type compiledSchema struct {
	source []byte
	schema *jsonschema.Schema
}

// NewJSONSchemaValidator returns an empty validator.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{cache: make(map[string]compiledSchema)}
}

// Validate checks config against t.Schema. Types without a schema accept any config.
func (v *JSONSchemaValidator) Validate(t WidgetType, config map[string]any) error {
	if len(t.Schema) == 0 {
		return nil
	}
	schema, err := v.compile(t)
	if err != nil {
		return err
	}
	doc, err := configDocument(config)
	if err != nil {
		return fmt.Errorf("canvas: config of %s is not JSON: %w", t.Code, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("canvas: config of %s rejected: %w", t.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) compile(t WidgetType) (*jsonschema.Schema, error) {
	source, err := json.Marshal(t.Schema)
	if err != nil {
		return nil, fmt.Errorf("canvas: encode schema of %s: %w", t.Code, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if cached, ok := v.cache[t.Code]; ok && bytes.Equal(cached.source, source) {
		return cached.schema, nil
	}
	compiler := jsonschema.NewCompiler()
	url := "widget://" + t.Code + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(source)); err != nil {
		return nil, fmt.Errorf("canvas: schema of %s: %w", t.Code, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("canvas: schema of %s: %w", t.Code, err)
	}
	v.cache[t.Code] = compiledSchema{source: source, schema: schema}
	return schema, nil
}

// configDocument turns a config into the generic JSON value jsonschema expects.
func configDocument(config map[string]any) (any, error) {
	if config == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ValidateWidgets checks the config of every widget whose type the catalog knows.
// Widgets of unknown types pass; their config is opaque.
func ValidateWidgets(catalog WidgetCatalog, validator ConfigValidator, tpl *DashboardTemplate) error {
	if tpl == nil {
		return errNilTemplate
	}
	var errs error
	for _, w := range tpl.Widgets {
		wt, ok := catalog.WidgetType(w.WidgetType)
		if !ok {
			continue
		}
		if err := validator.Validate(wt, w.WidgetConfig); err != nil {
			errs = errors.Join(errs, fmt.Errorf("widget %s: %w", w.ID, err))
		}
	}
	return errs
}
