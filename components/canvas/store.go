package canvas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrTemplateNotFound is returned when a store has no template for an id.
var ErrTemplateNotFound = errors.New("canvas: template not found")

var templateExtensions = []string{".yaml", ".yml", ".json"}

// InMemoryTemplateStore provides a concurrency-safe template store.
type InMemoryTemplateStore struct {
	mu   sync.RWMutex
	data map[string]DashboardTemplate
}

// NewInMemoryTemplateStore creates a store seeded with templates.
func NewInMemoryTemplateStore(templates ...DashboardTemplate) *InMemoryTemplateStore {
	s := &InMemoryTemplateStore{data: make(map[string]DashboardTemplate)}
	for _, tpl := range templates {
		s.data[tpl.ID] = *tpl.Clone()
	}
	return s
}

// Get returns a copy of the stored template.
func (s *InMemoryTemplateStore) Get(_ context.Context, dashboardID string) (DashboardTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.data[dashboardID]
	if !ok {
		return DashboardTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, dashboardID)
	}
	return *tpl.Clone(), nil
}

// Save stores a copy of the template.
func (s *InMemoryTemplateStore) Save(_ context.Context, tpl DashboardTemplate) error {
	if tpl.ID == "" {
		return errors.New("canvas: template store requires a template id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tpl.ID] = *tpl.Clone()
	return nil
}

// IDs lists stored template ids.
func (s *InMemoryTemplateStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FileTemplateStore reads templates from <Dir>/<id>.yaml, .yml or .json.
type FileTemplateStore struct {
	Dir string
}

// Get reads and decodes the template file of dashboardID.
func (s FileTemplateStore) Get(_ context.Context, dashboardID string) (DashboardTemplate, error) {
	if dashboardID == "" || filepath.Base(dashboardID) != dashboardID {
		return DashboardTemplate{}, fmt.Errorf("canvas: invalid dashboard id %q", dashboardID)
	}
	for _, ext := range templateExtensions {
		path := filepath.Join(s.Dir, dashboardID+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		tpl, err := ReadTemplateFile(path)
		if err != nil {
			return DashboardTemplate{}, err
		}
		return *tpl, nil
	}
	return DashboardTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, dashboardID)
}

// ReadTemplateFile loads a YAML or JSON template document from disk.
func ReadTemplateFile(path string) (*DashboardTemplate, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("canvas: open template %s: %w", path, err)
	}
	defer f.Close()
	tpl, err := DecodeTemplate(f)
	if err != nil {
		return nil, fmt.Errorf("canvas: decode template %s: %w", path, err)
	}
	return tpl, nil
}

// DecodeTemplate reads a YAML or JSON template document and validates it.
func DecodeTemplate(r io.Reader) (*DashboardTemplate, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var tpl DashboardTemplate
	if err := decoder.Decode(&tpl); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("canvas: template document is empty")
		}
		return nil, fmt.Errorf("canvas: parse template: %w", err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}
