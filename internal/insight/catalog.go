package insight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Catalog is the ordered set of groups counted for a report.
// Build it once at startup and treat it as read-only.
type Catalog []*Group

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		MustGroup("Logs",
			`.*logger\.[A-Z]+.*`, // Python
			`.*LOGGER\.[a-z]+.*`, // Java
		),
	}
}

// Names returns the display names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, g := range c {
		names[i] = g.Name
	}
	return names
}

// Lookup finds a group by display name.
func (c Catalog) Lookup(name string) (*Group, bool) {
	for _, g := range c {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// File is the on-disk catalog layout, shared by the YAML and TOML forms.
type File struct {
	Insights []GroupSpec `yaml:"insights" toml:"insights" validate:"required,min=1,unique=Name,dive"`
}

// GroupSpec describes one group before its patterns are compiled.
type GroupSpec struct {
	Name     string   `yaml:"name" toml:"name" validate:"required"`
	Patterns []string `yaml:"patterns" toml:"patterns" validate:"required,min=1,dive,required"`
}

// LoadCatalog reads a catalog file. The format is chosen by extension:
// .toml is TOML, anything else is YAML.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	}

	return f.Compile()
}

// Compile validates the specs and compiles every group.
func (f *File) Compile() (Catalog, error) {
	validate := validator.New()
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	catalog := make(Catalog, 0, len(f.Insights))
	for _, spec := range f.Insights {
		g, err := NewGroup(spec.Name, spec.Patterns...)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog: %w", err)
		}
		catalog = append(catalog, g)
	}
	return catalog, nil
}

// Spec converts a compiled catalog back to its file form.
func (c Catalog) Spec() File {
	f := File{Insights: make([]GroupSpec, 0, len(c))}
	for _, g := range c {
		f.Insights = append(f.Insights, GroupSpec{
			Name:     g.Name,
			Patterns: g.PatternStrings(),
		})
	}
	return f
}
