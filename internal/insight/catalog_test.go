package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogYAML(t *testing.T) {
	path := writeFile(t, "insights.yaml", `insights:
  - name: Logs
    patterns:
      - '.*logger\.[A-Z]+.*'
      - '.*LOGGER\.[a-z]+.*'
  - name: TODOs
    patterns: ['TODO|FIXME']
`)
	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Logs", "TODOs"}, c.Names())
	assert.Len(t, c[0].Patterns, 2)
}

func TestLoadCatalogTOML(t *testing.T) {
	path := writeFile(t, "insights.toml", `[[insights]]
name = "Prints"
patterns = ['^\s*print\(']
`)
	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.True(t, c[0].Match(`  print("x")`))
}

func TestLoadCatalogInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "insights: []\n"},
		{"missing name", "insights:\n  - patterns: ['a']\n"},
		{"no patterns", "insights:\n  - name: X\n    patterns: []\n"},
		{"blank pattern", "insights:\n  - name: X\n    patterns: ['']\n"},
		{"duplicate", "insights:\n  - name: X\n    patterns: ['a']\n  - name: X\n    patterns: ['b']\n"},
		{"bad regex", "insights:\n  - name: X\n    patterns: ['(']\n"},
		{"bad yaml", "insights: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "c.yaml", tt.content)
			_, err := LoadCatalog(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog("/nonexistent/catalog.yaml")
	assert.Error(t, err)
}

func TestCatalogSpecRoundTrip(t *testing.T) {
	spec := DefaultCatalog().Spec()
	c, err := spec.Compile()
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Names(), c.Names())
	assert.Equal(t, DefaultCatalog()[0].PatternStrings(), c[0].PatternStrings())
}
