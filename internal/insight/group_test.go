package insight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	g, err := NewGroup("Logs", `.*logger\.[A-Z]+.*`, `.*LOGGER\.[a-z]+.*`)
	require.NoError(t, err)
	assert.Equal(t, "Logs", g.Name)
	assert.Len(t, g.Patterns, 2)
	assert.Equal(t, []string{`.*logger\.[A-Z]+.*`, `.*LOGGER\.[a-z]+.*`}, g.PatternStrings())
}

func TestNewGroupErrors(t *testing.T) {
	_, err := NewGroup("", "x")
	assert.True(t, errors.Is(err, ErrEmptyName))

	_, err = NewGroup("Logs")
	assert.True(t, errors.Is(err, ErrNoPatterns))

	_, err = NewGroup("Bad", "ok", "(unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(unclosed")
}

func TestMustGroupPanics(t *testing.T) {
	assert.Panics(t, func() { MustGroup("Bad", "[") })
	assert.NotPanics(t, func() { MustGroup("Good", "a") })
}

func TestGroupMatch(t *testing.T) {
	g := MustGroup("Logs", `.*logger\.[A-Z]+.*`, `.*LOGGER\.[a-z]+.*`)

	tests := []struct {
		line string
		want bool
	}{
		{`    logger.INFO("started")`, true},
		{`LOGGER.info("java")`, true},
		{`logger.info("lowercase python")`, false},
		{`print("hello")`, false},
		{``, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Match(tt.line), "line %q", tt.line)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Len(t, c, 1)
	assert.Equal(t, []string{"Logs"}, c.Names())

	g, ok := c.Lookup("Logs")
	require.True(t, ok)
	assert.Len(t, g.Patterns, 2)

	_, ok = c.Lookup("Missing")
	assert.False(t, ok)
}
