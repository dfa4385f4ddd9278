package factgrid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	lookup := writeFile(t, "lookup.yaml", lookupYAML)
	path := writeFile(t, "factgrid.yaml", `
label_separator: " / "
preferred_currency: EUR
default_members:
  - axis: Geography
    member: AllRegions
    label: All regions
adjustment_lookup: `+lookup+`
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, " / ", cfg.LabelSeparator)
	assert.Equal(t, " - ", cfg.TitleSeparator, "defaults fill unset keys")
	assert.Equal(t, "EUR", cfg.PreferredCurrency)
	assert.Equal(t, []MemberConfig{{Axis: "Geography", Member: "AllRegions", Label: "All regions"}}, cfg.DefaultMembers)

	opts, err := cfg.Options()
	require.NoError(t, err)
	e := NewEngine(opts...)
	assert.Equal(t, " / ", e.opts.labelSeparator)
	assert.Equal(t, "EUR", e.opts.preferredCurrency)
	def, ok := e.opts.defaults.Default("Geography")
	require.True(t, ok)
	assert.Equal(t, "AllRegions", def.Member)
	assert.True(t, def.IsDefault)
	require.NotNil(t, e.opts.adjustments)
	assert.True(t, e.opts.adjustments.IsAdjusted(restated))
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "factgrid.json", `{"title_separator": ": "}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ": ", cfg.TitleSeparator)
	assert.Equal(t, " | ", cfg.LabelSeparator)
	assert.Equal(t, "USD", cfg.PreferredCurrency)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfigOptions_MissingLookup(t *testing.T) {
	cfg := &Config{AdjustmentLookup: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := cfg.Options()
	kind, ok := IncompleteKindOf(err)
	require.True(t, ok)
	assert.Equal(t, MissingLookup, kind)
}
