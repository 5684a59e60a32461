package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	reg, err := NewRegistry(Defaults())
	require.NoError(t, err)

	all := reg.All()
	require.NotEmpty(t, all)
	total := len(reg.ByTier(TierBreaking)) + len(reg.ByTier(TierSpecialist)) + len(reg.ByTier(TierDeepDive))
	assert.Equal(t, len(all), total)

	bbc, err := reg.Lookup("BBC News")
	require.NoError(t, err)
	assert.Equal(t, "bbc", bbc.Family)
	assert.Equal(t, TierBreaking, bbc.Tier)
}

func TestLookupUnknown(t *testing.T) {
	reg, err := NewRegistry(Defaults())
	require.NoError(t, err)

	_, err = reg.Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknownSource))
}

func TestNewRegistryRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		descs []Descriptor
	}{
		{"empty name", []Descriptor{{Tier: 1, Entrypoints: []Entrypoint{ep("https://a.test", "")}}}},
		{"bad tier", []Descriptor{{Name: "a", Tier: 4, Entrypoints: []Entrypoint{ep("https://a.test", "")}}}},
		{"no entrypoints", []Descriptor{{Name: "a", Tier: 1}}},
		{"relative url", []Descriptor{{Name: "a", Tier: 1, Entrypoints: []Entrypoint{ep("/news", "")}}}},
		{"duplicate", []Descriptor{
			{Name: "a", Tier: 1, Entrypoints: []Entrypoint{ep("https://a.test", "")}},
			{Name: "a", Tier: 2, Entrypoints: []Entrypoint{ep("https://b.test", "")}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.descs)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	data := `
sources:
  - name: X
    tier: 2
    entrypoints:
      - url: https://x.test/science
        category: Science
  - name: Y
    tier: 3
    region: India
    family: rss
    entrypoints:
      - url: https://y.test/feed.xml
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)

	x, err := reg.Lookup("X")
	require.NoError(t, err)
	assert.Equal(t, "Global", x.Region)
	assert.Equal(t, "Science", x.Entrypoints[0].CategoryHint)

	y, err := reg.Lookup("Y")
	require.NoError(t, err)
	assert.Equal(t, "rss", y.Family)
	assert.Len(t, reg.ByTier(TierDeepDive), 1)
}

func TestSearchDescriptors(t *testing.T) {
	descs := SearchDescriptors([]string{"Climate Change", " ", "AI"}, DefaultSearchEndpoints[:1])

	require.Len(t, descs, 1)
	d := descs[0]
	assert.Equal(t, "BBC Search", d.Name)
	assert.Equal(t, TierDeepDive, d.Tier)
	require.Len(t, d.Entrypoints, 2)
	assert.Equal(t, "https://www.bbc.co.uk/search?q=Climate+Change", d.Entrypoints[0].URL)
	assert.Equal(t, "World", d.Entrypoints[0].CategoryHint)
}
