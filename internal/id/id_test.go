package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "reveillon-2026", Slugify("Reveillon  2026!"))
	assert.Equal(t, "summer-bbq", Slugify("--Summer BBQ--"))
	assert.Equal(t, "", Slugify("日本語"))
	assert.Equal(t, "", Slugify(""))
}

func TestNewSlug(t *testing.T) {
	slug, err := NewSlug("Family Dinner")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(slug, "family-dinner-"))
	assert.Len(t, slug, len("family-dinner-")+6)

	// A name with no usable characters still yields a non-empty slug.
	slug, err = NewSlug("!!!")
	require.NoError(t, err)
	assert.Len(t, slug, 6)
}

func TestNewSlugUnique(t *testing.T) {
	a, err := NewSlug("Picnic")
	require.NoError(t, err)
	b, err := NewSlug("Picnic")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewSecret(t *testing.T) {
	secret, err := NewSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 21)

	other, err := NewSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}
