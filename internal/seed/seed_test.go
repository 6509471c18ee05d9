package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
categories:
  - title: Travel
    slug: travel
    description: Trips and places
  - title: Drafts
    slug: drafts
    is_published: false
locations:
  - name: Moscow
  - name: Nowhere
    is_published: false
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)

	require.Len(t, f.Categories, 2)
	assert.Equal(t, "travel", f.Categories[0].Slug)
	assert.True(t, published(f.Categories[0].Published))
	assert.False(t, published(f.Categories[1].Published))

	require.Len(t, f.Locations, 2)
	assert.True(t, published(f.Locations[0].Published))
	assert.False(t, published(f.Locations[1].Published))
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Categories)
}

func TestParseRejectsBadSlug(t *testing.T) {
	_, err := Parse(strings.NewReader("categories:\n  - title: Bad\n    slug: not a slug\n"))
	assert.ErrorContains(t, err, "slug")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("categories:\n  - title: T\n    slug: t\n    colour: red\n"))
	assert.Error(t, err)
}
