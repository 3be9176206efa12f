package uritmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("x://{id}/a"))
	assert.False(t, IsTemplate("x://a/b"))
}

func TestExpandDeterministic(t *testing.T) {
	got, err := Expand("x://{owner}/{repo}", nil)
	require.NoError(t, err)
	assert.Equal(t, "x://example/ex", got)
}

func TestExpandWithValues(t *testing.T) {
	got, err := Expand("x://{owner}/{repo}", map[string]string{"owner": "acme", "repo": "widgets"})
	require.NoError(t, err)
	assert.Equal(t, "x://acme/widgets", got)
}

func TestMatches(t *testing.T) {
	ok, err := Matches("x://{owner}/{repo}", "x://acme/widgets")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches("x://{owner}/{repo}", "x://acme/widgets/extra")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompare_ExactLiterals(t *testing.T) {
	o, err := Compare("x://a", "x://a")
	require.NoError(t, err)
	assert.Equal(t, OverlapIntersecting, o)

	o, err = Compare("x://a", "x://b")
	require.NoError(t, err)
	assert.Equal(t, OverlapNone, o)
}

func TestCompare_TemplateCoversExact(t *testing.T) {
	o, err := Compare("x://{id}", "x://42")
	require.NoError(t, err)
	assert.Equal(t, OverlapACoversB, o)

	o, err = Compare("x://42", "x://{id}")
	require.NoError(t, err)
	assert.Equal(t, OverlapBCoversA, o)
}

func TestCompare_TwoTemplatesSameSkeleton(t *testing.T) {
	o, err := Compare("x://{owner}/{repo}", "x://{a}/{b}")
	require.NoError(t, err)
	assert.Equal(t, OverlapIntersecting, o)
}
