package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearcher_LookupCachesOnMiss(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]Candidate{"Jakarta": jakarta}}
	s := NewSearcher(NewSearchCache(), g, nil)

	first, cached, err := s.Lookup(context.Background(), "Jakarta")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, jakarta, first)

	second, cached, err := s.Lookup(context.Background(), "Jakarta")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Jakarta"}, g.searches())
}

func TestSearcher_EmptyResultsAreCached(t *testing.T) {
	g := &fakeGeocoder{}
	s := NewSearcher(NewSearchCache(), g, nil)

	res, _, err := s.Lookup(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	_, cached, err := s.Lookup(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Len(t, g.searches(), 1)
}

func TestSearcher_ErrorsAreNotCached(t *testing.T) {
	g := &fakeGeocoder{searchErr: errors.New("503")}
	cache := NewSearchCache()
	s := NewSearcher(cache, g, nil)

	_, _, err := s.Lookup(context.Background(), "Bogor")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestSearcher_ReverseIsNotCached(t *testing.T) {
	g := &fakeGeocoder{reverseLabel: func(float64, float64) string { return "Jl. Sudirman" }}
	cache := NewSearchCache()
	s := NewSearcher(cache, g, nil)

	for i := 0; i < 2; i++ {
		place, err := s.Reverse(context.Background(), -6.2, 106.8)
		require.NoError(t, err)
		assert.Equal(t, "Jl. Sudirman", place.Label)
	}
	assert.Equal(t, 2, g.reverseCalls)
	assert.Equal(t, 0, cache.Len())
}
