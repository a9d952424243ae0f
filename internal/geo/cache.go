package geo

import (
	gocache "github.com/patrickmn/go-cache"
)

// Candidate is one geocoding search hit.
type Candidate struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	SourceID  string  `json:"sourceId"`
}

// SearchCache memoises search results by the exact query string. Entries never expire and are
// never replaced once stored.
type SearchCache struct {
	items *gocache.Cache
}

// NewSearchCache returns an empty, unbounded cache.
func NewSearchCache() *SearchCache {
	// cleanup interval 0 disables the go-cache janitor goroutine
	return &SearchCache{items: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns a copy of the cached candidates for query.
func (c *SearchCache) Get(query string) ([]Candidate, bool) {
	raw, ok := c.items.Get(query)
	if !ok {
		return nil, false
	}
	return cloneCandidates(raw.([]Candidate)), true
}

// Put stores candidates for query. A key that is already cached keeps its first value.
func (c *SearchCache) Put(query string, candidates []Candidate) {
	_ = c.items.Add(query, cloneCandidates(candidates), gocache.NoExpiration)
}

// Len returns the number of cached queries.
func (c *SearchCache) Len() int {
	return c.items.ItemCount()
}

func cloneCandidates(in []Candidate) []Candidate {
	if in == nil {
		return nil
	}
	out := make([]Candidate, len(in))
	copy(out, in)
	return out
}
