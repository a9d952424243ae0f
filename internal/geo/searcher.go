package geo

import (
	"context"

	"github.com/jejak-app/jejak/api/internal/metrics"
	"go.uber.org/zap"
)

// Searcher combines the shared search cache with the geocoding provider. One Searcher is created
// at startup and shared by every resolver and HTTP handler for the life of the process.
type Searcher struct {
	cache    *SearchCache
	geocoder Geocoder
	logger   *zap.Logger
}

// NewSearcher returns a Searcher. A nil logger is replaced by a no-op logger.
func NewSearcher(cache *SearchCache, geocoder Geocoder, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{cache: cache, geocoder: geocoder, logger: logger}
}

// Lookup returns cached candidates for query, or fetches and caches them on a miss.
func (s *Searcher) Lookup(ctx context.Context, query string) ([]Candidate, bool, error) {
	if cached, ok := s.cache.Get(query); ok {
		metrics.GeocodeCacheLookups.WithLabelValues("hit").Inc()
		return cached, true, nil
	}
	metrics.GeocodeCacheLookups.WithLabelValues("miss").Inc()

	candidates, err := s.geocoder.Search(ctx, query)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("search", "error").Inc()
		return nil, false, err
	}
	metrics.GeocodeRequests.WithLabelValues("search", "ok").Inc()

	if candidates == nil {
		candidates = []Candidate{}
	}
	s.cache.Put(query, candidates)
	s.logger.Debug("geocode search cached", zap.String("query", query), zap.Int("results", len(candidates)))
	return cloneCandidates(candidates), false, nil
}

// Reverse resolves coordinates to an address. Reverse lookups are not cached.
func (s *Searcher) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	place, err := s.geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("reverse", "error").Inc()
		return Place{}, err
	}
	metrics.GeocodeRequests.WithLabelValues("reverse", "ok").Inc()
	return place, nil
}
