package public

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/geo"
	"github.com/jejak-app/jejak/api/internal/interfaces/http/common"
)

const (
	geoTimeout    = 8 * time.Second
	submitTimeout = 60 * time.Second
)

// geoSearchHandler is the one-shot variant of the live search. Provider failures yield an empty
// result list rather than an error.
func (h *Handler) geoSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		resp := geoSearchResponse{Query: query, Results: []geo.Candidate{}}
		if utf8.RuneCountInString(query) < geo.MinQueryRunes {
			common.WriteJSON(h.logger, w, http.StatusOK, resp)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), geoTimeout)
		defer cancel()

		results, cached, err := h.geo.Lookup(ctx, query)
		if err != nil {
			h.logger.Warn("location search failed", zap.String("query", query), zap.Error(err))
			common.WriteJSON(h.logger, w, http.StatusOK, resp)
			return
		}
		resp.Results = results
		resp.Cached = cached
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}

func (h *Handler) geoReverseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		lat, latOK := common.ParseFloat(query.Get("lat"))
		lng, lngOK := common.ParseFloat(query.Get("lng"))
		if !latOK || !lngOK || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			common.WriteError(h.logger, w, http.StatusBadRequest, "koordinat tidak valid")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), geoTimeout)
		defer cancel()

		place, err := h.geo.Reverse(ctx, lat, lng)
		if err != nil {
			h.logger.Warn("reverse geocode failed", zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
			place = geo.Place{Latitude: lat, Longitude: lng}
		}
		place.Label = strings.TrimSpace(place.Label)
		common.WriteJSON(h.logger, w, http.StatusOK, place)
	}
}
