package public

import (
	"github.com/jejak-app/jejak/api/internal/geo"
	publicdomain "github.com/jejak-app/jejak/api/internal/public/domain"
)

type reportListResponse struct {
	Items []publicdomain.ReportSummary `json:"items"`
	Total int64                        `json:"total"`
	Page  int                          `json:"page"`
	Limit int                          `json:"limit"`
}

type geoSearchResponse struct {
	Query   string          `json:"query"`
	Results []geo.Candidate `json:"results"`
	Cached  bool            `json:"cached"`
}

// liveRequest is a message sent by the report form over /geo/live.
type liveRequest struct {
	Type  string  `json:"type"`
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Index int     `json:"index"`
}

type liveMessage struct {
	Type     string         `json:"type"`
	State    *geo.State     `json:"state,omitempty"`
	Selected *geo.Candidate `json:"selected,omitempty"`
	Error    string         `json:"error,omitempty"`
}
