package admin

import (
	"time"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

type adminReportResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Priority        int       `json:"priority,omitempty"`
	PriorityLabel   string    `json:"priorityLabel,omitempty"`
	Status          string    `json:"status"`
	PhotoURL        string    `json:"photoUrl,omitempty"`
	Latitude        float64   `json:"lat"`
	Longitude       float64   `json:"lng"`
	Address         string    `json:"address,omitempty"`
	Response        string    `json:"response,omitempty"`
	ReporterName    string    `json:"reporterName,omitempty"`
	ReporterContact string    `json:"reporterContact,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type adminReportListResponse struct {
	Items []adminReportResponse `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type updateStatusRequest struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Admin     adminProfile `json:"admin"`
}

type adminProfile struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name"`
}

func toAdminReportResponse(r reportdomain.Report, photoURL string) adminReportResponse {
	return adminReportResponse{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category.String(),
		Priority:        int(r.Priority),
		PriorityLabel:   r.Priority.Label(),
		Status:          r.Status.String(),
		PhotoURL:        photoURL,
		Latitude:        r.Location.Latitude,
		Longitude:       r.Location.Longitude,
		Address:         r.Address,
		Response:        r.Response,
		ReporterName:    r.ReporterName,
		ReporterContact: r.ReporterContact,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
