package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxTitleRunes bounds report titles after normalisation.
	MaxTitleRunes = 120
	// MaxDescriptionRunes bounds report descriptions.
	MaxDescriptionRunes = 4000
	// derivedTitleRunes is the length of a title derived from the description.
	derivedTitleRunes = 80
)

// Report is a citizen-submitted record describing a public-infrastructure issue.
type Report struct {
	ID              string
	Title           string
	Description     string
	Category        Category
	Priority        Priority
	Status          Status
	PhotoPath       string
	Location        Location
	Address         string
	Moderation      bool
	Response        string
	ReporterName    string
	ReporterContact string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Latitude  float64
	Longitude float64
}

// NewLocation validates a coordinate pair. (0,0) is treated as unset.
func NewLocation(lat, lng float64) (Location, error) {
	if lat == 0 && lng == 0 {
		return Location{}, NewValidationError("location", "koordinat lokasi belum dipilih")
	}
	if lat < -90 || lat > 90 {
		return Location{}, NewValidationError("latitude", "latitude harus di antara -90 dan 90")
	}
	if lng < -180 || lng > 180 {
		return Location{}, NewValidationError("longitude", "longitude harus di antara -180 dan 180")
	}
	return Location{Latitude: lat, Longitude: lng}, nil
}

// NewTitle trims and bounds a title. An empty title is derived from the description.
func NewTitle(title, description string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = deriveTitle(description)
	}
	if trimmed == "" {
		return "", NewValidationError("title", "judul laporan wajib diisi")
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleRunes {
		trimmed = truncateRunes(trimmed, MaxTitleRunes)
	}
	return trimmed, nil
}

// NewDescription trims and validates a description.
func NewDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return "", NewValidationError("description", "Isi deskripsi laporan terlebih dahulu!")
	}
	if utf8.RuneCountInString(trimmed) > MaxDescriptionRunes {
		return "", NewValidationError("description", fmt.Sprintf("deskripsi maksimal %d karakter", MaxDescriptionRunes))
	}
	return trimmed, nil
}

func deriveTitle(description string) string {
	line := strings.TrimSpace(description)
	if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	return truncateRunes(line, derivedTitleRunes)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}
