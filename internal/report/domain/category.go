package domain

import (
	"fmt"
	"strings"
)

// Category classifies a report.
type Category string

const (
	CategoryInfrastructure Category = "Infrastruktur"
	CategoryCleanliness    Category = "Kebersihan"
	CategoryLighting       Category = "Penerangan"
	CategoryOther          Category = "Lainnya"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryInfrastructure, CategoryCleanliness, CategoryLighting, CategoryOther}

// ParseCategory matches a category case-insensitively.
func ParseCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	for _, c := range Categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", value)
}

// CategoryOrOther returns the parsed category or Lainnya for anything unknown.
func CategoryOrOther(value string) Category {
	c, err := ParseCategory(value)
	if err != nil {
		return CategoryOther
	}
	return c
}

func (c Category) String() string {
	return string(c)
}

// Priority is an optional urgency rank 1..5. Zero means unset.
type Priority int

const (
	PriorityUnset Priority = 0
	PriorityMin   Priority = 1
	PriorityMax   Priority = 5
)

var priorityLabels = map[Priority]string{
	1: "Rendah",
	2: "Rendah-Sedang",
	3: "Sedang",
	4: "Sedang-Tinggi",
	5: "Tinggi",
}

// NewPriority validates a priority; zero is accepted as unset.
func NewPriority(value int) (Priority, error) {
	p := Priority(value)
	if p == PriorityUnset {
		return p, nil
	}
	if p < PriorityMin || p > PriorityMax {
		return PriorityUnset, fmt.Errorf("priority must be between %d and %d, got %d", PriorityMin, PriorityMax, value)
	}
	return p, nil
}

// IsSet reports whether a priority was assigned.
func (p Priority) IsSet() bool {
	return p != PriorityUnset
}

// Label returns the Indonesian label shown in the admin console.
func (p Priority) Label() string {
	return priorityLabels[p]
}
