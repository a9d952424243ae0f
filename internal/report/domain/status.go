package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a report.
type Status string

const (
	StatusReceived   Status = "Diterima"
	StatusInProgress Status = "Proses"
	StatusDone       Status = "Selesai"
)

// Statuses lists lifecycle states in their usual order.
var Statuses = []Status{StatusReceived, StatusInProgress, StatusDone}

// InitialStatus is assigned to every newly created report.
const InitialStatus = StatusReceived

// transitions allows every state to reach every other state. Admins use backward moves to correct
// mistakes; whether Selesai should become terminal is still open with product.
var transitions = map[Status]map[Status]bool{
	StatusReceived:   {StatusReceived: true, StatusInProgress: true, StatusDone: true},
	StatusInProgress: {StatusReceived: true, StatusInProgress: true, StatusDone: true},
	StatusDone:       {StatusReceived: true, StatusInProgress: true, StatusDone: true},
}

// statusAliases maps labels used by the admin console onto stored statuses.
var statusAliases = map[string]Status{
	"baru": StatusReceived,
}

// ParseStatus accepts one of the enumerated statuses, or the console label "Baru" for Diterima.
// Empty input is rejected.
func ParseStatus(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: status is empty", ErrInvalidStatus)
	}
	if s, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return s, nil
	}
	for _, s := range Statuses {
		if strings.EqualFold(trimmed, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	next, ok := transitions[from]
	if !ok {
		// legacy rows without a status are treated as freshly received
		next = transitions[StatusReceived]
	}
	return next[to]
}

func (s Status) String() string {
	return string(s)
}

// StatusChange is the outcome of an admin lifecycle update before it is persisted.
type StatusChange struct {
	ReportID  string
	Status    Status
	Response  string
	UpdatedAt time.Time
}

// PlanStatusChange validates a transition against the current report and prepares the persisted
// values. The report itself is not modified.
func PlanStatusChange(current Report, next Status, responseText, adminName string, now time.Time) (StatusChange, error) {
	if !CanTransition(current.Status, next) {
		return StatusChange{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, current.Status, next)
	}
	// the response is overwritten as sent; an empty text clears it
	response := ""
	if text := strings.TrimSpace(responseText); text != "" {
		response = FormatResponse(adminName, text)
	}
	return StatusChange{
		ReportID:  current.ID,
		Status:    next,
		Response:  response,
		UpdatedAt: now,
	}, nil
}

// FormatResponse prefixes an admin response with the admin's display name.
func FormatResponse(adminName, text string) string {
	name := strings.TrimSpace(adminName)
	if name == "" {
		name = "Admin"
	}
	return name + ": " + strings.TrimSpace(text)
}

// Apply returns a copy of r with the change applied.
func (c StatusChange) Apply(r Report) Report {
	r.Status = c.Status
	r.Response = c.Response
	r.UpdatedAt = c.UpdatedAt
	return r
}
