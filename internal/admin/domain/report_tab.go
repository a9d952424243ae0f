package domain

import (
	"fmt"
	"strings"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// Tab is a dashboard status filter. "Baru" lists reports that are still Diterima.
type Tab string

const (
	TabAll        Tab = "Semua"
	TabNew        Tab = "Baru"
	TabInProgress Tab = "Proses"
	TabDone       Tab = "Selesai"
)

// ParseTab accepts a tab label case-insensitively. Empty means Semua. The stored status names
// are accepted as well.
func ParseTab(value string) (Tab, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return TabAll, nil
	}
	for _, t := range []Tab{TabAll, TabNew, TabInProgress, TabDone} {
		if strings.EqualFold(trimmed, string(t)) {
			return t, nil
		}
	}
	if strings.EqualFold(trimmed, string(reportdomain.StatusReceived)) {
		return TabNew, nil
	}
	return "", fmt.Errorf("unknown status tab %q", value)
}

// Status returns the status the tab selects. ok is false for Semua.
func (t Tab) Status() (reportdomain.Status, bool) {
	switch t {
	case TabNew:
		return reportdomain.StatusReceived, true
	case TabInProgress:
		return reportdomain.StatusInProgress, true
	case TabDone:
		return reportdomain.StatusDone, true
	}
	return "", false
}
