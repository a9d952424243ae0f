package application

import (
	"context"
	"strings"
	"sync"

	admindomain "github.com/jejak-app/jejak/api/internal/admin/domain"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

type memoryReports struct {
	mu        sync.Mutex
	items     map[string]reportdomain.Report
	calls     int
	updateErr error
	deleteErr error
}

func newMemoryReports(reports ...reportdomain.Report) *memoryReports {
	m := &memoryReports{items: map[string]reportdomain.Report{}}
	for _, r := range reports {
		m.items[r.ID] = r
	}
	return m
}

func (m *memoryReports) Find(_ context.Context, filter ReportFilter, _ Paging) ([]reportdomain.Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var out []reportdomain.Report
	for _, r := range m.items {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(r.Title+" "+r.Description+" "+r.Address), strings.ToLower(filter.Keyword)) {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *memoryReports) FindByID(_ context.Context, id string) (*reportdomain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	r, ok := m.items[id]
	if !ok {
		return nil, reportdomain.ErrNotFound
	}
	return &r, nil
}

func (m *memoryReports) CountByStatus(context.Context) (map[reportdomain.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := map[reportdomain.Status]int64{}
	for _, r := range m.items {
		out[r.Status]++
	}
	return out, nil
}

func (m *memoryReports) UpdateStatus(_ context.Context, change reportdomain.StatusChange) (*reportdomain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	r, ok := m.items[change.ReportID]
	if !ok {
		return nil, reportdomain.ErrNotFound
	}
	r = change.Apply(r)
	m.items[r.ID] = r
	return &r, nil
}

func (m *memoryReports) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[id]; !ok {
		return reportdomain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memoryPhotos struct {
	deleted []string
	err     error
}

func (m *memoryPhotos) Delete(_ context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	return m.err
}

type memoryAccounts struct {
	mu    sync.Mutex
	items map[admindomain.Email]admindomain.Account
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{items: map[admindomain.Email]admindomain.Account{}}
}

func (m *memoryAccounts) FindByEmail(_ context.Context, email admindomain.Email) (*admindomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (m *memoryAccounts) Upsert(_ context.Context, account *admindomain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.items[account.Email]; ok {
		account.ID = existing.ID
		account.CreatedAt = existing.CreatedAt
	} else {
		account.ID = "admin-" + account.Email.LocalPart()
	}
	m.items[account.Email] = *account
	return nil
}
