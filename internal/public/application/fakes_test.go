package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jejak-app/jejak/api/internal/classify"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type memoryReports struct {
	mu        sync.Mutex
	items     []reportdomain.Report
	insertErr error
	inserts   int
}

func (m *memoryReports) Find(_ context.Context, filter ReportFilter, _ Paging) ([]reportdomain.Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]reportdomain.Report, 0, len(m.items))
	for _, r := range m.items {
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *memoryReports) FindByID(_ context.Context, id string) (*reportdomain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, reportdomain.ErrNotFound
}

func (m *memoryReports) Insert(_ context.Context, report *reportdomain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	report.ID = fmt.Sprintf("r%d", len(m.items)+1)
	m.items = append(m.items, *report)
	return nil
}

type memoryPhotos struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func newMemoryPhotos() *memoryPhotos {
	return &memoryPhotos{objects: map[string][]byte{}}
}

func (m *memoryPhotos) Upload(_ context.Context, path string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, path)
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.objects[path] = data
	return nil
}

func (m *memoryPhotos) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, path)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, path)
	return nil
}

type stubCategorizer struct {
	result classify.Result
	err    error
	inputs []classify.Input
}

func (s *stubCategorizer) Categorize(_ context.Context, in classify.Input) (classify.Result, error) {
	s.inputs = append(s.inputs, in)
	return s.result, s.err
}

var errBackend = errors.New("backend unavailable")
