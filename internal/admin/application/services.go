package application

import (
	"context"
	"time"

	admindomain "github.com/jejak-app/jejak/api/internal/admin/domain"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// ReportRepository exposes admin operations on reports.
type ReportRepository interface {
	Find(ctx context.Context, filter ReportFilter, paging Paging) ([]reportdomain.Report, int64, error)
	FindByID(ctx context.Context, id string) (*reportdomain.Report, error)
	CountByStatus(ctx context.Context) (map[reportdomain.Status]int64, error)
	UpdateStatus(ctx context.Context, change reportdomain.StatusChange) (*reportdomain.Report, error)
	Delete(ctx context.Context, id string) error
}

// PhotoStorage releases stored report photos.
type PhotoStorage interface {
	Delete(ctx context.Context, path string) error
}

// AccountRepository stores admin accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email admindomain.Email) (*admindomain.Account, error)
	Upsert(ctx context.Context, account *admindomain.Account) error
}

// ReportFilter expresses dashboard search criteria. Zero values mean "any".
type ReportFilter struct {
	Status   reportdomain.Status
	Keyword  string
	Category reportdomain.Category
	Priority reportdomain.Priority
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Actor is the admin performing an operation.
type Actor struct {
	ID   string
	Name string
}

// StatusTotals counts reports per dashboard tab.
type StatusTotals struct {
	Total      int64 `json:"total"`
	New        int64 `json:"baru"`
	InProgress int64 `json:"proses"`
	Done       int64 `json:"selesai"`
}

// ReportService describes admin read use-cases.
type ReportService interface {
	List(ctx context.Context, filter ReportFilter, paging Paging) ([]reportdomain.Report, int64, error)
	Detail(ctx context.Context, id string) (*reportdomain.Report, error)
	Totals(ctx context.Context) (StatusTotals, error)
}

// LifecycleService moves reports through their status lifecycle.
type LifecycleService interface {
	SetStatus(ctx context.Context, id, status, responseText string, actor Actor) (*reportdomain.Report, error)
	Delete(ctx context.Context, id string) error
}

// AuthService authenticates administrators.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, cmd RegisterAccountCommand) (*admindomain.Account, error)
}

// LoginResult carries the issued access token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   admindomain.Account
}

// RegisterAccountCommand creates or resets an admin account.
type RegisterAccountCommand struct {
	Email    string
	Name     string
	Password string
}
