package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", reportdomain.NewValidationError("photo", "Upload foto terlebih dahulu!"), http.StatusBadRequest, "Upload foto terlebih dahulu!"},
		{"moderation", reportdomain.ErrModerationRejected, http.StatusUnprocessableEntity, MessageModerationRejected},
		{"classification", fmt.Errorf("%w: timeout", reportdomain.ErrClassification), http.StatusBadGateway, MessageClassifyFailed},
		{"upload", fmt.Errorf("%w: bucket", reportdomain.ErrUpload), http.StatusServiceUnavailable, MessageSubmitFailed},
		{"persistence", fmt.Errorf("%w: db", reportdomain.ErrPersistence), http.StatusServiceUnavailable, MessageSubmitFailed},
		{"lifecycle", fmt.Errorf("%w: db", reportdomain.ErrLifecycleUpdate), http.StatusBadGateway, MessageUpdateFailed},
		{"invalid status", reportdomain.ErrInvalidStatus, http.StatusBadRequest, MessageInvalidStatus},
		{"not found", reportdomain.ErrNotFound, http.StatusNotFound, MessageNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, MessageInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ErrorStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, body.Error)
		})
	}
}

func TestWriteDomainError_IncludesField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(nil, rec, reportdomain.NewValidationError("description", "Isi deskripsi laporan terlebih dahulu!"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Isi deskripsi laporan terlebih dahulu!","field":"description"}`, rec.Body.String())
}

func TestParseHelpers(t *testing.T) {
	n, ok := ParsePositiveInt("3", 1)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	n, ok = ParsePositiveInt("-1", 1)
	assert.False(t, ok)
	assert.Equal(t, 1, n)

	f, ok := ParseFloat("-6,2088")
	assert.True(t, ok)
	assert.Equal(t, -6.2088, f)
	_, ok = ParseFloat("NaN")
	assert.False(t, ok)
}
