package common

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

const (
	MessageModerationRejected = "Laporan mengandung kata tidak pantas atau sensitif. Mohon perbaiki deskripsi."
	MessageSubmitFailed       = "Gagal mengirim laporan"
	MessageClassifyFailed     = "Gagal menganalisis laporan, silakan coba lagi"
	MessageUpdateFailed       = "Gagal update laporan"
	MessageInvalidStatus      = "Status laporan tidak valid"
	MessageNotFound           = "Laporan tidak ditemukan"
	MessageInternal           = "Terjadi kesalahan pada server"
)

// ErrorStatus maps a domain error to its HTTP status and user-facing body.
func ErrorStatus(err error) (int, ErrorResponse) {
	var verr *reportdomain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field}
	case errors.Is(err, reportdomain.ErrInvalidStatus):
		return http.StatusBadRequest, ErrorResponse{Error: MessageInvalidStatus, Field: "status"}
	case errors.Is(err, reportdomain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: MessageNotFound}
	case errors.Is(err, reportdomain.ErrModerationRejected):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: MessageModerationRejected}
	case errors.Is(err, reportdomain.ErrClassification):
		return http.StatusBadGateway, ErrorResponse{Error: MessageClassifyFailed}
	case errors.Is(err, reportdomain.ErrUpload), errors.Is(err, reportdomain.ErrPersistence):
		return http.StatusServiceUnavailable, ErrorResponse{Error: MessageSubmitFailed}
	case errors.Is(err, reportdomain.ErrLifecycleUpdate):
		return http.StatusBadGateway, ErrorResponse{Error: MessageUpdateFailed}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: MessageInternal}
}

// WriteDomainError writes err through ErrorStatus. Server-side failures are logged.
func WriteDomainError(logger *zap.Logger, w http.ResponseWriter, err error) {
	status, body := ErrorStatus(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	WriteJSON(logger, w, status, body)
}
