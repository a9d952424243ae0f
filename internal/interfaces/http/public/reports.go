package public

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/interfaces/http/common"
	publicapp "github.com/jejak-app/jejak/api/internal/public/application"
	publicdomain "github.com/jejak-app/jejak/api/internal/public/domain"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// reportListHandler returns the newest reports first, optionally for one category.
func (h *Handler) reportListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := publicapp.ReportFilter{}
		if raw := strings.TrimSpace(query.Get("category")); raw != "" {
			category, err := reportdomain.ParseCategory(raw)
			if err != nil {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorResponse{Error: "Kategori tidak dikenal", Field: "category"})
				return
			}
			filter.Category = category
		}
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageSize)

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		reports, total, err := h.reports.List(ctx, filter, publicapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.logger.Error("report list fetch failed", zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "Gagal memuat laporan")
			return
		}

		items := make([]publicdomain.ReportSummary, 0, len(reports))
		for _, report := range reports {
			items = append(items, publicdomain.NewReportSummary(report, h.photoURL(ctx, report.PhotoPath)))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, reportListResponse{Items: items, Total: total, Page: page, Limit: limit})
	}
}

func (h *Handler) reportDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		report, err := h.reports.Detail(ctx, id)
		if err != nil {
			common.WriteDomainError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, publicdomain.NewReportDetail(*report, h.photoURL(ctx, report.PhotoPath)))
	}
}

// reportCreateHandler accepts the report form as multipart/form-data with the photo in "photo".
func (h *Handler) reportCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+common.MaxJSONRequestBody)
		if err := r.ParseMultipartForm(common.MultipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.WriteJSON(h.logger, w, http.StatusRequestEntityTooLarge, common.ErrorResponse{Error: "Ukuran foto terlalu besar", Field: "photo"})
				return
			}
			common.WriteError(h.logger, w, http.StatusBadRequest, "Format formulir tidak valid")
			return
		}
		defer r.MultipartForm.RemoveAll()

		cmd, err := h.buildSubmitCommand(r)
		if err != nil {
			common.WriteDomainError(h.logger, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), submitTimeout)
		defer cancel()

		report, err := h.submissions.Submit(ctx, cmd)
		if err != nil {
			common.WriteDomainError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, publicdomain.NewReportDetail(*report, h.photoURL(ctx, report.PhotoPath)))
	}
}

func (h *Handler) buildSubmitCommand(r *http.Request) (publicapp.SubmitReportCommand, error) {
	cmd := publicapp.SubmitReportCommand{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		ReporterName:    r.FormValue("name"),
		ReporterContact: strings.TrimSpace(r.FormValue("contact")),
		Address:         r.FormValue("address"),
	}
	for _, coord := range []struct {
		field string
		dst   *float64
	}{{"lat", &cmd.Latitude}, {"lng", &cmd.Longitude}} {
		raw := r.FormValue(coord.field)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		value, ok := common.ParseFloat(raw)
		if !ok {
			return cmd, reportdomain.NewValidationError(coord.field, "koordinat tidak valid")
		}
		*coord.dst = value
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return cmd, nil
	}
	if err != nil {
		return cmd, reportdomain.NewValidationError("photo", "foto tidak dapat dibaca")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.maxPhotoBytes+1))
	if err != nil {
		return cmd, reportdomain.NewValidationError("photo", "foto tidak dapat dibaca")
	}
	cmd.Photo = data
	cmd.PhotoName = header.Filename
	return cmd, nil
}

func (h *Handler) photoURL(ctx context.Context, path string) string {
	if path == "" || h.photos == nil {
		return ""
	}
	url, err := h.photos.PublicURL(ctx, path)
	if err != nil {
		h.logger.Warn("photo url resolution failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return url
}
