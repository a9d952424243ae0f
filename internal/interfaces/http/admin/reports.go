package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminapp "github.com/jejak-app/jejak/api/internal/admin/application"
	admindomain "github.com/jejak-app/jejak/api/internal/admin/domain"
	"github.com/jejak-app/jejak/api/internal/interfaces/http/common"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

func (h *Handler) reportListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseReportFilter(r)
		if err != nil {
			common.WriteDomainError(h.logger, w, err)
			return
		}
		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageSize)

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		reports, total, err := h.reports.List(ctx, filter, adminapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.logger.Error("admin report list fetch failed", zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "Gagal memuat laporan")
			return
		}

		items := make([]adminReportResponse, 0, len(reports))
		for _, report := range reports {
			items = append(items, toAdminReportResponse(report, h.photoURL(ctx, report.PhotoPath)))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminReportListResponse{Items: items, Total: total, Page: page, Limit: limit})
	}
}

// parseReportFilter reads the dashboard filters: status tab, keyword, category and priority.
func parseReportFilter(r *http.Request) (adminapp.ReportFilter, error) {
	query := r.URL.Query()
	var filter adminapp.ReportFilter

	tab, err := admindomain.ParseTab(query.Get("status"))
	if err != nil {
		return filter, reportdomain.NewValidationError("status", "Tab status tidak dikenal")
	}
	if status, ok := tab.Status(); ok {
		filter.Status = status
	}

	filter.Keyword = strings.TrimSpace(query.Get("q"))
	if filter.Keyword == "" {
		filter.Keyword = strings.TrimSpace(query.Get("keyword"))
	}

	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		category, err := reportdomain.ParseCategory(raw)
		if err != nil {
			return filter, reportdomain.NewValidationError("category", "Kategori tidak dikenal")
		}
		filter.Category = category
	}

	if raw := strings.TrimSpace(query.Get("priority")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, reportdomain.NewValidationError("priority", "Prioritas harus berupa angka 1-5")
		}
		priority, err := reportdomain.NewPriority(n)
		if err != nil || !priority.IsSet() {
			return filter, reportdomain.NewValidationError("priority", "Prioritas harus berupa angka 1-5")
		}
		filter.Priority = priority
	}
	return filter, nil
}

func (h *Handler) reportSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		totals, err := h.reports.Totals(ctx)
		if err != nil {
			h.logger.Error("admin report summary failed", zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "Gagal memuat ringkasan laporan")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, totals)
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
		common.WriteJSON(h.logger, w, http.StatusOK, toAdminReportResponse(*report, h.photoURL(ctx, report.PhotoPath)))
	}
}

// reportStatusHandler sets the status and, optionally, the admin response of a report.
func (h *Handler) reportStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		var req updateStatusRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxJSONRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Format permintaan tidak valid")
			return
		}

		user, _ := common.UserFromContext(r.Context())
		actor := adminapp.Actor{ID: user.ID, Name: user.Name}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		updated, err := h.lifecycle.SetStatus(ctx, id, req.Status, req.Response, actor)
		if err != nil {
			common.WriteDomainError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toAdminReportResponse(*updated, h.photoURL(ctx, updated.PhotoPath)))
	}
}

func (h *Handler) reportDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.lifecycle.Delete(ctx, id); err != nil {
			common.WriteDomainError(h.logger, w, err)
			return
		}
		user, _ := common.UserFromContext(r.Context())
		h.logger.Info("report deleted", zap.String("id", id), zap.String("admin", user.ID))
		w.WriteHeader(http.StatusNoContent)
	}
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
