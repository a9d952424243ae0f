package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	adminapp "github.com/jejak-app/jejak/api/internal/admin/application"
	"github.com/jejak-app/jejak/api/internal/interfaces/http/common"
)

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxJSONRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Format permintaan tidak valid")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.auth.Login(ctx, req.Email, req.Password)
		if errors.Is(err, adminapp.ErrInvalidCredentials) {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "Email atau password salah")
			return
		}
		if err != nil {
			h.logger.Error("admin login failed", zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, common.MessageInternal)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, loginResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Admin: adminProfile{
				ID:    result.Account.ID,
				Email: result.Account.Email.String(),
				Name:  result.Account.DisplayName(),
			},
		})
	}
}

func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "Gagal membaca informasi login")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminProfile{ID: user.ID, Email: user.Username, Name: user.Name})
	}
}

// logoutHandler exists for the console's sign-out flow. Tokens are stateless and simply expire.
func (h *Handler) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, ok := common.UserFromContext(r.Context()); ok {
			h.logger.Info("admin logged out", zap.String("id", user.ID))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

