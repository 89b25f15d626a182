package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/apperrors"
	"github.com/taskhub/taskhub/internal/handlers/render"
	"github.com/taskhub/taskhub/internal/logger"
	"github.com/taskhub/taskhub/internal/models"
)

type userPayload struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

func toUserPayload(u models.User) userPayload {
	return userPayload{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

func handleRegister(auth authService, l logger.Logger) http.Handler {
	type request struct {
		FirstName string `json:"firstName" validate:"required,max=100"`
		LastName  string `json:"lastName" validate:"required,max=100"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
	}
	type response struct {
		AccessToken string      `json:"accessToken"`
		User        userPayload `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := auth.Register(r.Context(), data.FirstName, data.LastName, data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrEmailAlreadyRegistered):
				render.ServiceError(w, "Email already registered", http.StatusConflict)
			default:
				l.Error("register failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		setAccessHeader(w, pair.Access)
		setRefreshCookie(w, pair.Refresh)
		render.JSON(w, response{AccessToken: pair.Access.Value, User: toUserPayload(user)})
	})
}

func handleLogin(auth authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		AccessToken string      `json:"accessToken"`
		User        userPayload `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := auth.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
			default:
				l.Error("login failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		setAccessHeader(w, pair.Access)
		setRefreshCookie(w, pair.Refresh)
		render.JSON(w, response{AccessToken: pair.Access.Value, User: toUserPayload(user)})
	})
}

func handleTokenRefresh(auth authService, l logger.Logger) http.Handler {
	type request struct {
		ExtendSession bool `json:"extendSession"`
	}
	type response struct {
		AccessToken string `json:"accessToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := readRefreshCookie(r)
		if err != nil {
			render.ServiceError(w, "Refresh token expired or invalid", http.StatusUnauthorized)
			return
		}

		// Body is optional: absent or empty means no extend
		var data request
		if decodeErr := json.NewDecoder(r.Body).Decode(&data); decodeErr != nil && decodeErr != io.EOF {
			render.DecodeError(w, decodeErr)
			return
		}

		access, rotated, err := auth.Refresh(r.Context(), refresh, data.ExtendSession)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrSessionExpired),
				errors.Is(err, apperrors.ErrInvalidTokenType),
				errors.Is(err, apperrors.ErrAccountNotFound):
				render.ServiceError(w, "Refresh token expired or invalid", http.StatusUnauthorized)
			default:
				l.Error("token refresh failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		setAccessHeader(w, access)
		if rotated != nil {
			setRefreshCookie(w, *rotated)
		}
		render.JSON(w, response{AccessToken: access.Value})
	})
}

func handleSessionStatus(auth authService, l logger.Logger) http.Handler {
	type response struct {
		IsValid              bool  `json:"isValid"`
		TimeRemainingSeconds int64 `json:"timeRemainingSeconds"`
		IsAboutToExpire      bool  `json:"isAboutToExpire"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := readRefreshCookie(r)
		if err != nil {
			render.JSON(w, response{IsValid: false})
			return
		}

		status, err := auth.Status(r.Context(), refresh)
		if err != nil {
			l.Error("session status failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			IsValid:              status.Valid,
			TimeRemainingSeconds: int64(status.Remaining.Seconds()),
			IsAboutToExpire:      status.AboutToExpire,
		})
	})
}

func handleLogout(auth authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if refresh, err := readRefreshCookie(r); err == nil {
			if err := auth.Logout(r.Context(), refresh); err != nil {
				l.Error("logout failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}
		}

		clearRefreshCookie(w)
		render.JSON(w, response{Message: "Logged out"})
	})
}
