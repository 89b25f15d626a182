package handlers

import (
	"net/http"

	"github.com/taskhub/taskhub/internal/models"
)

// The refresh token travels only in an HTTP-only cookie scoped to the auth
// endpoints: page scripts can never read it, and ordinary API requests never
// carry it
const (
	refreshCookieName = "taskhub_refresh"
	refreshCookiePath = "/api/auth"
)

func setRefreshCookie(w http.ResponseWriter, token models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token.Value,
		Path:     refreshCookiePath,
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func readRefreshCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func setAccessHeader(w http.ResponseWriter, token models.IssuedToken) {
	w.Header().Set("Authorization", "Bearer "+token.Value)
}
