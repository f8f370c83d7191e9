package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/malaura/storefront/internal/api/middleware"
	service "github.com/malaura/storefront/internal/services"
)

type CookieOptions struct {
	SessionName  string
	VerifierName string
	Secure       bool
	MaxAge       time.Duration
	// SiteURL is where the browser lands after sign in. The request origin is used when empty.
	SiteURL string
}

type AuthHandler struct {
	authService service.AuthService
	cookies     CookieOptions
}

func NewAuthHandler(authService service.AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Callback godoc
//
//	@Summary		Identity provider callback
//	@Description	Exchanges the sign-in code for a session, stores it in an HttpOnly cookie and redirects to the site. A missing or rejected code redirects without a session.
//	@Tags			Auth
//	@Param			code	query	string	false	"Authorization code"
//	@Param			next	query	string	false	"Relative path to land on"
//	@Success		302
//	@Router			/auth/callback [get]
func (h *AuthHandler) Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		target := h.redirectTarget(r)

		code := r.URL.Query().Get("code")
		if code == "" {
			logger.Warn("Auth callback without code")
			http.Redirect(w, r, target, http.StatusFound)

			return
		}

		var verifier string
		if c, err := r.Cookie(h.cookies.VerifierName); err == nil {
			verifier = c.Value
		}

		session, err := h.authService.ExchangeCode(r.Context(), code, verifier)
		if err != nil {
			logger.Error("Auth code exchange failed", slog.String("error", err.Error()))
			http.Redirect(w, r, target, http.StatusFound)

			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     h.cookies.SessionName,
			Value:    session.AccessToken,
			Path:     "/",
			MaxAge:   h.sessionMaxAge(session.ExpiresIn),
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		if verifier != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     h.cookies.VerifierName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   h.cookies.Secure,
			})
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}

// Logout godoc
//
//	@Summary	Sign out
//	@Tags		Auth
//	@Success	204
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookies.SessionName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AuthHandler) redirectTarget(r *http.Request) string {
	base := strings.TrimRight(h.cookies.SiteURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}

		base = scheme + "://" + r.Host
	}

	// only same-site relative paths
	next := r.URL.Query().Get("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return base + next
	}

	return base + "/"
}

// sessionMaxAge keeps the cookie no longer than the token it carries.
func (h *AuthHandler) sessionMaxAge(expiresIn int) int {
	maxAge := int(h.cookies.MaxAge.Seconds())
	if expiresIn > 0 && (maxAge <= 0 || expiresIn < maxAge) {
		return expiresIn
	}

	return maxAge
}
