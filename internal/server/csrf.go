package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/goliatone/go-regform/pkg/render"
)

// CSRFCookieName holds the double-submit token.
const CSRFCookieName = "regform_csrf"

// ensureCSRF returns the request's token, issuing a cookie when absent.
func (s *Server) ensureCSRF(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token := s.newToken()
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// validCSRF compares the posted hidden field with the cookie.
func (s *Server) validCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	posted := r.PostForm.Get(render.CSRFFieldName)
	return subtle.ConstantTimeCompare([]byte(posted), []byte(cookie.Value)) == 1
}
