package httputil

import (
	"net/http"
	"time"
)

// Cookie names carrying the session tokens.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieOptions controls the attributes of the session cookies.
type CookieOptions struct {
	Secure        bool
	AccessMaxAge  int // seconds
	RefreshMaxAge int // seconds
}

// SetTokenCookies writes both session tokens as HTTP-only cookies.
func SetTokenCookies(w http.ResponseWriter, opts CookieOptions, accessToken, refreshToken string) {
	http.SetCookie(w, tokenCookie(AccessTokenCookie, accessToken, opts.AccessMaxAge, opts.Secure))
	http.SetCookie(w, tokenCookie(RefreshTokenCookie, refreshToken, opts.RefreshMaxAge, opts.Secure))
}

// ClearTokenCookies expires both session cookies.
func ClearTokenCookies(w http.ResponseWriter, opts CookieOptions) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := tokenCookie(name, "", -1, opts.Secure)
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func tokenCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
