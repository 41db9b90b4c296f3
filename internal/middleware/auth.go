package middleware

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yatube/internal/sessions"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "sessionid"
	// LoginURL is where guests are sent from protected pages.
	LoginURL = "/auth/login/"

	userIDContextKey         = "user_id"
	usernameContextKey       = "username"
	sessionIDContextKey      = "session_id"
	sessionExpiresContextKey = "session_expires"
)

// SessionUser is the logged-in user as seen by handlers and templates.
type SessionUser struct {
	ID       int
	Username string
}

// CurrentUser returns the session user, if any.
func CurrentUser(c *gin.Context) (SessionUser, bool) {
	userID := c.GetInt(userIDContextKey)
	username := c.GetString(usernameContextKey)
	if userID <= 0 || username == "" {
		return SessionUser{}, false
	}
	return SessionUser{ID: userID, Username: username}, true
}

// SetCurrentUser stores the user on the context the way SessionMiddleware does.
func SetCurrentUser(c *gin.Context, user SessionUser) {
	c.Set(userIDContextKey, user.ID)
	c.Set(usernameContextKey, user.Username)
}

// SessionFromContext returns the token ID and expiry of the current session.
func SessionFromContext(c *gin.Context) (string, time.Time, bool) {
	tokenID := c.GetString(sessionIDContextKey)
	if tokenID == "" {
		return "", time.Time{}, false
	}
	return tokenID, c.GetTime(sessionExpiresContextKey), true
}

// SessionMiddleware resolves the session token from the cookie or the
// Authorization header. Requests without a usable token continue as guests.
// A rejected cookie is cleared with the given secure flag.
func SessionMiddleware(revoker sessions.Revoker, secureCookies bool) gin.HandlerFunc {
	if revoker == nil {
		revoker = sessions.NopRevoker{}
	}

	return func(c *gin.Context) {
		tokenString, fromCookie := sessionToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			if fromCookie {
				ClearSessionCookie(c, secureCookies)
			}
			c.Next()
			return
		}

		revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Printf("Error checking session revocation: %v", err)
			c.Next()
			return
		}
		if revoked {
			if fromCookie {
				ClearSessionCookie(c, secureCookies)
			}
			c.Next()
			return
		}

		SetCurrentUser(c, SessionUser{ID: claims.UserID, Username: claims.Username})
		c.Set(sessionIDContextKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(sessionExpiresContextKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Check if the authorization header has the correct format
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", false
	}
	return tokenParts[1], false
}

// LoginRequired redirects guests to the login page with a next parameter
// pointing back at the requested page.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}

		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Redirect(http.StatusFound, LoginRedirectURL(c.Request.URL))
		c.Abort()
	}
}

// LoginRedirectURL builds /auth/login/?next=<path>, leaving slashes of the
// path unescaped.
func LoginRedirectURL(target *url.URL) string {
	next := target.EscapedPath()
	if target.RawQuery != "" {
		next += url.QueryEscape("?" + target.RawQuery)
	}
	return LoginURL + "?next=" + next
}

// SafeNext returns next when it is a local path, otherwise the fallback.
func SafeNext(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Host != "" || parsed.Scheme != "" {
		return fallback
	}
	return next
}

// SetSessionCookie writes the session token cookie.
func SetSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(utils.SessionTTL/time.Second), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}
