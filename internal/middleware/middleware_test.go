package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

const testSecretKey = "yatube_test_secret_key_1234567890abcdef"

func TestMain(m *testing.M) {
	_ = os.Setenv("SECRET_KEY", testSecretKey)
	gin.SetMode(gin.TestMode)
	code := m.Run()
	os.Exit(code)
}

type stubRevoker struct {
	revoked map[string]bool
}

func (s *stubRevoker) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func whoAmI(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.String(http.StatusOK, "guest")
		return
	}
	c.String(http.StatusOK, user.Username)
}

func newSessionRouter(revoker *stubRevoker) *gin.Engine {
	router := gin.New()
	router.Use(SessionMiddleware(revoker, false))
	router.GET("/whoami/", whoAmI)
	router.GET("/create/", LoginRequired(), whoAmI)
	return router
}

func TestSessionMiddlewareAcceptsCookieAndBearer(t *testing.T) {
	router := newSessionRouter(&stubRevoker{revoked: map[string]bool{}})
	token, _, err := utils.GenerateToken(7, "MikeyMouse")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if body := resp.Body.String(); body != "MikeyMouse" {
		t.Fatalf("expected cookie session user, got %q", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/whoami/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if body := resp.Body.String(); body != "MikeyMouse" {
		t.Fatalf("expected bearer session user, got %q", body)
	}
}

func TestSessionMiddlewareTreatsBadTokenAsGuest(t *testing.T) {
	router := newSessionRouter(&stubRevoker{revoked: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if body := resp.Body.String(); body != "guest" {
		t.Fatalf("expected guest, got %q", body)
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), SessionCookieName+"=;") {
		t.Fatalf("expected bad cookie to be cleared, got %q", resp.Header().Get("Set-Cookie"))
	}
}

func TestSessionMiddlewareRejectsRevokedToken(t *testing.T) {
	revoker := &stubRevoker{revoked: map[string]bool{}}
	router := newSessionRouter(revoker)
	token, claims, err := utils.GenerateToken(7, "MikeyMouse")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	revoker.revoked[claims.ID] = true

	req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if body := resp.Body.String(); body != "guest" {
		t.Fatalf("expected revoked session to be a guest, got %q", body)
	}
}

func TestSessionMiddlewareClearsCookieWithSecureFlag(t *testing.T) {
	revoker := &stubRevoker{revoked: map[string]bool{}}
	token, claims, err := utils.GenerateToken(7, "MikeyMouse")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	revoker.revoked[claims.ID] = true

	for _, secure := range []bool{true, false} {
		router := gin.New()
		router.Use(SessionMiddleware(revoker, secure))
		router.GET("/whoami/", whoAmI)

		for _, value := range []string{"garbage", token} {
			req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			cleared := resp.Header().Get("Set-Cookie")
			if !strings.Contains(cleared, SessionCookieName+"=;") {
				t.Fatalf("expected cookie to be cleared, got %q", cleared)
			}
			if strings.Contains(cleared, "Secure") != secure {
				t.Fatalf("secure=%v: unexpected Set-Cookie %q", secure, cleared)
			}
		}
	}
}

func TestLoginRequiredRedirectsGuestWithNext(t *testing.T) {
	router := newSessionRouter(&stubRevoker{revoked: map[string]bool{}})
	router.POST("/create/", LoginRequired(), whoAmI)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/create/", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", method, resp.Code)
		}
		if location := resp.Header().Get("Location"); location != "/auth/login/?next=/create/" {
			t.Fatalf("%s: unexpected redirect: %q", method, location)
		}
	}
}

func TestLoginRedirectURLKeepsQuery(t *testing.T) {
	target, _ := url.Parse("/posts/1/edit/?page=2")
	if got := LoginRedirectURL(target); got != "/auth/login/?next=/posts/1/edit/%3Fpage%3D2" {
		t.Fatalf("unexpected login redirect: %q", got)
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/create/":             "/create/",
		"//evil.example.com/":  "/",
		"https://evil.example": "/",
		"/\\evil":              "/",
		"profile/":             "/",
	}
	for next, want := range cases {
		if got := SafeNext(next, "/"); got != want {
			t.Fatalf("SafeNext(%q) = %q, want %q", next, got, want)
		}
	}
}

func TestRequestIDMiddlewareEchoesOrGenerates(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "  abc  ")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Body.String() != "abc" || resp.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("expected echoed request id, got body=%q header=%q", resp.Body.String(), resp.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if len(resp.Body.String()) != 36 {
		t.Fatalf("expected generated uuid, got %q", resp.Body.String())
	}
}
