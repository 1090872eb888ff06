package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/session"
	"boxoffice/internal/shared/config"
	"boxoffice/pkg/logger"
)

var testSessionConfig = config.SessionConfig{CookieName: "boxoffice_session", TTL: time.Hour}

func newTestEngine(provider session.Provider, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Session(provider, testSessionConfig, logger.Discard()), NavGuard(), SessionExpiry(logger.Discard()))
	r.Any("/*path", handler)
	return r
}

func TestSessionIssuesCookie(t *testing.T) {
	r := newTestEngine(session.NewMemoryProvider(time.Hour), func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Body.String()
	if uuid.Validate(id) != nil {
		t.Fatalf("session id = %q, want a uuid", id)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "boxoffice_session="+id) {
		t.Fatalf("Set-Cookie = %q", w.Header().Get("Set-Cookie"))
	}
	if uuid.Validate(w.Header().Get(RequestIDHeader)) != nil {
		t.Fatalf("request id header = %q", w.Header().Get(RequestIDHeader))
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	provider := session.NewMemoryProvider(time.Hour)
	id := uuid.NewString()
	provider.For(id).Set(context.Background(), session.Profile(session.RoleOrganizer, false))

	r := newTestEngine(provider, func(c *gin.Context) {
		c.String(http.StatusOK, "%s %s", SessionID(c), CurrentSession(c).Role)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: id})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Body.String(); got != id+" ORGANIZER" {
		t.Fatalf("body = %q", got)
	}
}

func TestNavGuardRedirectsAnonymous(t *testing.T) {
	r := newTestEngine(session.NewMemoryProvider(time.Hour), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})

	for _, tc := range []struct {
		method string
		status int
	}{
		{http.MethodGet, http.StatusFound},
		{http.MethodPost, http.StatusSeeOther},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, "/my-orders/", nil))
		if w.Code != tc.status || w.Header().Get("Location") != navigation.LoginPath {
			t.Fatalf("%s /my-orders/ = %d %q", tc.method, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestNavGuardSetsLinks(t *testing.T) {
	provider := session.NewMemoryProvider(time.Hour)
	id := uuid.NewString()
	provider.For(id).Set(context.Background(), session.Tokens("acc", "ref"))
	provider.For(id).Set(context.Background(), session.Profile(session.RoleAttendee, true))

	r := newTestEngine(provider, func(c *gin.Context) {
		var labels []string
		for _, l := range Links(c) {
			labels = append(labels, l.Label)
		}
		c.String(http.StatusOK, strings.Join(labels, ","))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: id})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Body.String(); got != "My Orders,Admin Dashboard,Logout" {
		t.Fatalf("links = %q", got)
	}
}

func TestSessionExpiryRedirects(t *testing.T) {
	r := newTestEngine(session.NewMemoryProvider(time.Hour), func(c *gin.Context) {
		_ = c.Error(gateway.ErrSessionExpired)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/event/1/", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != navigation.LoginPath {
		t.Fatalf("got %d %q, want redirect to login", w.Code, w.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/event/1/", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("JSON caller got %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"request_id":"`+w.Header().Get(RequestIDHeader)+`"`) {
		t.Fatalf("envelope should echo the request id: %s", w.Body.String())
	}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(session.NewMemoryProvider(time.Hour), testSessionConfig, logger.Discard()))
	r.GET("/account/me", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "me") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/account/me", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != navigation.LoginPath {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}
}
