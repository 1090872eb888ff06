package events

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/session"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
	"boxoffice/pkg/logger"
)

const testCookie = "boxoffice_session"

// newDashboardSite serves the event routes behind the site middleware for an
// organizer whose session lives in the returned store
func newDashboardSite(t *testing.T, backend http.HandlerFunc) (*gin.Engine, session.Store, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	provider := session.NewMemoryProvider(time.Hour)
	id := uuid.NewString()
	store := provider.For(id)
	store.Set(context.Background(), session.Tokens("acc", "ref"))
	store.Set(context.Background(), session.Profile(session.RoleOrganizer, false))

	log := logger.Discard()
	engine := gin.New()
	engine.Use(
		middleware.Session(provider, config.SessionConfig{CookieName: testCookie, TTL: time.Hour}, log),
		middleware.NavGuard(),
		middleware.SessionExpiry(log),
	)
	SetupEventRoutes(&engine.RouterGroup, NewController(ControllerConfig{
		Gateway: gateway.New(srv.URL, srv.Client(), nil, log),
		Logger:  log,
	}))
	return engine, store, id
}

func getPage(engine *gin.Engine, sessionID, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionID})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestDashboardRendersPanelAndEvents(t *testing.T) {
	engine, _, id := newDashboardSite(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/analytics/"):
			io.WriteString(w, `{"total_events":1,"total_tickets_sold":3,"total_revenue":"150.00","events":[]}`)
		default:
			io.WriteString(w, `[{"id":7,"title":"Gala","date_time":"2026-12-01T20:00:00Z"}]`)
		}
	})

	w := getPage(engine, id, navigation.OrganizerPath)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "Gala") || !strings.Contains(body, "$150.00") {
		t.Fatalf("dashboard is missing events or analytics: %s", body)
	}
}

func TestDashboardRedirectsWhenSessionExpires(t *testing.T) {
	var ownedCalls int32
	engine, store, id := newDashboardSite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		switch {
		case r.URL.Path == gateway.RefreshPath:
			io.WriteString(w, `{"detail":"Token is invalid or expired","code":"token_not_valid"}`)
		case strings.HasSuffix(r.URL.Path, "/analytics/"):
			io.WriteString(w, `{"detail":"Given token not valid for any token type"}`)
		default:
			atomic.AddInt32(&ownedCalls, 1)
			io.WriteString(w, `{"detail":"Authentication credentials were not provided."}`)
		}
	})

	w := getPage(engine, id, navigation.OrganizerPath)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != navigation.LoginPath {
		t.Fatalf("got %d %q, want redirect to login", w.Code, w.Header().Get("Location"))
	}
	if sess, _ := store.Get(context.Background()); sess.Authenticated() {
		t.Fatalf("session should be cleared, got %+v", sess)
	}
	if n := atomic.LoadInt32(&ownedCalls); n != 0 {
		t.Fatalf("events were fetched %d times after the session expired", n)
	}
}
