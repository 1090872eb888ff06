package analytics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"boxoffice/internal/gateway"
	"boxoffice/internal/session"
	v "boxoffice/internal/views"
	"boxoffice/pkg/logger"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore(session.Session{AccessToken: "acc", Role: session.RoleOrganizer})
	return NewService(gateway.New(srv.URL, srv.Client(), store, logger.Discard()), logger.Discard())
}

func TestPanelRendersSummary(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"total_events":2,"total_tickets_sold":45,"total_revenue":"6500.00",
			"events":[{"id":1,"title":"Gala","date":"2026-12-01T20:00:00Z","total_seats":60,"sold":45,"available":15,"revenue":"6500.00"}]}`)
	})

	summary, err := svc.Panel(context.Background())
	if err != nil || summary == nil {
		t.Fatalf("Panel() = %v, %v", summary, err)
	}

	panel := AnalyticsPanel(summary)
	if got := v.TextContent(v.Find(panel, "total-revenue")); got != "$6,500.00" {
		t.Fatalf("total revenue = %q", got)
	}
	if got := v.TextContent(v.Find(panel, "tickets-sold")); got != "45" {
		t.Fatalf("tickets sold = %q", got)
	}
	if v.Find(panel, "analytics-events") == nil {
		t.Fatalf("per-event table missing")
	}
}

func TestPanelDegradesOnFailure(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if summary, err := svc.Panel(context.Background()); summary != nil || err != nil {
		t.Fatalf("Panel() = %+v, %v, want nil, nil", summary, err)
	}

	panel := AnalyticsPanel(nil)
	if got := v.TextContent(v.Find(panel, "total-events")); got != "-" {
		t.Fatalf("blank panel value = %q", got)
	}
	if v.Find(panel, "analytics-events") != nil {
		t.Fatalf("blank panel should not draw the table")
	}
}

func TestPanelReportsSessionExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		if r.URL.Path == gateway.RefreshPath {
			io.WriteString(w, `{"detail":"Token is invalid or expired"}`)
			return
		}
		io.WriteString(w, `{"detail":"Given token not valid for any token type"}`)
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore(session.Session{AccessToken: "acc", RefreshToken: "ref", Role: session.RoleOrganizer})
	svc := NewService(gateway.New(srv.URL, srv.Client(), store, logger.Discard()), logger.Discard())

	summary, err := svc.Panel(context.Background())
	if summary != nil || !gateway.IsSessionExpired(err) {
		t.Fatalf("Panel() = %v, %v, want session expiry", summary, err)
	}
	if sess, _ := store.Get(context.Background()); sess.Authenticated() {
		t.Fatalf("session should be cleared")
	}
}
