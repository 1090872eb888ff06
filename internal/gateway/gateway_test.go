package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"boxoffice/internal/session"
	"boxoffice/pkg/logger"
)

const (
	bodyNotValid   = `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`
	bodyExpired    = `{"detail":"x","messages":[{"token_class":"AccessToken","token_type":"access","message":"Token is expired"}]}`
	bodyNoCreds    = `{"detail":"Authentication credentials were not provided."}`
	protectedPath  = "/api/tickets/"
	freshToken     = "fresh-access"
	staleToken     = "stale-access"
	refreshTokenID = "refresh-1"
)

// fakeBackend records calls and answers protected requests based on the bearer token
type fakeBackend struct {
	mu sync.Mutex

	protectedCalls int
	refreshCalls   int
	authHeaders    []string
	contentTypes   []string

	unauthorizedBody string
	refreshStatus    int
	refreshBody      string
	retryStatus      int
	dropRetry        bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case RefreshPath:
		f.refreshCalls++
		w.WriteHeader(f.refreshStatus)
		io.WriteString(w, f.refreshBody)
	case protectedPath:
		f.protectedCalls++
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		f.contentTypes = append(f.contentTypes, r.Header.Get("Content-Type"))
		if r.Header.Get("Authorization") == AuthScheme+" "+freshToken {
			if f.dropRetry {
				conn, _, _ := w.(http.Hijacker).Hijack()
				conn.Close()
				return
			}
			w.WriteHeader(f.retryStatus)
			io.WriteString(w, `{"ok":true}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, f.unauthorizedBody)
	default:
		http.NotFound(w, r)
	}
}

func newTestGateway(t *testing.T, backend *fakeBackend, sess session.Session) (*Gateway, *session.MemoryStore) {
	t.Helper()
	if backend.refreshStatus == 0 {
		backend.refreshStatus = http.StatusOK
	}
	if backend.retryStatus == 0 {
		backend.retryStatus = http.StatusOK
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore(sess)
	return New(srv.URL, srv.Client(), store, logger.Discard()), store
}

func TestNonExpiry401IsReturnedWithoutRefresh(t *testing.T) {
	backend := &fakeBackend{unauthorizedBody: bodyNoCreds}
	gw, store := newTestGateway(t, backend, session.Session{AccessToken: staleToken, RefreshToken: refreshTokenID})

	resp, err := gw.Do(context.Background(), Get(protectedPath))
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 passthrough, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != bodyNoCreds {
		t.Fatalf("body should be returned unmodified, got %q", body)
	}
	if backend.refreshCalls != 0 {
		t.Fatalf("refresh must not be called for a non-expiry 401, got %d calls", backend.refreshCalls)
	}
	s, _ := store.Get(context.Background())
	if s.AccessToken != staleToken {
		t.Fatalf("session should be untouched")
	}
}

func TestExpiredTokenRefreshesOnceAndRetries(t *testing.T) {
	for name, body := range map[string]string{
		"not valid for any token type": bodyNotValid,
		"token is expired":             bodyExpired,
	} {
		t.Run(name, func(t *testing.T) {
			backend := &fakeBackend{
				unauthorizedBody: body,
				refreshBody:      `{"access":"` + freshToken + `"}`,
				retryStatus:      http.StatusCreated,
			}
			gw, store := newTestGateway(t, backend, session.Session{AccessToken: staleToken, RefreshToken: refreshTokenID})

			resp, err := gw.Do(context.Background(), PostJSON(protectedPath, map[string]int{"event_id": 1}))
			if err != nil {
				t.Fatalf("Do() failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				t.Fatalf("expected the retry's response (201), got %d", resp.StatusCode)
			}
			if backend.refreshCalls != 1 {
				t.Fatalf("expected exactly one refresh call, got %d", backend.refreshCalls)
			}
			if backend.protectedCalls != 2 {
				t.Fatalf("expected original + one retry, got %d calls", backend.protectedCalls)
			}
			if backend.authHeaders[1] != "JWT "+freshToken {
				t.Fatalf("retry should carry the new credential, got %q", backend.authHeaders[1])
			}
			if backend.contentTypes[1] != "application/json" {
				t.Fatalf("retry should resend the JSON body, got content type %q", backend.contentTypes[1])
			}

			s, _ := store.Get(context.Background())
			if s.AccessToken != freshToken || s.RefreshToken != refreshTokenID {
				t.Fatalf("new access token should be persisted, got %v", s)
			}
		})
	}
}

func TestRetryResponseReturnedEvenWhenItFails(t *testing.T) {
	backend := &fakeBackend{
		unauthorizedBody: bodyNotValid,
		refreshBody:      `{"access":"` + freshToken + `"}`,
		retryStatus:      http.StatusForbidden,
	}
	gw, _ := newTestGateway(t, backend, session.Session{AccessToken: staleToken, RefreshToken: refreshTokenID})

	resp, err := gw.Do(context.Background(), Get(protectedPath))
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 from retry, got %d", resp.StatusCode)
	}
	if backend.refreshCalls != 1 || backend.protectedCalls != 2 {
		t.Fatalf("expected 1 refresh and 2 protected calls, got %d and %d", backend.refreshCalls, backend.protectedCalls)
	}
}

func TestExpiredWithoutRefreshTokenClearsSession(t *testing.T) {
	backend := &fakeBackend{unauthorizedBody: bodyExpired}
	gw, store := newTestGateway(t, backend, session.Session{AccessToken: staleToken, Role: session.RoleAttendee, IsStaff: true})

	_, err := gw.Do(context.Background(), Get(protectedPath))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if backend.refreshCalls != 0 {
		t.Fatalf("refresh must not be called without a refresh token")
	}
	s, _ := store.Get(context.Background())
	if s != (session.Session{}) {
		t.Fatalf("session should be cleared, got %v", s)
	}
}

func TestRefreshFailureClearsSession(t *testing.T) {
	cases := map[string]*fakeBackend{
		"non-2xx":        {unauthorizedBody: bodyNotValid, refreshStatus: http.StatusUnauthorized, refreshBody: bodyNotValid},
		"malformed body": {unauthorizedBody: bodyNotValid, refreshBody: `<html>oops</html>`},
		"missing access": {unauthorizedBody: bodyNotValid, refreshBody: `{"refresh":"x"}`},
	}
	for name, backend := range cases {
		t.Run(name, func(t *testing.T) {
			gw, store := newTestGateway(t, backend, session.Session{AccessToken: staleToken, RefreshToken: refreshTokenID})

			_, err := gw.Do(context.Background(), Get(protectedPath))
			if !errors.Is(err, ErrSessionExpired) {
				t.Fatalf("expected ErrSessionExpired, got %v", err)
			}
			if backend.refreshCalls != 1 {
				t.Fatalf("expected one refresh attempt, got %d", backend.refreshCalls)
			}
			if backend.protectedCalls != 1 {
				t.Fatalf("original request must not be retried after refresh failure")
			}
			s, _ := store.Get(context.Background())
			if s.Authenticated() || s.RefreshToken != "" {
				t.Fatalf("session should be cleared, got %v", s)
			}
		})
	}
}

func TestRefreshNetworkFailureClearsSession(t *testing.T) {
	backend := &fakeBackend{unauthorizedBody: bodyNotValid}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store := session.NewMemoryStore(session.Session{AccessToken: staleToken, RefreshToken: refreshTokenID})
	client := &http.Client{Transport: failingRefreshTransport{base: srv.Client().Transport}}
	gw := New(srv.URL, client, store, logger.Discard())

	_, err := gw.Do(context.Background(), Get(protectedPath))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	s, _ := store.Get(context.Background())
	if s.Authenticated() {
		t.Fatalf("session should be cleared after a network failure during refresh")
	}
}

// failingRefreshTransport drops the connection for refresh calls only
type failingRefreshTransport struct {
	base http.RoundTripper
}

func (f failingRefreshTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.Path == RefreshPath {
		return nil, errors.New("connection reset by peer")
	}
	return f.base.RoundTrip(r)
}

func TestNetworkErrorOnOriginalRequest(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	gw := New(srv.URL, nil, session.NewMemoryStore(session.Session{}), logger.Discard())
	_, err := gw.Do(context.Background(), Get("/api/events/"))

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T %v", err, err)
	}
}

func TestContentTypeDefaults(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := New(srv.URL, srv.Client(), session.NewMemoryStore(session.Session{AccessToken: "t"}), logger.Discard())
	ctx := context.Background()

	explicit := PostJSON("/x", map[string]string{"a": "b"})
	explicit.Header = http.Header{"Content-Type": []string{"application/vnd.custom+json"}}

	for _, req := range []*Request{
		PostJSON("/x", map[string]string{"a": "b"}),
		PostRaw("/x", []byte("--b--"), "multipart/form-data; boundary=b"),
		explicit,
	} {
		resp, err := gw.Do(ctx, req)
		if err != nil {
			t.Fatalf("Do() failed: %v", err)
		}
		resp.Body.Close()
	}

	want := []string{"application/json", "multipart/form-data; boundary=b", "application/vnd.custom+json"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d: content type %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsTokenExpired(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   bool
	}{
		{http.StatusUnauthorized, bodyNotValid, true},
		{http.StatusUnauthorized, bodyExpired, true},
		{http.StatusUnauthorized, bodyNoCreds, false},
		{http.StatusUnauthorized, `{"messages":[]}`, false},
		{http.StatusUnauthorized, `not json`, false},
		{http.StatusForbidden, bodyNotValid, false},
	}
	for _, tc := range cases {
		if got := IsTokenExpired(tc.status, []byte(tc.body)); got != tc.want {
			t.Fatalf("IsTokenExpired(%d, %s) = %t, want %t", tc.status, tc.body, got, tc.want)
		}
	}
}

func TestHTTPErrorDetail(t *testing.T) {
	e := &HTTPError{StatusCode: 400, Body: []byte(`{"username":["A user with that username already exists."],"password":["This password is too short."]}`)}
	want := "A user with that username already exists. This password is too short."
	if got := e.Detail(); got != want {
		t.Fatalf("Detail() = %q, want %q", got, want)
	}

	e = &HTTPError{StatusCode: 404, Body: []byte(`{"detail":"Not found."}`)}
	if got := e.Detail(); got != "Not found." {
		t.Fatalf("Detail() = %q", got)
	}

	e = &HTTPError{StatusCode: 400, Body: []byte(`["Seat A1 is not available."]`)}
	if got := e.Detail(); got != "Seat A1 is not available." {
		t.Fatalf("Detail() = %q", got)
	}

	e = &HTTPError{StatusCode: 502, Body: []byte("Bad Gateway\n")}
	if got := e.Detail(); got != "Bad Gateway" {
		t.Fatalf("Detail() = %q", got)
	}
}

func TestFlattenFieldErrorsKeepsOrder(t *testing.T) {
	body := []byte(`{"email": ["Enter a valid email address."], "non_field_errors": ["The two password fields didn't match."], "username": "taken"}`)
	want := "Enter a valid email address. The two password fields didn't match. taken"
	if got := FlattenFieldErrors(body); got != want {
		t.Fatalf("FlattenFieldErrors = %q, want %q", got, want)
	}
}

func TestRetryNetworkFailureKeepsSession(t *testing.T) {
	backend := &fakeBackend{
		unauthorizedBody: bodyNotValid,
		refreshBody:      `{"access":"` + freshToken + `"}`,
		dropRetry:        true,
	}
	gw, store := newTestGateway(t, backend, session.Session{AccessToken: staleToken, RefreshToken: refreshTokenID})

	_, err := gw.Do(context.Background(), Get(protectedPath))
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Do() error = %v, want *NetworkError", err)
	}
	if IsSessionExpired(err) {
		t.Fatalf("a dropped connection is not a session expiry")
	}

	s, _ := store.Get(context.Background())
	if s.AccessToken != freshToken || s.RefreshToken != refreshTokenID {
		t.Fatalf("session should keep the refreshed credential, got %+v", s)
	}
	if backend.refreshCalls != 1 {
		t.Fatalf("expected one refresh, got %d", backend.refreshCalls)
	}
}
