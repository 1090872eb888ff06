package session

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
)

// exerciseStore runs the Get/Set/Clear contract against any backend
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() on empty store failed: %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("empty store should not be authenticated")
	}

	if err := store.Set(ctx, Tokens("acc-1", "ref-1")); err != nil {
		t.Fatalf("Set(tokens) failed: %v", err)
	}
	if err := store.Set(ctx, Profile(RoleOrganizer, true)); err != nil {
		t.Fatalf("Set(profile) failed: %v", err)
	}
	if err := store.Set(ctx, AccessToken("acc-2")); err != nil {
		t.Fatalf("Set(access) failed: %v", err)
	}

	s, err = store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	want := Session{AccessToken: "acc-2", RefreshToken: "ref-1", Role: RoleOrganizer, IsStaff: true}
	if s != want {
		t.Fatalf("Get() = %+v, want %+v", s, want)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	s, err = store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() after clear failed: %v", err)
	}
	if s != (Session{}) {
		t.Fatalf("Clear() left %+v", s)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(Session{}))
}

func TestMemoryProviderIsolatesSessions(t *testing.T) {
	p := NewMemoryProvider(time.Hour)
	ctx := context.Background()

	if err := p.For("a").Set(ctx, AccessToken("token-a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	b, _ := p.For("b").Get(ctx)
	if b.Authenticated() {
		t.Fatalf("session b should not see session a's token")
	}
	a, _ := p.For("a").Get(ctx)
	if a.AccessToken != "token-a" {
		t.Fatalf("provider should return the same store for the same id")
	}
}

func TestMemoryProviderStoresNothingOnRead(t *testing.T) {
	p := NewMemoryProvider(time.Hour)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if s, err := p.For(fmt.Sprintf("visitor-%d", i)).Get(ctx); err != nil || s.Authenticated() {
			t.Fatalf("Get() = %+v, %v", s, err)
		}
	}
	if n := p.Len(); n != 0 {
		t.Fatalf("read-only lookups stored %d sessions", n)
	}

	if err := p.For("a").Set(ctx, AccessToken("token-a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := p.For("a").Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n := p.Len(); n != 0 {
		t.Fatalf("Clear left %d sessions", n)
	}
}

func TestMemoryProviderEvictsIdleSessions(t *testing.T) {
	p := NewMemoryProvider(time.Hour)
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	p.For("active").Set(ctx, AccessToken("token-active"))
	p.For("idle").Set(ctx, AccessToken("token-idle"))

	for i := 0; i < 3; i++ {
		now = now.Add(40 * time.Minute)
		if s, _ := p.For("active").Get(ctx); s.AccessToken != "token-active" {
			t.Fatalf("active session lost after %d reads", i+1)
		}
	}

	if s, _ := p.For("idle").Get(ctx); s.Authenticated() {
		t.Fatalf("idle session should have expired, got %+v", s)
	}
	if n := p.Len(); n != 1 {
		t.Fatalf("held sessions = %d, want 1", n)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path))

	ctx := context.Background()
	if err := NewFileStore(path).Set(ctx, Tokens("acc", "ref")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := NewFileStore(path).Get(ctx)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if reopened.AccessToken != "acc" || reopened.RefreshToken != "ref" {
		t.Fatalf("session did not persist: %+v", reopened)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("session file should be 0600, got %v", info.Mode().Perm())
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := NewFileStore(path).Get(context.Background()); err == nil {
		t.Fatalf("expected error for corrupt session file")
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	provider := NewRedisProvider(client, time.Hour)
	exerciseStore(t, provider.For("browser-1"))

	ctx := context.Background()
	if _, err := provider.For("browser-3").Get(ctx); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := provider.For("browser-2").Set(ctx, Tokens("a", "r")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if ttl := mr.TTL("boxoffice:session:browser-2"); ttl != time.Hour {
		t.Fatalf("expected sliding ttl of 1h, got %v", ttl)
	}
	if mr.Exists("boxoffice:session:browser-3") {
		t.Fatalf("a read should not create a session")
	}

	empty := ""
	if err := provider.For("browser-2").Set(ctx, Patch{RefreshToken: &empty}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s, _ := provider.For("browser-2").Get(ctx)
	if s.RefreshToken != "" || s.AccessToken != "a" {
		t.Fatalf("empty patch value should delete only that field, got %+v", s)
	}
}

func TestRedisStoreSlidesOnRead(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisProvider(client, time.Hour).For("browser-1")
	ctx := context.Background()
	if err := store.Set(ctx, Tokens("a", "r")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		mr.FastForward(40 * time.Minute)
		s, err := store.Get(ctx)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !s.Authenticated() {
			t.Fatalf("session expired after %d min of activity", i*40)
		}
	}

	mr.FastForward(61 * time.Minute)
	if s, _ := store.Get(ctx); s.Authenticated() {
		t.Fatalf("session should expire after an idle hour")
	}
}

func TestSessionNeverPrintsTokens(t *testing.T) {
	s := Session{AccessToken: "secret-access", RefreshToken: "secret-refresh", Role: RoleAttendee}

	if strings.Contains(fmt.Sprint(s), "secret") {
		t.Fatalf("String() leaked a token: %s", s)
	}

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("session", slog.Any("session", s))
	if strings.Contains(buf.String(), "secret") {
		t.Fatalf("LogValue() leaked a token: %s", buf.String())
	}
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    42,
		"token_type": "access",
		"exp":        exp.Unix(),
	})
	signed, err := token.SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	c, err := ParseClaims(signed)
	if err != nil {
		t.Fatalf("ParseClaims failed: %v", err)
	}
	if c.UserID != "42" || c.TokenType != "access" || !c.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected claims %+v", c)
	}
	if !c.Expired(time.Now()) {
		t.Fatalf("claims should be expired")
	}

	if _, err := ParseClaims(""); err != ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if _, err := ParseClaims("garbage"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
