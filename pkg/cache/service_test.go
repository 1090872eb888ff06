package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"boxoffice/pkg/logger"
)

type item struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(client, logger.Discard()), mr
}

func TestGetOrSetFetchesOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []item{{ID: 1, Title: "Concert"}}, nil
	}

	for i := 0; i < 3; i++ {
		var got []item
		if err := svc.GetOrSet(ctx, "events:list", time.Minute, fetch, &got); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Concert" {
			t.Fatalf("unexpected value %+v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("fetcher should run once, ran %d times", calls)
	}
}

func TestGetOrSetPropagatesFetchError(t *testing.T) {
	svc, _ := newTestService(t)
	boom := errors.New("upstream down")

	var got []item
	err := svc.GetOrSet(context.Background(), "k", time.Minute, func() (interface{}, error) { return nil, boom }, &got)
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestDeletePattern(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	for _, k := range []string{"events:list", "events:1", "other:1"} {
		if err := svc.Set(ctx, k, item{ID: 1}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := svc.DeletePattern(ctx, "events:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	if mr.Exists("events:list") || mr.Exists("events:1") {
		t.Fatalf("events keys should be gone")
	}
	if !mr.Exists("other:1") {
		t.Fatalf("unrelated key should survive")
	}

	var got item
	if err := svc.Get(ctx, "events:1", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestGetOrSetCollapsesConcurrentMisses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	fetch := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []item{{ID: 2, Title: "Opera"}}, nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got []item
			if err := svc.GetOrSet(ctx, "events:list", time.Minute, fetch, &got); err != nil {
				errs <- err
				return
			}
			if len(got) != 1 || got[0].Title != "Opera" {
				errs <- errors.New("unexpected value")
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("fetcher ran %d times, want 1", n)
	}
}
