package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	return NewClient("test-key", 24*time.Hour, cache).WithBaseURL(srv.URL), mr
}

func TestClient_LookupAndCache(t *testing.T) {
	var calls int32
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Query().Get("ip") != "203.0.113.9" {
			t.Errorf("unexpected ip param %q", r.URL.Query().Get("ip"))
		}
		fmt.Fprint(w, `{"country_name":"Iceland","city":"Reykjavik"}`)
	})
	ctx := context.Background()

	loc, err := client.Lookup(ctx, "203.0.113.9")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if loc.Country != "Iceland" || loc.City != "Reykjavik" {
		t.Fatalf("unexpected location %+v", loc)
	}

	// Second lookup is served from cache.
	if _, err := client.Lookup(ctx, "203.0.113.9"); err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("want 1 upstream call, got %d", n)
	}
}

func TestClient_CacheExpiry(t *testing.T) {
	var calls int32
	client, mr := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"country_name":"Iceland","city":"Reykjavik"}`)
	})
	ctx := context.Background()

	if _, err := client.Lookup(ctx, "203.0.113.9"); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(25 * time.Hour)
	if _, err := client.Lookup(ctx, "203.0.113.9"); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("want 2 upstream calls after eviction, got %d", n)
	}
}

func TestClient_UpstreamError(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	loc, err := client.Lookup(context.Background(), "203.0.113.9")
	if err == nil {
		t.Fatal("expected error")
	}
	if loc != (Location{}) {
		t.Fatalf("expected empty location, got %+v", loc)
	}
}
