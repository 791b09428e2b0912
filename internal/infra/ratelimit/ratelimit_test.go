package ratelimit

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestKeyed_BurstThenDeny(t *testing.T) {
	k := NewKeyed(rate.Every(time.Hour), 2, 16, time.Hour)

	for i := 0; i < 2; i++ {
		if ok, _ := k.Allow("203.0.113.9"); !ok {
			t.Fatalf("request %d should pass within burst", i)
		}
	}
	ok, retryAfter := k.Allow("203.0.113.9")
	if ok {
		t.Fatal("third request should be limited")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", retryAfter)
	}
}

func TestKeyed_KeysAreIndependent(t *testing.T) {
	k := NewKeyed(rate.Every(time.Hour), 1, 16, time.Hour)

	if ok, _ := k.Allow("a@example.com"); !ok {
		t.Fatal("first key should pass")
	}
	if ok, _ := k.Allow("b@example.com"); !ok {
		t.Fatal("second key should be unaffected by the first")
	}
	if ok, _ := k.Allow("a@example.com"); ok {
		t.Fatal("first key should now be limited")
	}
}

func TestKeyed_DenyDoesNotConsume(t *testing.T) {
	k := NewKeyed(rate.Every(50*time.Millisecond), 1, 16, time.Hour)

	if ok, _ := k.Allow("k"); !ok {
		t.Fatal("first should pass")
	}
	if ok, _ := k.Allow("k"); ok {
		t.Fatal("second should be limited")
	}
	time.Sleep(60 * time.Millisecond)
	if ok, _ := k.Allow("k"); !ok {
		t.Fatal("token should have refilled")
	}
}
