package middleware

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP_ForwardedForFirstHop(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1, 172.16.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Fatalf("got %q", got)
	}
}

func TestClientIP_RemoteAddrFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.4:54321"
	if got := ClientIP(r); got != "198.51.100.4" {
		t.Fatalf("got %q", got)
	}
}
