package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSON_Success(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing Accept header")
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "ridecomparison/") {
			t.Errorf("unexpected User-Agent %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`{"value":7}`))
	}))
	defer srv.Close()

	var out struct {
		Value int `json:"value"`
	}
	client := New(3, time.Second)
	if err := client.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Value != 7 {
		t.Errorf("expected decoded value 7, got %d", out.Value)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestGetJSON_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	client := New(3, time.Second)
	if err := client.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("expected third attempt to succeed: %v", err)
	}
	if !out.OK {
		t.Error("expected decoded body from final attempt")
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestGetJSON_ExhaustsAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(3, time.Second)
	err := client.GetJSON(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !strings.Contains(err.Error(), "unexpected status 500") {
		t.Errorf("expected last underlying error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestGetJSON_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out map[string]any
	client := New(1, time.Second)
	if err := client.GetJSON(context.Background(), srv.URL, &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGetJSON_CancelledContext(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(3, time.Second)
	if err := client.GetJSON(ctx, srv.URL, nil); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("expected no calls after cancellation, got %d", calls)
	}
}

func TestNew_Defaults(t *testing.T) {
	client := New(0, 0)
	if client.maxAttempts != DefaultMaxAttempts {
		t.Errorf("expected default attempts %d, got %d", DefaultMaxAttempts, client.maxAttempts)
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, client.timeout)
	}
}
