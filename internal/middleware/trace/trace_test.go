package trace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookkeeping/internal/log"
)

func TestTransportSetsRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(HeaderRequestID)
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	tr := NewTransport(nil, log.Discard())
	client := &http.Client{Transport: tr}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("expected generated request id, got %q", seen)
	}
	if req.Header.Get(HeaderRequestID) != "" {
		t.Fatal("caller's request must not be modified")
	}

	m := tr.GetMetrics()
	if m.TotalRequests != 1 || m.FailedRequests != 0 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestTransportUsesContextRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(HeaderRequestID)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport(nil, log.Discard())}
	ctx := WithRequestID(context.Background(), "req_fixed")
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()

	if seen != "req_fixed" {
		t.Fatalf("expected context request id, got %q", seen)
	}
}

func TestTransportCountsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := NewTransport(nil, log.Discard())
	client := &http.Client{Transport: tr}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if got := tr.GetMetrics().FailedRequests; got != 1 {
		t.Fatalf("FailedRequests = %d, want 1", got)
	}
}
