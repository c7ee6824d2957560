package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	c := NewClient(2 * time.Second)
	c.BaseURL = baseURL
	c.Backoff = time.Millisecond
	return c
}

func TestFetchLocalFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "local.fa")
	if err := os.WriteFile(fn, []byte(">s\nACGT\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := testClient("http://unused.invalid")
	data, err := c.Fetch(context.Background(), fn)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != ">s\nACGT\n" {
		t.Fatalf("got %q", data)
	}
}

func TestFetchLocalGzipFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "local.fa.gz")
	fh, err := os.Create(fn)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(fh)
	_, _ = gw.Write([]byte(">s\nGGTT\n"))
	_ = gw.Close()
	_ = fh.Close()

	c := testClient("http://unused.invalid")
	data, err := c.Fetch(context.Background(), fn)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != ">s\nGGTT\n" {
		t.Fatalf("got %q", data)
	}
}

func TestFetchRemoteSuccess(t *testing.T) {
	t.Setenv("NCBI_API_KEY", "")
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "seqsum/") {
			t.Errorf("user agent: got %q", ua)
		}
		_, _ = w.Write([]byte(">acc\nACGT\n"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	data, err := c.Fetch(context.Background(), "NM_000000.1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != ">acc\nACGT\n" {
		t.Fatalf("got %q", data)
	}
	q, _ := gotQuery.Load().(string)
	for _, part := range []string{"db=nuccore", "id=NM_000000.1", "rettype=fasta", "retmode=text"} {
		if !strings.Contains(q, part) {
			t.Fatalf("query %q missing %q", q, part)
		}
	}
	if strings.Contains(q, "api_key") {
		t.Fatalf("query %q must not carry api_key without the env credential", q)
	}
}

func TestFetchRemoteAppendsAPIKey(t *testing.T) {
	t.Setenv("NCBI_API_KEY", "sekret")
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.Fetch(context.Background(), "X1"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	q, _ := gotQuery.Load().(string)
	if !strings.Contains(q, "api_key=sekret") {
		t.Fatalf("query %q missing api_key", q)
	}
}

func TestFetchProtocolErrorNotRetried(t *testing.T) {
	t.Setenv("NCBI_API_KEY", "")
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Fetch(context.Background(), "MISSING")
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
	if pe.Status != http.StatusNotFound {
		t.Fatalf("status: got %d", pe.Status)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("protocol errors must not be retried; server saw %d calls", n)
	}
}

func TestFetchRetriesTransportFailure(t *testing.T) {
	t.Setenv("NCBI_API_KEY", "")
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Errorf("server does not support hijack")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			_ = conn.Close() // abort mid-flight: a transport failure for the client
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	data, err := c.Fetch(context.Background(), "RETRY")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != "recovered" {
		t.Fatalf("got %q", data)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("expected 3 attempts, server saw %d", n)
	}
}

func TestFetchTransportExhaustion(t *testing.T) {
	t.Setenv("NCBI_API_KEY", "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse every connection

	c := testClient(srv.URL)
	_, err := c.Fetch(context.Background(), "DOWN")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		t.Fatalf("transport exhaustion must not be a protocol error: %v", err)
	}
}

func TestFetchCanceledContext(t *testing.T) {
	t.Setenv("NCBI_API_KEY", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := testClient("http://unused.invalid")
	_, err := c.Fetch(ctx, "ANY")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
