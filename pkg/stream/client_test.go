package stream

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mapryk/routecast/pkg/route"
)

// collectorStub records every request body and serves a scripted sequence
// of status codes (the last status repeats once the script runs out).
type collectorStub struct {
	mu       sync.Mutex
	statuses []int
	requests [][]route.Point
	keys     []string
	times    []time.Time
}

func (s *collectorStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		var points []route.Point
		_ = json.Unmarshal(body, &points)
		s.requests = append(s.requests, points)
		s.keys = append(s.keys, r.Header.Get("X-Push-Key"))
		s.times = append(s.times, time.Now())
		status := http.StatusOK
		if len(s.statuses) > 0 {
			status = s.statuses[0]
			if len(s.statuses) > 1 {
				s.statuses = s.statuses[1:]
			}
		}
		s.mu.Unlock()

		w.WriteHeader(status)
	}
}

func (s *collectorStub) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func testPoints(n int) []route.Point {
	points := make([]route.Point, n)
	for i := range points {
		points[i] = route.Point{TimestampMs: uint64(i), X: float32(i)}
	}
	return points
}

func startClient(url, key string) *Client {
	return NewWithOptions(url, key, log.New(io.Discard), Options{
		BackoffStep:  5 * time.Millisecond,
		DebounceWait: 10 * time.Millisecond,
		IdleWait:     50 * time.Millisecond,
	})
}

func TestReady(t *testing.T) {
	c := startClient("http://collector.local", "key")
	defer c.Close()
	if !c.Ready() {
		t.Error("configured client should be ready")
	}

	missing := startClient("http://collector.local", "")
	defer missing.Close()
	if missing.Ready() {
		t.Error("client without a push key should not be ready")
	}
}

func TestPartialBatchFlushedOnClose(t *testing.T) {
	stub := &collectorStub{}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	c := startClient(srv.URL, "key")
	c.Send(testPoints(4)...)
	c.Close()

	if got := stub.requestCount(); got != 1 {
		t.Fatalf("expected exactly 1 flushed batch, got %d", got)
	}
	got := stub.requests[0]
	if len(got) != 4 {
		t.Fatalf("flushed batch has %d points, want 4", len(got))
	}
	for i, p := range got {
		if p.TimestampMs != uint64(i) {
			t.Errorf("point %d out of order: timestamp %d", i, p.TimestampMs)
		}
	}
	if stub.keys[0] != "key" {
		t.Errorf("X-Push-Key = %q, want %q", stub.keys[0], "key")
	}
}

func TestFullBatchesSlicedFromFront(t *testing.T) {
	stub := &collectorStub{}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	c := startClient(srv.URL, "key")
	c.Send(testPoints(25)...)
	c.Close()

	if got := stub.requestCount(); got != 3 {
		t.Fatalf("expected 3 batches (10+10+5), got %d", got)
	}
	sizes := []int{len(stub.requests[0]), len(stub.requests[1]), len(stub.requests[2])}
	if sizes[0] != 10 || sizes[1] != 10 || sizes[2] != 5 {
		t.Errorf("batch sizes = %v, want [10 10 5]", sizes)
	}

	// Order is preserved across batches.
	next := uint64(0)
	for _, req := range stub.requests {
		for _, p := range req {
			if p.TimestampMs != next {
				t.Fatalf("expected timestamp %d, got %d", next, p.TimestampMs)
			}
			next++
		}
	}
}

func TestRetriesThenSucceeds(t *testing.T) {
	stub := &collectorStub{statuses: []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusOK}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	step := 25 * time.Millisecond
	c := NewWithOptions(srv.URL, "key", log.New(io.Discard), Options{
		BackoffStep:  step,
		DebounceWait: 10 * time.Millisecond,
		IdleWait:     50 * time.Millisecond,
	})
	start := time.Now()
	c.Send(testPoints(3)...)
	c.Close()
	elapsed := time.Since(start)

	if got := stub.requestCount(); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
	// Two backoff sleeps of 1*step and 2*step.
	if want := 3 * step; elapsed < want {
		t.Errorf("expected at least %v of backoff, got %v", want, elapsed)
	}
	// Escalating gaps: the second gap includes a longer sleep than the first.
	gap1 := stub.times[1].Sub(stub.times[0])
	gap2 := stub.times[2].Sub(stub.times[1])
	if gap2 <= gap1 {
		t.Errorf("backoff did not escalate: gap1=%v gap2=%v", gap1, gap2)
	}
}

func TestUnauthorizedDoesNotRetry(t *testing.T) {
	stub := &collectorStub{statuses: []int{http.StatusUnauthorized}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	c := startClient(srv.URL, "bad-key")
	c.Send(testPoints(2)...)
	c.Close()

	if got := stub.requestCount(); got != 1 {
		t.Errorf("401 must not be retried: got %d attempts", got)
	}
}

func TestExhaustedRetriesDropBatch(t *testing.T) {
	stub := &collectorStub{statuses: []int{http.StatusServiceUnavailable}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	c := startClient(srv.URL, "key")
	c.Send(testPoints(1)...)
	c.Close()

	if got := stub.requestCount(); got != 3 {
		t.Errorf("expected 3 attempts before dropping, got %d", got)
	}
	// A later batch still goes through independently; nothing was requeued.
	stub.mu.Lock()
	stub.statuses = []int{http.StatusOK}
	stub.requests = nil
	stub.mu.Unlock()

	c2 := startClient(srv.URL, "key")
	c2.Send(testPoints(2)...)
	c2.Close()
	if got := stub.requestCount(); got != 1 {
		t.Errorf("expected 1 request for the fresh batch, got %d", got)
	}
	if len(stub.requests[0]) != 2 {
		t.Errorf("fresh batch has %d points, want 2 (dropped batch must not reappear)", len(stub.requests[0]))
	}
}

func TestSendAfterCloseDropsQuietly(t *testing.T) {
	stub := &collectorStub{}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	c := startClient(srv.URL, "key")
	c.Close()
	c.Send(testPoints(5)...) // must not panic or block
	c.Close()                // idempotent

	if got := stub.requestCount(); got != 0 {
		t.Errorf("expected no requests after close, got %d", got)
	}
}
