// Package stream delivers route points to a remote collector in real time.
//
// The producer's hot path must never stall on network conditions, so the
// client splits into a non-blocking enqueue surface and a single background
// worker that owns all HTTP I/O. The worker batches points, retries
// transient failures with linearly increasing backoff, and short-circuits
// on authentication failures. Delivery is best-effort: a batch whose
// retries are exhausted is dropped, never requeued, because by then the
// data is stale relative to real-time use.
//
// Shutdown travels through the same channel as normal traffic, so every
// point enqueued before [Client.Close] is flushed before the worker exits.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/httputil"
	"github.com/mapryk/routecast/pkg/observability"
	"github.com/mapryk/routecast/pkg/route"
)

const (
	// batchSize is how many points are sent per request once available.
	batchSize = 10

	// maxAttempts bounds delivery attempts per batch.
	maxAttempts = 3

	// pushKeyHeader authenticates the producer to the collector.
	pushKeyHeader = "X-Push-Key"

	// apiPath is the collector sub-path batches are posted to.
	apiPath = "/api/RoutePoints"
)

// Default worker timings; overridable through Options for tests.
const (
	defaultBackoffStep   = 100 * time.Millisecond
	defaultDebounceWait  = 50 * time.Millisecond
	defaultIdleWait      = time.Second
	defaultRequestLimit  = 5 * time.Second
	defaultQueueCapacity = 1024
)

// message is the unit flowing from producers to the worker. Shutdown is a
// message rather than a separate signal so it is ordered against points
// already enqueued.
type message struct {
	points   []route.Point
	shutdown bool
}

// Options tune the client. The zero value selects production defaults.
type Options struct {
	// HTTPClient overrides the transport. The default has a 5 second
	// per-request timeout.
	HTTPClient *http.Client
	// BackoffStep is the base retry delay; attempt n sleeps n*BackoffStep.
	BackoffStep time.Duration
	// DebounceWait is how long a partial batch waits for more points.
	DebounceWait time.Duration
	// IdleWait bounds the blocking receive so the worker stays responsive.
	IdleWait time.Duration
	// QueueCapacity sizes the enqueue channel.
	QueueCapacity int
}

// Client streams route points to a collector endpoint.
type Client struct {
	endpoint string
	pushKey  string
	url      string
	log      *log.Logger

	http         *http.Client
	backoffStep  time.Duration
	debounceWait time.Duration
	idleWait     time.Duration

	msgs      chan message
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates a client with default options and starts its worker.
func New(endpoint, pushKey string, logger *log.Logger) *Client {
	return NewWithOptions(endpoint, pushKey, logger, Options{})
}

// NewWithOptions creates a client and starts its background worker. The
// worker runs until [Client.Close].
func NewWithOptions(endpoint, pushKey string, logger *log.Logger, opts Options) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultRequestLimit}
	}
	if opts.BackoffStep == 0 {
		opts.BackoffStep = defaultBackoffStep
	}
	if opts.DebounceWait == 0 {
		opts.DebounceWait = defaultDebounceWait
	}
	if opts.IdleWait == 0 {
		opts.IdleWait = defaultIdleWait
	}
	if opts.QueueCapacity == 0 {
		opts.QueueCapacity = defaultQueueCapacity
	}

	c := &Client{
		endpoint:     endpoint,
		pushKey:      pushKey,
		url:          strings.TrimRight(endpoint, "/") + apiPath,
		log:          logger,
		http:         opts.HTTPClient,
		backoffStep:  opts.BackoffStep,
		debounceWait: opts.DebounceWait,
		idleWait:     opts.IdleWait,
		msgs:         make(chan message, opts.QueueCapacity),
		done:         make(chan struct{}),
	}
	go c.run()

	logger.Info("streaming client started", "endpoint", endpoint)
	return c
}

// Ready reports whether the client has both an endpoint and a push key.
func (c *Client) Ready() bool {
	return c.endpoint != "" && c.pushKey != ""
}

// Send hands points to the background worker without blocking. Ownership of
// the slice transfers to the client. After Close, or if the queue is full,
// points are dropped with a warning; the producer is never stalled or given
// an error for delivery trouble.
func (c *Client) Send(points ...route.Point) {
	if len(points) == 0 {
		return
	}
	if c.closed.Load() {
		c.log.Warn("streaming client closed, dropping route points", "count", len(points))
		observability.Delivery().OnPointsDiscarded(context.Background(), len(points))
		return
	}
	select {
	case c.msgs <- message{points: points}:
	default:
		c.log.Warn("streaming queue full, dropping route points", "count", len(points))
		observability.Delivery().OnPointsDiscarded(context.Background(), len(points))
	}
}

// Close flushes everything enqueued so far and stops the worker. The
// shutdown signal travels the same channel as points, so nothing sent
// before Close is lost. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.msgs <- message{shutdown: true}
		<-c.done
	})
}

// run is the single background worker loop.
func (c *Client) run() {
	defer close(c.done)

	var pending []route.Point

	for {
		// Drain whatever is already queued without blocking.
		drained := false
		for !drained {
			select {
			case m := <-c.msgs:
				if m.shutdown {
					c.flush(pending)
					return
				}
				pending = append(pending, m.points...)
			default:
				drained = true
			}
		}

		// Ship full batches, oldest points first.
		for len(pending) >= batchSize {
			batch := make([]route.Point, batchSize)
			copy(batch, pending)
			pending = pending[batchSize:]
			c.deliver(batch)
		}

		if len(pending) > 0 {
			// Partial batch: wait briefly for more points to coalesce.
			select {
			case m := <-c.msgs:
				if m.shutdown {
					c.flush(pending)
					return
				}
				pending = append(pending, m.points...)
				continue
			case <-time.After(c.debounceWait):
				c.deliver(pending)
				pending = nil
			}
		} else {
			// Idle: block for new points, waking periodically.
			select {
			case m := <-c.msgs:
				if m.shutdown {
					return
				}
				pending = append(pending, m.points...)
			case <-time.After(c.idleWait):
			}
		}
	}
}

func (c *Client) flush(pending []route.Point) {
	c.log.Info("streaming worker shutting down", "buffered", len(pending))
	if len(pending) > 0 {
		c.deliver(pending)
	}
}

// deliver sends one batch with bounded retries. Exhausted batches are
// dropped, not requeued.
func (c *Client) deliver(batch []route.Point) {
	ctx := context.Background()
	err := httputil.Retry(ctx, maxAttempts, c.backoffStep, func() error {
		return c.post(batch)
	})
	if err == nil {
		c.log.Debug("sent route points", "count", len(batch))
		observability.Delivery().OnBatchSent(ctx, len(batch))
		return
	}
	if apperr.Is(err, apperr.CodeUnauthorized) {
		c.log.Error("push key rejected by collector; generate a new key", "dropped", len(batch))
		observability.Delivery().OnBatchDropped(ctx, len(batch), "unauthorized")
		return
	}
	c.log.Error("dropping route points after exhausting retries",
		"dropped", len(batch), "attempts", maxAttempts, "err", err)
	observability.Delivery().OnBatchDropped(ctx, len(batch), "retries_exhausted")
}

// post performs one delivery attempt. A 401 is wrapped as non-retryable so
// the retry loop aborts immediately; every other failure is retryable.
func (c *Client) post(batch []route.Point) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return &httputil.NonRetryableError{
			Err: apperr.Wrap(apperr.CodeInternal, err, "encode route points"),
		}
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &httputil.NonRetryableError{
			Err: apperr.Wrap(apperr.CodeInternal, err, "build request"),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(pushKeyHeader, c.pushKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.CodeNetwork, err, "send route points")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &httputil.NonRetryableError{
			Err: apperr.New(apperr.CodeUnauthorized, "collector rejected push key"),
		}
	default:
		return apperr.New(apperr.CodeNetwork, "collector returned status %d", resp.StatusCode)
	}
}
