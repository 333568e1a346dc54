package telemship

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/telemship/internal/domain"
)

func testConfig(t *testing.T, serverURL string) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SpoolDir = t.TempDir()
	cfg.EndpointURL = serverURL
	cfg.WatchSpool = false
	cfg.SendInterval = 50 * time.Millisecond
	cfg.BackoffMax = time.Second
	return cfg
}

func TestShipperDeliversSpooledBatches(t *testing.T) {
	var mu sync.Mutex
	var received []string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			t.Errorf("gzip reader: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body, err := io.ReadAll(gz)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		mu.Lock()
		received = append(received, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s, err := New(testConfig(t, ts.URL))
	if err != nil {
		t.Fatal(err)
	}

	for _, payload := range []string{"batch-1\n", "batch-2\n", "batch-3\n"} {
		if _, err := s.Enqueue(payload); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Drain(ctx); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}

	mu.Lock()
	count := len(received)
	mu.Unlock()
	if count != 3 {
		t.Errorf("received = %d batches, want 3", count)
	}
	if got := s.spool.Pending(); got != 0 {
		t.Errorf("spool Pending() = %d, want 0 after drain", got)
	}
	if got := s.InFlight(); got != 0 {
		t.Errorf("InFlight() = %d, want 0", got)
	}
}

func TestShipperKeepsBatchOnRecoverableError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	s, err := New(testConfig(t, ts.URL))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Enqueue("batch\n"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Drain(ctx); err != nil {
		t.Fatal(err)
	}

	if got := s.spool.Pending(); got != 1 {
		t.Errorf("spool Pending() = %d, want 1 (batch kept for retry)", got)
	}
}

func TestShipperDropsBatchOnUnexpectedError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	s, err := New(testConfig(t, ts.URL))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Enqueue("batch\n"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Drain(ctx); err != nil {
		t.Fatal(err)
	}

	if got := s.spool.Pending(); got != 0 {
		t.Errorf("spool Pending() = %d, want 0 (rejected batch dropped)", got)
	}
}

func TestShipperStartStop(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s, err := New(testConfig(t, ts.URL))
	if err != nil {
		t.Fatal(err)
	}

	if s.Status() != StateStopped {
		t.Fatalf("Status() = %v, want Stopped", s.Status())
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.Status() != StateRunning {
		t.Errorf("Status() = %v, want Running", s.Status())
	}

	if err := s.Start(context.Background()); !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if s.Status() != StateStopped {
		t.Errorf("Status() = %v, want Stopped", s.Status())
	}

	if err := s.Stop(); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("second Stop() error = %v, want ErrNotRunning", err)
	}
}

func TestShipperEventHandler(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	handler := &recordingHandler{}
	s, err := New(testConfig(t, ts.URL), WithEventHandler(handler))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Enqueue("batch\n"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Drain(ctx); err != nil {
		t.Fatal(err)
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if handler.successes == 0 {
		t.Error("OnSendSuccess never called")
	}
}

func TestNewRequiresSpoolDirWithoutQueue(t *testing.T) {
	cfg := DefaultConfig()

	_, err := New(cfg)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("New() without spool dir error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewWithCustomQueue(t *testing.T) {
	cfg := DefaultConfig()

	s, err := New(cfg, WithQueue(emptyQueue{}))
	if err != nil {
		t.Fatalf("New() with custom queue error = %v", err)
	}

	// Enqueue is spool-only.
	if _, err := s.Enqueue("batch\n"); err == nil {
		t.Error("Enqueue() with custom queue = nil, want error")
	}

	// Triggering against an empty custom queue is a no-op.
	s.TriggerSending()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Drain(ctx); err != nil {
		t.Errorf("Drain() error = %v", err)
	}
}

type recordingHandler struct {
	mu        sync.Mutex
	successes int
	errs      int
}

func (h *recordingHandler) OnSendSuccess(status int, bytesSent int) {
	h.mu.Lock()
	h.successes++
	h.mu.Unlock()
}

func (h *recordingHandler) OnSendError(err error, retryable bool) {
	h.mu.Lock()
	h.errs++
	h.mu.Unlock()
}

func (h *recordingHandler) OnStateChange(previous, current State, reason string) {}

// emptyQueue is a Queue with nothing to send.
type emptyQueue struct{}

func (emptyQueue) NextAvailable() (domain.Handle, bool) { return "", false }
func (emptyQueue) Load(domain.Handle) (string, error)   { return "", nil }
func (emptyQueue) Delete(domain.Handle) error           { return nil }
func (emptyQueue) MakeAvailable(domain.Handle) error    { return nil }
