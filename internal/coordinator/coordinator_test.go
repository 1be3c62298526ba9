package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// scriptedFetch returns the queued results in order, repeating the last.
type scriptedFetch struct {
	mu     sync.Mutex
	values []int
	errs   []error
	calls  int
}

func (s *scriptedFetch) fetch(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.values) {
		i = len(s.values) - 1
	}
	s.calls++
	return s.values[i], s.errs[i]
}

func (s *scriptedFetch) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRefresh_StoresData(t *testing.T) {
	f := &scriptedFetch{values: []int{7}, errs: []error{nil}}
	c := New("test", 0, f.fetch)

	if c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess() = true before any refresh")
	}

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if c.Data() != 7 {
		t.Errorf("Data() = %d, want 7", c.Data())
	}
	if !c.LastUpdateSuccess() || c.LastError() != nil {
		t.Errorf("success = %v, err = %v", c.LastUpdateSuccess(), c.LastError())
	}
	if c.LastUpdate().IsZero() {
		t.Error("LastUpdate() is zero after success")
	}
}

func TestRefresh_KeepsPreviousDataOnError(t *testing.T) {
	fetchErr := errors.New("host unreachable")
	f := &scriptedFetch{values: []int{1, 99}, errs: []error{nil, fetchErr}}
	c := New("test", 0, f.fetch)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}

	err := c.Refresh(context.Background())
	if !errors.Is(err, ErrUpdateFailed) || !errors.Is(err, fetchErr) {
		t.Fatalf("Refresh() error = %v, want ErrUpdateFailed wrapping fetch error", err)
	}
	if c.Data() != 1 {
		t.Errorf("Data() = %d, want previous value 1", c.Data())
	}
	if c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess() = true after failure")
	}
	if !errors.Is(c.LastError(), fetchErr) {
		t.Errorf("LastError() = %v, want %v", c.LastError(), fetchErr)
	}
}

func TestFirstRefresh_NotReady(t *testing.T) {
	f := &scriptedFetch{values: []int{0}, errs: []error{errors.New("boom")}}
	c := New("test", 0, f.fetch)

	if err := c.FirstRefresh(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("FirstRefresh() error = %v, want ErrNotReady", err)
	}
}

func TestListenersAndHooks(t *testing.T) {
	f := &scriptedFetch{values: []int{1, 2, 3}, errs: []error{nil, errors.New("x"), nil}}

	var results []Result
	c := New("test", 0, f.fetch, WithResultHook[int](func(r Result) { results = append(results, r) }))

	var calls int
	remove := c.AddListener(func() { calls++ })

	_ = c.Refresh(context.Background())
	_ = c.Refresh(context.Background())
	if calls != 1 {
		t.Errorf("listener calls = %d, want 1 (not on failure)", calls)
	}

	remove()
	_ = c.Refresh(context.Background())
	if calls != 1 {
		t.Errorf("listener called after removal")
	}

	if len(results) != 3 {
		t.Fatalf("hook results = %d, want 3", len(results))
	}
	if !results[0].Success || results[1].Success || results[1].Err == nil {
		t.Errorf("results = %+v", results)
	}
	if results[0].ID == "" || results[0].ID == results[2].ID || results[0].Name != "test" {
		t.Errorf("refresh ids not unique: %q %q", results[0].ID, results[2].ID)
	}
}

func TestListenerMayRefresh(t *testing.T) {
	f := &scriptedFetch{values: []int{1}, errs: []error{nil}}
	c := New("test", 0, f.fetch)

	var once sync.Once
	c.AddListener(func() {
		once.Do(func() { _ = c.Refresh(context.Background()) })
	})

	done := make(chan struct{})
	go func() {
		_ = c.Refresh(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Refresh from listener deadlocked")
	}
	if f.count() != 2 {
		t.Errorf("fetch calls = %d, want 2", f.count())
	}
}

func TestStartStop(t *testing.T) {
	var fetches atomic.Int32
	c := New("test", 10*time.Millisecond, func(context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fetches.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fetches.Load() < 2 {
		t.Fatalf("polling loop fetched %d times, want >= 2", fetches.Load())
	}

	c.Stop()
	after := fetches.Load()
	time.Sleep(30 * time.Millisecond)
	if fetches.Load() != after {
		t.Error("polling continued after Stop()")
	}

	c.Stop()
}

func TestStart_ZeroIntervalDoesNotPoll(t *testing.T) {
	f := &scriptedFetch{values: []int{1}, errs: []error{nil}}
	c := New("test", 0, f.fetch)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if f.count() != 0 {
		t.Errorf("fetch calls = %d, want 0", f.count())
	}
	c.Stop()
}
