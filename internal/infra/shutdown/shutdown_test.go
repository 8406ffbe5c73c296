package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"explicit", 5 * time.Second, 5 * time.Second},
		{"zero uses default", 0, DefaultTimeout},
		{"negative uses default", -time.Second, DefaultTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.timeout)
			if h.timeout != tt.want {
				t.Errorf("timeout = %v, want %v", h.timeout, tt.want)
			}
			if h.done == nil {
				t.Error("done channel should be initialized")
			}
		})
	}
}

func TestHandler_Done(t *testing.T) {
	h := NewHandler(time.Second)

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestHandler_Wait_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var mu sync.Mutex
	var callOrder []int
	for i := 1; i <= 3; i++ {
		h.OnShutdown(func(context.Context) error {
			mu.Lock()
			callOrder = append(callOrder, i)
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait(ctx)
	}()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(callOrder) != 3 || callOrder[0] != 3 || callOrder[1] != 2 || callOrder[2] != 1 {
		t.Errorf("callOrder = %v, want [3 2 1]", callOrder)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_HookError(t *testing.T) {
	h := NewHandler(time.Second)
	expectedErr := errors.New("hook error")

	var ran int
	h.OnShutdown(func(context.Context) error { ran++; return nil })
	h.OnShutdown(func(context.Context) error { ran++; return expectedErr })
	h.OnShutdown(func(context.Context) error { ran++; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Wait(ctx); !errors.Is(err, expectedErr) {
		t.Errorf("Wait() = %v, want %v", err, expectedErr)
	}
	if ran != 3 {
		t.Errorf("hooks run = %d, want 3", ran)
	}
}

func TestHandler_Wait_HookDeadline(t *testing.T) {
	h := NewHandler(20 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want DeadlineExceeded", err)
	}
}

func TestWithSignals(t *testing.T) {
	ctx, stop := WithSignals(context.Background())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled by SIGTERM")
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second)

	var wg sync.WaitGroup
	const n = 10
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != n {
		t.Errorf("hooks = %d, want %d", len(h.hooks), n)
	}
}
