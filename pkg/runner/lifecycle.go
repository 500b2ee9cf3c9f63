package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Lifecycle runs one workload from banner to drained shutdown. It is
// single-use: a second Run returns an error.
type Lifecycle struct {
	state    int32
	cancelMu sync.Mutex
	cancel   context.CancelFunc
	onceStop sync.Once
	hooks    Hooks
	drainer  Drainer
	stopErr  error
	timeout  time.Duration
}

func NewLifecycle(drainer Drainer, hooks Hooks, timeout time.Duration) *Lifecycle {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Lifecycle{
		state:   int32(StateNew),
		hooks:   hooks,
		drainer: drainer,
		timeout: timeout,
	}
}

// Run prints the banner, fires OnStart, blocks in the workload, and drains
// when it returns. The workload error wins over the drain error.
func (r *Lifecycle) Run(ctx context.Context, work Workload) error {
	if !r.casState(StateNew, StateStarting) {
		return errors.New("lifecycle already used")
	}
	PrintBanner()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancelMu.Lock()
	r.cancel = cancel
	r.cancelMu.Unlock()
	defer cancel()

	if r.hooks.OnStart != nil {
		r.hooks.OnStart()
	}
	r.setState(StateRunning)

	err := work(ctx)
	stopErr := r.stop()
	if err != nil {
		return err
	}
	return stopErr
}

// Stop cancels the workload context; Run finishes the shutdown.
func (r *Lifecycle) Stop() {
	r.cancelMu.Lock()
	cancel := r.cancel
	r.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Lifecycle) State() State {
	return State(atomic.LoadInt32(&r.state))
}

func (r *Lifecycle) stop() error {
	r.onceStop.Do(func() {
		r.setState(StateDraining)
		if r.drainer != nil {
			done := make(chan struct{})
			go func() {
				_ = r.drainer.Drain()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(r.timeout):
				r.stopErr = errors.New("drain timeout")
			}
		}
		if r.hooks.OnStop != nil {
			r.hooks.OnStop()
		}
		r.setState(StateStopped)
	})
	return r.stopErr
}

func (r *Lifecycle) casState(from, to State) bool {
	return atomic.CompareAndSwapInt32(&r.state, int32(from), int32(to))
}

func (r *Lifecycle) setState(s State) {
	atomic.StoreInt32(&r.state, int32(s))
}
