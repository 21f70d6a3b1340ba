package workers

import (
	"context"
	"errors"
	"testing"
	"time"
)

type blockingWorker struct {
	name    string
	stopped bool
}

func (b *blockingWorker) Name() string { return b.name }

func (b *blockingWorker) Start(ctx context.Context) error {
	<-ctx.Done()
	b.stopped = true
	return nil
}

type failingWorker struct {
	name string
	err  error
}

func (f *failingWorker) Name() string { return f.name }

func (f *failingWorker) Start(_ context.Context) error { return f.err }

func TestGroupStopsOnCancel(t *testing.T) {
	worker := &blockingWorker{name: "w1"}
	group := Group{worker}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := group.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !worker.stopped {
		t.Error("worker did not observe cancellation")
	}
}

func TestGroupFailureStopsSiblings(t *testing.T) {
	blocking := &blockingWorker{name: "survivor"}
	boom := errors.New("boom")
	group := Group{blocking, &failingWorker{name: "faulty", err: boom}}

	err := group.Run(context.Background())
	if err == nil {
		t.Fatal("expected the worker error to surface")
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if !blocking.stopped {
		t.Error("sibling kept running after the failure")
	}
}
