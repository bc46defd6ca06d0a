package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type funcJob struct {
	id string
	fn func(ctx context.Context) error
}

func (j funcJob) ID() string { return j.id }
func (j funcJob) Type() string { return "TEST" }
func (j funcJob) Execute(ctx context.Context) error { return j.fn(ctx) }

func quietLog() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

func TestDispatcherRunsAllJobsBeforeStop(t *testing.T) {
	log, _ := quietLog()
	d := NewDispatcher(3, 50, log)
	d.Run()

	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		job := funcJob{id: fmt.Sprintf("job-%d", i), fn: func(context.Context) error {
			time.Sleep(time.Millisecond)
			ran.Add(1)
			return nil
		}}
		if err := d.SubmitJob(job); err != nil {
			t.Fatalf("SubmitJob(%d) error = %v", i, err)
		}
	}
	d.Stop()

	if got := ran.Load(); got != 20 {
		t.Fatalf("ran %d jobs, want 20", got)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	log, _ := quietLog()
	d := NewDispatcher(1, 1, log)

	// Not running yet, so nothing drains the queue.
	noop := funcJob{id: "a", fn: func(context.Context) error { return nil }}
	if err := d.SubmitJob(noop); err != nil {
		t.Fatalf("first SubmitJob() error = %v", err)
	}
	if err := d.SubmitJob(funcJob{id: "b", fn: noop.fn}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("second SubmitJob() error = %v, want ErrQueueFull", err)
	}

	d.Run()
	d.Stop()
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	log, _ := quietLog()
	d := NewDispatcher(2, 4, log)
	d.Run()
	d.Stop()
	d.Stop()

	err := d.SubmitJob(funcJob{id: "late", fn: func(context.Context) error { return nil }})
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("SubmitJob() error = %v, want ErrStopped", err)
	}
}

func TestDispatcherSurvivesFailingJobs(t *testing.T) {
	log, hook := quietLog()
	d := NewDispatcher(1, 4, log)
	d.Run()

	var wg sync.WaitGroup
	wg.Add(1)
	_ = d.SubmitJob(funcJob{id: "panics", fn: func(context.Context) error { panic("boom") }})
	_ = d.SubmitJob(funcJob{id: "errors", fn: func(context.Context) error { return errors.New("nope") }})
	_ = d.SubmitJob(funcJob{id: "works", fn: func(context.Context) error { wg.Done(); return nil }})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not recover from a failing job")
	}
	d.Stop()

	failures := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "job failed" {
			failures++
		}
	}
	if failures != 2 {
		t.Fatalf("logged %d job failures, want 2", failures)
	}
}

func TestStopWithoutRun(t *testing.T) {
	log, _ := quietLog()
	d := NewDispatcher(2, 2, log)
	done := make(chan struct{})
	go func() { d.Stop(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without Run")
	}
}
