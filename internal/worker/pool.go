package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned by SubmitJob when the job queue has no room.
	ErrQueueFull = errors.New("worker: job queue full")

	// ErrStopped is returned by SubmitJob after Stop.
	ErrStopped = errors.New("worker: dispatcher stopped")
)

// Job represents a unit of work to be executed.
type Job interface {
	ID() string
	Type() string
	Execute(ctx context.Context) error
}

// Worker pulls jobs handed to it by the dispatcher.
type Worker struct {
	ID         int
	WorkerPool chan chan Job // shared pool the worker registers its JobChannel in
	JobChannel chan Job
	quit       <-chan struct{}
	log        *logrus.Entry
}

func newWorker(id int, pool chan chan Job, quit <-chan struct{}, log *logrus.Entry) Worker {
	return Worker{
		ID:         id,
		WorkerPool: pool,
		JobChannel: make(chan Job),
		quit:       quit,
		log:        log.WithField("worker", id),
	}
}

func (w Worker) start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-w.quit:
				return
			}

			select {
			case job := <-w.JobChannel:
				w.run(ctx, job)
			case <-w.quit:
				w.log.Debug("worker stopping")
				return
			}
		}
	}()
}

func (w Worker) run(ctx context.Context, job Job) {
	log := w.log.WithFields(logrus.Fields{"job_id": job.ID(), "job_type": job.Type()})
	log.Info("started job")
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		return job.Execute(ctx)
	}()

	log = log.WithField("duration", time.Since(start).String())
	if err != nil {
		log.WithError(err).Error("job failed")
		return
	}
	log.Info("finished job")
}

// Dispatcher manages a pool of workers and dispatches queued jobs to them.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job
	JobQueue   chan Job

	wg      sync.WaitGroup
	quit    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	running bool
	stopped bool
	log     *logrus.Entry
}

// NewDispatcher creates a dispatcher with maxWorkers workers and a job
// queue holding up to queueSize pending jobs.
func NewDispatcher(maxWorkers, queueSize int, log *logrus.Entry) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, queueSize),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log.WithField("component", "dispatcher"),
	}
}

// Run starts the workers and the dispatch loop. Calling Run twice is a no-op.
func (d *Dispatcher) Run() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running || d.stopped {
		return
	}
	d.running = true

	ctx := context.Background()
	for i := 1; i <= d.MaxWorkers; i++ {
		newWorker(i, d.WorkerPool, d.quit, d.log).start(ctx, &d.wg)
	}
	go d.dispatch()
	d.log.WithField("workers", d.MaxWorkers).Info("dispatcher running")
}

// dispatch hands each queued job to the next free worker. Once the queue is
// closed and drained it tells the workers to quit.
func (d *Dispatcher) dispatch() {
	defer close(d.done)
	for job := range d.JobQueue {
		jobs := <-d.WorkerPool
		jobs <- job
	}
	close(d.quit)
}

// SubmitJob queues job without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.JobQueue <- job:
		d.log.WithField("job_id", job.ID()).Debug("job queued")
		return nil
	default:
		d.log.WithField("job_id", job.ID()).Warn("job queue full")
		return ErrQueueFull
	}
}

// Stop stops accepting jobs, lets the workers finish everything already
// queued and waits for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	running := d.running
	close(d.JobQueue)
	d.mu.Unlock()

	if !running {
		return
	}
	d.log.Info("dispatcher draining")
	<-d.done
	d.wg.Wait()
	d.log.Info("dispatcher stopped")
}
