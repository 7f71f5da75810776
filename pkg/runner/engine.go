package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"websession/pkg/client"
)

// Requester is the part of session.Client the engine needs.
type Requester interface {
	Request(ctx context.Context, path string, opts *client.Options) (*client.Response, error)
}

// Job is one request to issue through the session
type Job struct {
	ID      string
	Path    string
	Method  string
	Headers map[string]string
	Body    string
}

// NewJob creates a job with a fresh ID
func NewJob(path, method string, headers map[string]string, body string) *Job {
	return &Job{
		ID:      uuid.NewString(),
		Path:    path,
		Method:  method,
		Headers: headers,
		Body:    body,
	}
}

// Result is the outcome of a Job
type Result struct {
	Job        *Job
	StatusCode int
	ContentLen int
	Body       string
	Error      error
	Duration   time.Duration
}

// Engine runs jobs on a fixed number of workers that share one session
type Engine struct {
	Requester Requester
	Workers   int
	Queue     chan *Job
	Results   chan *Result
	Stats     *Stats

	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	started    bool
	mu         sync.Mutex
	closeQueue sync.Once
	closeRes   sync.Once
}

// NewEngine creates a new engine bound to parent
func NewEngine(parent context.Context, r Requester, workers int, logger *zap.Logger) *Engine {
	ctx, cancel := context.WithCancel(parent)
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Buffer channels appropriately
	queueSize := workers * 10
	if queueSize < 100 {
		queueSize = 100
	}

	return &Engine{
		Requester: r,
		Workers:   workers,
		Queue:     make(chan *Job, queueSize),
		Results:   make(chan *Result, queueSize),
		Stats:     NewStats(),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches worker goroutines
func (e *Engine) Start() {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()

	for i := 0; i < e.Workers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
}

// Stop cancels outstanding work, waits for the workers and closes Results
func (e *Engine) Stop() {
	e.cancel()
	e.CloseQueue()
	e.WaitAndClose()
}

// Cancel immediately cancels all operations
func (e *Engine) Cancel() {
	e.cancel()
}

// Submit adds a job to the queue
func (e *Engine) Submit(job *Job) bool {
	if e.ctx.Err() != nil {
		return false
	}
	select {
	case <-e.ctx.Done():
		return false
	case e.Queue <- job:
		return true
	}
}

// CloseQueue closes the job queue (call after submitting all jobs)
func (e *Engine) CloseQueue() {
	e.closeQueue.Do(func() { close(e.Queue) })
}

// WaitAndClose waits for all workers to finish and closes the Results channel
// This should be called after CloseQueue() to properly signal completion
func (e *Engine) WaitAndClose() {
	e.wg.Wait()
	e.closeRes.Do(func() { close(e.Results) })
}

func (e *Engine) worker(id int) {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case job, ok := <-e.Queue:
			if !ok {
				return
			}
			result := e.processJob(job)

			select {
			case <-e.ctx.Done():
				return
			case e.Results <- result:
			}
		}
	}
}

func (e *Engine) processJob(job *Job) *Result {
	start := time.Now()

	resp, err := e.Requester.Request(e.ctx, job.Path, &client.Options{
		Method:  job.Method,
		Headers: job.Headers,
		Body:    job.Body,
	})

	e.Stats.IncrementTotal()

	if err != nil {
		e.Stats.IncrementFailed()
		e.logger.Warn("Request failed.", zap.String("job", job.ID), zap.String("path", job.Path), zap.Error(err))
		return &Result{
			Job:      job,
			Error:    err,
			Duration: time.Since(start),
		}
	}

	e.Stats.RecordStatus(resp.StatusCode)

	return &Result{
		Job:        job,
		StatusCode: resp.StatusCode,
		ContentLen: len(resp.Body()),
		Body:       resp.Text(),
		Duration:   time.Since(start),
	}
}
