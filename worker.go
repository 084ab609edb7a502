package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrWorkerBusy is returned by Post when a request is already waiting.
	ErrWorkerBusy = errors.New("worker mailbox is full")
	// ErrWorkerClosed is returned by Post after Close.
	ErrWorkerClosed = errors.New("worker is closed")
)

// ProblemFactory builds the problem for one job
type ProblemFactory func() (*Problem, error)

// Worker runs planning jobs one at a time on its own goroutine.
// Requests go in through Post, results come out of Results; there is exactly
// one result per processed request.
type Worker struct {
	newProblem ProblemFactory
	logger     *slog.Logger
	metrics    *Metrics

	requests chan JobRequest
	results  chan JobResult

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// WorkerOption configures a Worker
type WorkerOption func(*Worker)

// WithWorkerLogger sets the worker's structured logger.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithWorkerMetrics records job outcomes in m.
func WithWorkerMetrics(m *Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

// StartWorker launches the worker goroutine. Close must be called to release it.
func StartWorker(newProblem ProblemFactory, opts ...WorkerOption) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		newProblem: newProblem,
		requests:   make(chan JobRequest, 1),
		results:    make(chan JobResult, 2),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = newNopLogger()
	}

	go w.loop()
	return w
}

// Post hands a request to the worker without waiting for it to run.
// The mailbox holds a single pending request; callers are expected to wait
// for the previous result before posting again.
func (w *Worker) Post(req JobRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkerClosed
	}

	select {
	case w.requests <- req:
		return nil
	default:
		return ErrWorkerBusy
	}
}

// Results delivers job results. It is closed once the worker has stopped.
func (w *Worker) Results() <-chan JobResult {
	return w.results
}

// Close stops the worker and waits for its goroutine to exit. A solve in
// progress is cut short and its result dropped.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	<-w.done
}

func (w *Worker) loop() {
	defer close(w.done)
	defer close(w.results)

	for {
		select {
		case <-w.ctx.Done():
			return
		case req := <-w.requests:
			result := w.process(req)
			select {
			case w.results <- result:
			case <-w.ctx.Done():
				return
			}
		}
	}
}

// process never lets a failure escape: errors and panics become error results
func (w *Worker) process(req JobRequest) (result JobResult) {
	algorithm := Algorithm("")
	if req.Configuration != nil {
		algorithm = req.Configuration.Algorithm()
	}
	logger := w.logger.With("job_id", req.ID, "algorithm", algorithm)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("planner panicked", "panic", r)
			result = errorResult(req.ID, fmt.Errorf("planner panicked: %v", r))
		}
		w.metrics.ObserveJob(algorithm, result, time.Since(started))
	}()

	if req.Kind != KindRun {
		logger.Warn("unsupported request kind", "kind", req.Kind)
		return errorResult(req.ID, fmt.Errorf("unsupported request kind %q", req.Kind))
	}

	logger.Info("job received")
	path, err := w.run(req, logger)
	if err != nil {
		logger.Error("job failed", "error", err, "elapsed", time.Since(started))
		return errorResult(req.ID, err)
	}

	if len(path) == 0 {
		logger.Info("no solution found", "elapsed", time.Since(started))
	} else {
		logger.Info("path found",
			"waypoints", len(path),
			"length", path.Length(),
			"elapsed", time.Since(started),
		)
	}
	return successResult(req.ID, path)
}

func (w *Worker) run(req JobRequest, logger *slog.Logger) (Path, error) {
	problem, err := w.newProblem()
	if err != nil {
		return nil, fmt.Errorf("failed to build problem: %w", err)
	}

	planner, err := NewPlanner(req.Configuration)
	if err != nil {
		return nil, err
	}

	definition := ProblemDefinition{Space: problem.World, Start: problem.Start, Goal: problem.Goal}
	if err := planner.Setup(definition, problem.IsValid); err != nil {
		return nil, fmt.Errorf("planner setup failed: %w", err)
	}

	timeout := req.Configuration.Timeout()
	ctx, cancel := context.WithTimeout(w.ctx, timeout)
	defer cancel()

	if req.Configuration.Algorithm() == AlgorithmPRM {
		prm, ok := planner.(*PRMPlanner)
		if !ok {
			return nil, fmt.Errorf("PRM configuration produced %T", planner)
		}
		started := time.Now()
		if err := prm.ConstructRoadmap(ctx); err != nil {
			return nil, fmt.Errorf("roadmap construction failed: %w", err)
		}
		nodes, edges := prm.RoadmapSize()
		logger.Debug("roadmap constructed", "nodes", nodes, "edges", edges, "elapsed", time.Since(started))
	}

	path, err := planner.Solve(ctx, timeout)
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}
	return path, nil
}
