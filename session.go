package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrPlanningInProgress is returned while a job is outstanding.
var ErrPlanningInProgress = errors.New("planning already in progress")

// Status is a point-in-time view of the session
type Status struct {
	Planning   bool            `json:"planning"`
	PendingID  string          `json:"pendingId,omitempty"`
	Settings   PlannerSettings `json:"settings"`
	Waypoints  int             `json:"waypoints"`
	PathLength float64         `json:"pathLength"`
	LastResult *JobResult      `json:"lastResult,omitempty"`
}

// Session is the interactive side of the harness. It owns the worker handle,
// the planner settings, the in-flight flag and the latest path and frame.
// It never waits on planning: Plan posts a request and returns, and results
// are applied by a listener goroutine as they arrive.
type Session struct {
	scene      Scene
	newProblem ProblemFactory
	renderer   *Renderer
	worker     *Worker
	logger     *slog.Logger
	metrics    *Metrics

	canvasSize int

	mu        sync.Mutex
	settings  PlannerSettings
	inFlight  bool
	pendingID string
	path      Path
	last      *JobResult
	frame     []byte

	subscribers map[int]chan JobResult
	nextSubID   int

	done chan struct{}
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithLogger sets the structured logger for the session and its worker.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics records job and request metrics in m.
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithCanvasSize sets the rendered frame size in pixels (default 600).
func WithCanvasSize(size int) SessionOption {
	return func(s *Session) {
		s.canvasSize = size
	}
}

// WithPlannerSettings sets the initial planner settings.
func WithPlannerSettings(settings PlannerSettings) SessionOption {
	return func(s *Session) {
		s.settings = settings
	}
}

// WithProblemFactory replaces how each job's problem is built. The default
// builds it from the session scene.
func WithProblemFactory(newProblem ProblemFactory) SessionOption {
	return func(s *Session) {
		s.newProblem = newProblem
	}
}

// NewSession starts the worker and renders the initial frame.
// Close must be called to release the worker.
func NewSession(scene Scene, opts ...SessionOption) (*Session, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		scene:       scene,
		newProblem:  scene.NewProblem,
		canvasSize:  600,
		settings:    DefaultPlannerSettings(),
		path:        Path{},
		subscribers: make(map[int]chan JobResult),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = newNopLogger()
	}
	if s.canvasSize <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %d", s.canvasSize)
	}

	s.renderer = NewRenderer(scene, s.canvasSize)
	if err := s.redrawLocked(); err != nil {
		return nil, err
	}

	s.worker = StartWorker(s.newProblem,
		WithWorkerLogger(s.logger.With("component", "worker")),
		WithWorkerMetrics(s.metrics),
	)
	go s.listen()

	return s, nil
}

// Close stops the worker and ends all subscriptions.
func (s *Session) Close() {
	s.worker.Close()
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
}

// Plan sends the current settings to the worker and returns the request ID.
// It fails with ErrPlanningInProgress while a previous job is outstanding.
func (s *Session) Plan() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		s.metrics.Rejected()
		return "", ErrPlanningInProgress
	}

	req := NewRunRequest(s.settings.Variant())
	if err := s.worker.Post(req); err != nil {
		return "", fmt.Errorf("failed to post job: %w", err)
	}

	s.inFlight = true
	s.pendingID = req.ID
	s.metrics.SetInFlight(true)
	s.path = Path{}
	if err := s.redrawLocked(); err != nil {
		s.logger.Warn("failed to redraw frame", "error", err)
	}

	s.logger.Info("plan requested", "job_id", req.ID, "algorithm", req.Configuration.Algorithm())
	return req.ID, nil
}

// Settings returns a copy of the current planner settings
func (s *Session) Settings() PlannerSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the planner settings. Settings are frozen while a
// job is in flight.
func (s *Session) UpdateSettings(settings PlannerSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return ErrPlanningInProgress
	}
	s.settings = settings
	return nil
}

// Status returns the current planning state
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Planning:   s.inFlight,
		PendingID:  s.pendingID,
		Settings:   s.settings,
		Waypoints:  len(s.path),
		PathLength: s.path.Length(),
	}
	if s.last != nil {
		last := *s.last
		st.LastResult = &last
	}
	return st
}

// Path returns the latest path
func (s *Session) Path() Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Path, len(s.path))
	copy(out, s.path)
	return out
}

// Frame returns the PNG frame for the latest path
func (s *Session) Frame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Subscribe returns a channel receiving every job result from now on and a
// function to cancel the subscription. Slow subscribers miss results.
func (s *Session) Subscribe() (<-chan JobResult, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan JobResult, 4)
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			close(sub)
			delete(s.subscribers, id)
		}
	}
}

func (s *Session) listen() {
	defer close(s.done)
	for result := range s.worker.Results() {
		s.handleResult(result)
	}
}

func (s *Session) handleResult(result JobResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.RequestID != s.pendingID {
		s.logger.Warn("result does not match pending request",
			"job_id", result.RequestID, "pending", s.pendingID)
	}

	s.inFlight = false
	s.pendingID = ""
	s.metrics.SetInFlight(false)
	s.last = &result

	switch result.Kind {
	case KindSuccess:
		s.path = result.Path
		if err := s.redrawLocked(); err != nil {
			s.logger.Warn("failed to redraw frame", "error", err)
		}
	case KindError:
		s.logger.Warn("planning failed", "job_id", result.RequestID, "message", result.Message)
	}

	for _, ch := range s.subscribers {
		select {
		case ch <- result:
		default:
		}
	}
}

// redrawLocked re-renders the full frame for s.path. Callers hold s.mu.
func (s *Session) redrawLocked() error {
	frame, err := s.renderer.RenderPNG(s.path)
	if err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}
	s.frame = frame
	return nil
}
