package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RequestKind tags a message sent to the worker
type RequestKind string

// ResultKind tags a message sent back by the worker
type ResultKind string

const (
	KindRun RequestKind = "run"

	KindSuccess ResultKind = "success"
	KindError   ResultKind = "error"
)

// JobRequest asks the worker to run one planner configuration
type JobRequest struct {
	ID            string
	Kind          RequestKind
	Configuration PlannerConfig
}

// NewRunRequest creates a run request with a fresh ID
func NewRunRequest(cfg PlannerConfig) JobRequest {
	return JobRequest{ID: uuid.NewString(), Kind: KindRun, Configuration: cfg}
}

type jobRequestMessage struct {
	ID            string         `json:"id,omitempty"`
	Kind          RequestKind    `json:"kind"`
	Configuration map[string]any `json:"configuration"`
}

// MarshalJSON writes {id, kind, configuration} with the algorithm tag inside configuration
func (r JobRequest) MarshalJSON() ([]byte, error) {
	msg := jobRequestMessage{ID: r.ID, Kind: r.Kind}
	if r.Configuration != nil {
		cfg, err := EncodePlannerConfig(r.Configuration)
		if err != nil {
			return nil, err
		}
		msg.Configuration = cfg
	}
	return json.Marshal(msg)
}

func (r *JobRequest) UnmarshalJSON(data []byte) error {
	var msg jobRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to decode job request: %w", err)
	}
	r.ID = msg.ID
	r.Kind = msg.Kind
	r.Configuration = nil
	if msg.Configuration != nil {
		cfg, err := DecodePlannerConfig(msg.Configuration)
		if err != nil {
			return err
		}
		r.Configuration = cfg
	}
	return nil
}

// JobResult is either a success carrying a path (possibly empty) or an error
// carrying a message.
type JobResult struct {
	RequestID string
	Kind      ResultKind
	Path      Path
	Message   string
}

func successResult(requestID string, path Path) JobResult {
	if path == nil {
		path = Path{}
	}
	return JobResult{RequestID: requestID, Kind: KindSuccess, Path: path}
}

func errorResult(requestID string, err error) JobResult {
	msg := "Planning failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return JobResult{RequestID: requestID, Kind: KindError, Message: msg}
}

type successMessage struct {
	RequestID string     `json:"requestId,omitempty"`
	Kind      ResultKind `json:"kind"`
	Path      Path       `json:"path"`
}

type errorMessage struct {
	RequestID string     `json:"requestId,omitempty"`
	Kind      ResultKind `json:"kind"`
	Message   string     `json:"message"`
}

// MarshalJSON writes a path for success results and a message for errors
func (r JobResult) MarshalJSON() ([]byte, error) {
	if r.Kind == KindError {
		return json.Marshal(errorMessage{RequestID: r.RequestID, Kind: r.Kind, Message: r.Message})
	}
	path := r.Path
	if path == nil {
		path = Path{}
	}
	return json.Marshal(successMessage{RequestID: r.RequestID, Kind: r.Kind, Path: path})
}

func (r *JobResult) UnmarshalJSON(data []byte) error {
	var msg struct {
		RequestID string     `json:"requestId"`
		Kind      ResultKind `json:"kind"`
		Path      Path       `json:"path"`
		Message   string     `json:"message"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to decode job result: %w", err)
	}
	switch msg.Kind {
	case KindSuccess:
		*r = successResult(msg.RequestID, msg.Path)
	case KindError:
		*r = JobResult{RequestID: msg.RequestID, Kind: KindError, Message: msg.Message}
	default:
		return fmt.Errorf("unknown job result kind %q", msg.Kind)
	}
	return nil
}
