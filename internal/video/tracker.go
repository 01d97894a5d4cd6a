// Package video tracks asynchronous avatar-video render jobs in memory.
//
// The tracker decouples the request that starts a render from the polling
// loop that may run for minutes. Entries live for the process lifetime and
// are lost on restart; persistence is deliberately out of scope.
package video

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status of a render job. Transitions are one-directional:
// pending -> processing -> completed | failed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is a read-only snapshot of one render job.
type Job struct {
	ID       string `json:"job_id"`
	Status   Status `json:"status"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Renderer produces a video URL from a script, blocking until the render
// reaches a terminal state.
type Renderer interface {
	Generate(ctx context.Context, script, language string) (string, error)
}

// Tracker is the in-memory job registry. Each entry is written by exactly
// one background task; the mutex guards map access and snapshot reads.
type Tracker struct {
	renderer Renderer
	logger   *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewTracker(renderer Renderer, logger *zap.Logger) *Tracker {
	return &Tracker{
		renderer: renderer,
		logger:   logger,
		jobs:     make(map[string]*Job),
	}
}

// Create registers a fresh pending job and returns its identifier.
func (t *Tracker) Create() string {
	id := uuid.NewString()

	t.mu.Lock()
	t.jobs[id] = &Job{ID: id, Status: StatusPending}
	t.mu.Unlock()

	return id
}

// Start registers a job and launches its render in the background. The
// caller gets the job id back immediately; nothing holds a reference to the
// running task and it cannot be canceled once started.
func (t *Tracker) Start(ctx context.Context, script, language string) string {
	id := t.Create()

	go t.Run(ctx, id, script, language)

	return id
}

// Run executes the render for the given job and records the terminal state.
// Exported so tests can drive it synchronously.
func (t *Tracker) Run(ctx context.Context, id, script, language string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("video render task panicked", zap.String("job_id", id), zap.Any("panic", r))
			t.fail(id, fmt.Sprintf("video generation failed: %v", r))
		}
	}()

	t.setStatus(id, StatusProcessing)

	videoURL, err := t.renderer.Generate(ctx, script, language)
	if err != nil {
		// The triggering request has long returned; the error is only
		// surfaced through the job status.
		t.logger.Warn("video render failed", zap.String("job_id", id), zap.Error(err))
		t.fail(id, err.Error())
		return
	}

	t.complete(id, videoURL)
	t.logger.Info("video render completed", zap.String("job_id", id), zap.String("video_url", videoURL))
}

// Get returns a snapshot of the job. Unknown identifiers are a normal case
// and reported through the boolean, never as an error.
func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[id]
	if !ok {
		return Job{}, false
	}

	return *job, true
}

func (t *Tracker) setStatus(id string, status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = status
}

func (t *Tracker) complete(id, videoURL string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = StatusCompleted
	job.VideoURL = videoURL
}

func (t *Tracker) fail(id, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = StatusFailed
	job.Error = reason
}
