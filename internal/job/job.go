// Package job provides generation job management: an in-memory store,
// a FIFO queue drained by a single worker, and progress broadcasting to
// WebSocket subscribers.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/kyiku/aggpack/internal/config"
	"github.com/kyiku/aggpack/internal/group"
	"github.com/kyiku/aggpack/internal/model"
)

// Job states.
const (
	StateQueued   = "queued"
	StateRunning  = "running"
	StateDone     = "done"
	StateFailed   = "failed"
	StateCanceled = "canceled"
)

// Job is one generation request moving through the queue.
type Job struct {
	ID        string
	Scenario  *config.Scenario
	CreatedAt time.Time

	mu        sync.Mutex
	state     string
	result    *model.Result
	partition *group.Partition
	errMsg    string
	cancel    context.CancelFunc
	conns     []model.WebSocketConn
}

// State returns the current job state.
func (j *Job) State() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Snapshot returns the state plus the result and partition when the job
// has finished.
func (j *Job) Snapshot() (string, *model.Result, *group.Partition, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state, j.result, j.partition, j.errMsg
}

// SetRunning marks the job as running and stores its cancel function.
// It refuses when the job is no longer queued, so a cancel that landed
// just before the worker picked the job up sticks.
func (j *Job) SetRunning(cancel context.CancelFunc) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateQueued {
		return false
	}
	j.state = StateRunning
	j.cancel = cancel
	return true
}

// Finish stores the result and flips the job to done. A run the user
// canceled keeps its partial result but lands in the canceled state.
func (j *Job) Finish(res *model.Result, part *group.Partition) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.partition = part
	j.cancel = nil
	if res.Reason == model.ReasonCanceled {
		j.state = StateCanceled
	} else {
		j.state = StateDone
	}
}

// Fail records a failure message.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = StateFailed
	j.errMsg = msg
	j.cancel = nil
}

// SetPartition replaces the stored partition after a re-partition
// request.
func (j *Job) SetPartition(part *group.Partition) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.partition = part
}

// Cancel requests cooperative cancellation of a running job. Queued jobs
// flip straight to canceled.
func (j *Job) Cancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.state {
	case StateRunning:
		if j.cancel != nil {
			j.cancel()
		}
		return true
	case StateQueued:
		j.state = StateCanceled
		return true
	}
	return false
}

// Subscribe attaches a WebSocket connection for progress updates.
func (j *Job) Subscribe(conn model.WebSocketConn) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.conns = append(j.conns, conn)
}

// Unsubscribe detaches a connection.
func (j *Job) Unsubscribe(conn model.WebSocketConn) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, c := range j.conns {
		if c == conn {
			j.conns = append(j.conns[:i], j.conns[i+1:]...)
			return
		}
	}
}

// Broadcast sends a JSON message to every subscriber.
func (j *Job) Broadcast(v interface{}) {
	j.mu.Lock()
	conns := make([]model.WebSocketConn, len(j.conns))
	copy(conns, j.conns)
	j.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteJSON(v)
	}
}
