package job

import (
	"context"
	"sync"
	"time"

	"github.com/kyiku/aggpack/internal/generator"
	"github.com/kyiku/aggpack/internal/group"
)

// Queue is a bounded FIFO of job IDs waiting to run.
type Queue struct {
	mu   sync.Mutex
	ids  []string
	max  int
	wake chan struct{}
}

// NewQueue returns a queue holding at most max jobs.
func NewQueue(max int) *Queue {
	return &Queue{
		max:  max,
		wake: make(chan struct{}, 1),
	}
}

// Enqueue appends a job ID. It returns false when the queue is full.
func (q *Queue) Enqueue(id string) bool {
	q.mu.Lock()
	if len(q.ids) >= q.max {
		q.mu.Unlock()
		return false
	}
	q.ids = append(q.ids, id)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Pop removes and returns the oldest job ID, or "" when empty.
func (q *Queue) Pop() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ids) == 0 {
		return ""
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id
}

// Len reports the number of waiting jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// Position returns the 1-based queue position of a job, or 0 when the
// job is not waiting.
func (q *Queue) Position(id string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, v := range q.ids {
		if v == id {
			return i + 1
		}
	}
	return 0
}

// ProgressMessage is pushed to subscribers while a job runs.
type ProgressMessage struct {
	Type     string  `json:"type"`
	JobID    string  `json:"job_id"`
	Accepted int     `json:"accepted"`
	Attempts int     `json:"attempts"`
	Porosity float64 `json:"porosity"`
}

// DoneMessage is pushed once when a job leaves the running state.
type DoneMessage struct {
	Type   string `json:"type"`
	JobID  string `json:"job_id"`
	State  string `json:"state"`
	Status string `json:"status,omitempty"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// progressStride limits how often progress updates go out.
const progressStride = 25

// Worker drains the queue one job at a time. Generation runs stay
// single-threaded, so results are reproducible for a given seed.
type Worker struct {
	store *Store
	queue *Queue
}

// NewWorker returns a worker over the given store and queue.
func NewWorker(store *Store, queue *Queue) *Worker {
	return &Worker{store: store, queue: queue}
}

// Run processes jobs until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	for {
		id := w.queue.Pop()
		if id == "" {
			select {
			case <-ctx.Done():
				return
			case <-w.queue.wake:
			case <-time.After(time.Second):
			}
			continue
		}

		j, ok := w.store.Get(id)
		if !ok || j.State() != StateQueued {
			continue
		}
		w.runJob(ctx, j)
	}
}

func (w *Worker) runJob(ctx context.Context, j *Job) {
	sc := j.Scenario

	var lastSent int
	gen, err := generator.New(sc, generator.WithProgress(func(p generator.Progress) {
		if p.Attempts-lastSent < progressStride {
			return
		}
		lastSent = p.Attempts
		j.Broadcast(ProgressMessage{
			Type:     "progress",
			JobID:    j.ID,
			Accepted: p.Accepted,
			Attempts: p.Attempts,
			Porosity: p.Porosity,
		})
	}))
	if err != nil {
		j.Fail(err.Error())
		j.Broadcast(DoneMessage{Type: "done", JobID: j.ID, State: StateFailed, Error: err.Error()})
		return
	}

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !j.SetRunning(cancel) {
		return
	}

	res := gen.Generate(jobCtx)
	part := group.Compute(res.Aggregate, sc.AdjacencyThreshold)
	j.Finish(res, part)

	j.Broadcast(DoneMessage{
		Type:   "done",
		JobID:  j.ID,
		State:  j.State(),
		Status: res.Status,
		Reason: res.Reason,
	})
}
