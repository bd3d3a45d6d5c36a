package job

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kyiku/aggpack/internal/config"
)

// Store keeps jobs in memory, keyed by ID. Jobs older than the TTL are
// dropped lazily on access.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	ttl  time.Duration
	now  func() time.Time
}

// NewStore returns a store whose jobs expire after ttl. A zero ttl
// disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		jobs: make(map[string]*Job),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create registers a new queued job for the scenario and returns it.
func (s *Store) Create(sc *config.Scenario) *Job {
	j := &Job{
		ID:        uuid.New().String(),
		Scenario:  sc,
		CreatedAt: s.now(),
		state:     StateQueued,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	return j
}

// Get looks up a job by ID.
func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	j, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(j) {
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
		return nil, false
	}
	return j, true
}

// Delete removes a job.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

// Len reports the number of live jobs, sweeping expired ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		if s.expired(j) {
			delete(s.jobs, id)
		}
	}
	return len(s.jobs)
}

func (s *Store) expired(j *Job) bool {
	return s.ttl > 0 && s.now().Sub(j.CreatedAt) > s.ttl
}
