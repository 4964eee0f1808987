package orchestrator

import "context"

// Store is the persistence abstraction for render jobs.
// Implementations can be in-memory or remote (see RedisStore).
// The Repository uses Store for all reads and writes; callers of Repository
// do not need to know which Store is used.
type Store interface {
	GetJob(ctx context.Context, id RenderID) (*Job, bool, error)
	SetJob(ctx context.Context, job *Job) error
	ListJobIDs(ctx context.Context) ([]RenderID, error)
}

// InMemoryStore is an in-memory implementation of Store. It is not safe for
// concurrent use on its own; the Repository serializes access.
type InMemoryStore struct {
	jobs map[RenderID]*Job
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		jobs: make(map[RenderID]*Job),
	}
}

// GetJob implements Store.GetJob.
func (s *InMemoryStore) GetJob(_ context.Context, id RenderID) (*Job, bool, error) {
	job, ok := s.jobs[id]
	return job, ok, nil
}

// SetJob implements Store.SetJob.
func (s *InMemoryStore) SetJob(_ context.Context, job *Job) error {
	s.jobs[job.ID] = job
	return nil
}

// ListJobIDs implements Store.ListJobIDs.
func (s *InMemoryStore) ListJobIDs(context.Context) ([]RenderID, error) {
	ids := make([]RenderID, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids, nil
}
