package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Repository defines the concurrency-safe contract for accessing and mutating
// render job state.
type Repository interface {
	// Create stores a new job. Creating an existing ID returns ErrRenderExists.
	Create(ctx context.Context, job *Job) error

	// Get returns a copy of the job, or ErrRenderNotFound.
	Get(ctx context.Context, id RenderID) (*Job, error)

	// Update applies fn to the stored job and saves the result. UpdatedAt
	// is set after fn runs.
	Update(ctx context.Context, id RenderID, fn func(*Job)) error

	// ActiveCount returns the number of jobs not yet done or failed.
	// Used for metrics.
	ActiveCount(ctx context.Context) int
}

var (
	// ErrRenderNotFound is returned for an unknown render ID.
	ErrRenderNotFound = errors.New("render not found")

	// ErrRenderExists is returned when creating a job whose ID is taken.
	ErrRenderExists = errors.New("render already exists")

	// ErrRenderNotFinished is returned when asking for the video of a render
	// that has not reached the done stage.
	ErrRenderNotFinished = errors.New("render not finished")

	// ErrInvalidRequest is returned for a render request that cannot run.
	ErrInvalidRequest = errors.New("invalid render request")
)

// InMemoryRepository is a concurrency-safe implementation of Repository.
// It uses a Store for persistence; by default that is an InMemoryStore.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store Store
}

// NewInMemoryRepository constructs a new repository with a default in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return NewInMemoryRepositoryWithStore(NewInMemoryStore())
}

// NewInMemoryRepositoryWithStore constructs a repository that uses the given Store.
// Useful for testing or for plugging in a different persistence backend.
func NewInMemoryRepositoryWithStore(store Store) *InMemoryRepository {
	return &InMemoryRepository{store: store}
}

// Create implements Repository.Create.
func (r *InMemoryRepository) Create(ctx context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists, err := r.store.GetJob(ctx, job.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrRenderExists, job.ID)
	}

	stored := job.clone()
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	return r.store.SetJob(ctx, stored)
}

// Get implements Repository.Get.
func (r *InMemoryRepository) Get(ctx context.Context, id RenderID) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists, err := r.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRenderNotFound
	}
	// Hand out a copy to avoid exposing stored state.
	return job.clone(), nil
}

// Update implements Repository.Update.
func (r *InMemoryRepository) Update(ctx context.Context, id RenderID, fn func(*Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists, err := r.store.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRenderNotFound
	}

	updated := job.clone()
	fn(updated)
	updated.ID = id
	updated.UpdatedAt = time.Now().UTC()
	return r.store.SetJob(ctx, updated)
}

// ActiveCount implements Repository.ActiveCount.
func (r *InMemoryRepository) ActiveCount(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, err := r.store.ListJobIDs(ctx)
	if err != nil {
		return 0
	}
	n := 0
	for _, id := range ids {
		if job, ok, err := r.store.GetJob(ctx, id); err == nil && ok && !job.Stage.Terminal() {
			n++
		}
	}
	return n
}
