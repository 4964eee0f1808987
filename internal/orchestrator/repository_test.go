package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lecture-studio/internal/lecture"
)

func TestInMemoryRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	t.Run("success", func(t *testing.T) {
		if err := repo.Create(ctx, &Job{ID: "r1", Title: "Optics", Stage: lecture.StageQueued}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := repo.Get(ctx, "r1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Title != "Optics" || got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
			t.Errorf("unexpected job %+v", got)
		}
	})

	t.Run("duplicate_rejected", func(t *testing.T) {
		err := repo.Create(ctx, &Job{ID: "r1"})
		if !errors.Is(err, ErrRenderExists) {
			t.Errorf("expected ErrRenderExists, got %v", err)
		}
	})
}

func TestInMemoryRepository_Get_not_found(t *testing.T) {
	_, err := NewInMemoryRepository().Get(context.Background(), "missing")
	if !errors.Is(err, ErrRenderNotFound) {
		t.Errorf("expected ErrRenderNotFound, got %v", err)
	}
}

func TestInMemoryRepository_Get_returns_copy(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_ = repo.Create(ctx, &Job{ID: "r1", Segments: []lecture.Segment{{Text: "a"}}})

	got, _ := repo.Get(ctx, "r1")
	got.Title = "changed"
	got.Segments[0].Text = "changed"

	again, _ := repo.Get(ctx, "r1")
	if again.Title == "changed" || again.Segments[0].Text == "changed" {
		t.Error("mutating a returned job must not change stored state")
	}
}

func TestInMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_ = repo.Create(ctx, &Job{ID: "r1", Stage: lecture.StageQueued})
	before, _ := repo.Get(ctx, "r1")

	err := repo.Update(ctx, "r1", func(j *Job) {
		j.Stage = lecture.StageRendered
		j.ID = "hijacked"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.Get(ctx, "r1")
	if got.Stage != lecture.StageRendered {
		t.Errorf("stage = %s", got.Stage)
	}
	if got.UpdatedAt.Before(before.UpdatedAt) {
		t.Error("UpdatedAt should advance")
	}
	if _, err := repo.Get(ctx, "hijacked"); !errors.Is(err, ErrRenderNotFound) {
		t.Error("Update must not change the job ID")
	}

	if err := repo.Update(ctx, "missing", func(*Job) {}); !errors.Is(err, ErrRenderNotFound) {
		t.Errorf("expected ErrRenderNotFound, got %v", err)
	}
}

func TestInMemoryRepository_ActiveCount(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_ = repo.Create(ctx, &Job{ID: "a", Stage: lecture.StageQueued})
	_ = repo.Create(ctx, &Job{ID: "b", Stage: lecture.StageRendered})
	_ = repo.Create(ctx, &Job{ID: "c", Stage: lecture.StageDone})
	_ = repo.Create(ctx, &Job{ID: "d", Stage: lecture.StageFailed})

	if n := repo.ActiveCount(ctx); n != 2 {
		t.Errorf("ActiveCount = %d, want 2", n)
	}
}

func TestInMemoryRepository_concurrent_updates(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_ = repo.Create(ctx, &Job{ID: "r1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Update(ctx, "r1", func(j *Job) { j.FallbackVisuals++ })
			_, _ = repo.Get(ctx, "r1")
		}()
	}
	wg.Wait()

	got, _ := repo.Get(ctx, "r1")
	if got.FallbackVisuals != 50 {
		t.Errorf("lost updates: %d", got.FallbackVisuals)
	}
}
