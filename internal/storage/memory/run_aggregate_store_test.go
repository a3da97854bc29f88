package memory

import (
	"context"
	"errors"
	"testing"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

func TestRunAggregateStore_InsertAndGet(t *testing.T) {
	store := NewRunAggregateStore()
	ctx := context.Background()

	a := &domain.RunAggregate{
		RunID:      "run1",
		ScenarioID: "baseline",
		Days:       365,
		FinalPrice: 0.12,
	}

	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if got.FinalPrice != a.FinalPrice {
		t.Errorf("FinalPrice mismatch: got %f, want %f", got.FinalPrice, a.FinalPrice)
	}
}

func TestRunAggregateStore_DuplicateKey(t *testing.T) {
	store := NewRunAggregateStore()
	ctx := context.Background()

	a := &domain.RunAggregate{RunID: "run1", ScenarioID: "baseline"}
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, a)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunAggregateStore_NotFound(t *testing.T) {
	store := NewRunAggregateStore()
	ctx := context.Background()

	_, err := store.GetByRunID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunAggregateStore_GetByScenario(t *testing.T) {
	store := NewRunAggregateStore()
	ctx := context.Background()

	aggs := []*domain.RunAggregate{
		{RunID: "run2", ScenarioID: "baseline"},
		{RunID: "run1", ScenarioID: "baseline"},
		{RunID: "run3", ScenarioID: "conservative"},
	}
	for _, a := range aggs {
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert %s failed: %v", a.RunID, err)
		}
	}

	got, err := store.GetByScenario(ctx, "baseline")
	if err != nil {
		t.Fatalf("GetByScenario failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 aggregates, got %d", len(got))
	}
	if got[0].RunID != "run1" || got[1].RunID != "run2" {
		t.Errorf("Wrong order: got %s, %s", got[0].RunID, got[1].RunID)
	}
}
