package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/coverage-area/internal/core/usecases"
)

func TestSyncService_Sync(t *testing.T) {
	store := &mockStore{}
	svc := usecases.NewSyncService(usecases.NewAggregateService(aggregateEntities(), "data"), store)

	n, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(store.upserted) != 2 {
		t.Errorf("expected 2 features synced, got %d (%d stored)", n, len(store.upserted))
	}
	if store.upserted[0].Name != "de-db-anyCoverage" {
		t.Errorf("unexpected first feature %q", store.upserted[0].Name)
	}
}

func TestSyncService_StoreError(t *testing.T) {
	store := &mockStore{err: errors.New("connection refused")}
	svc := usecases.NewSyncService(usecases.NewAggregateService(aggregateEntities(), "data"), store)
	if _, err := svc.Sync(context.Background()); err == nil {
		t.Error("expected store error")
	}
}
