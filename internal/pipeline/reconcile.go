package pipeline

import (
	"context"
	"fmt"
	"sort"
)

// Metrics summarises one reconciliation pass for a single record type.
type Metrics struct {
	TotalProcessed int      `json:"totalProcessed"`
	NewIDs         []string `json:"newIds"`
	ExistingIDs    []string `json:"existingIds"`
}

// Target is a domain service seen through its reconciliation contract: one
// batched existence check plus bulk create and update.
type Target[T any] interface {
	CheckExisting(ctx context.Context, ids []string) ([]string, error)
	Create(ctx context.Context, records []T) error
	Update(ctx context.Context, records []T) error
}

// Reconcile partitions the batch by existence and pushes each half to the
// target. An empty batch returns zero metrics without touching the target.
// When both the create and the update sides fail, both errors are reported.
func Reconcile[T any](ctx context.Context, entities map[string]T, target Target[T]) (Metrics, error) {
	m := Metrics{NewIDs: []string{}, ExistingIDs: []string{}}
	if len(entities) == 0 {
		return m, nil
	}

	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	existing, err := target.CheckExisting(ctx, ids)
	if err != nil {
		return m, fmt.Errorf("existence check: %w", err)
	}
	existingSet := make(map[string]bool, len(existing))
	for _, id := range existing {
		existingSet[id] = true
	}

	var toCreate, toUpdate []T
	for _, id := range ids {
		if existingSet[id] {
			m.ExistingIDs = append(m.ExistingIDs, id)
			toUpdate = append(toUpdate, entities[id])
		} else {
			m.NewIDs = append(m.NewIDs, id)
			toCreate = append(toCreate, entities[id])
		}
	}
	m.TotalProcessed = len(ids)

	// Best effort: an update failure must not mask records already created,
	// so both halves run and errors accumulate.
	var createErr, updateErr error
	if len(toCreate) > 0 {
		if err := target.Create(ctx, toCreate); err != nil {
			createErr = fmt.Errorf("create batch: %w", err)
		}
	}
	if len(toUpdate) > 0 {
		if err := target.Update(ctx, toUpdate); err != nil {
			updateErr = fmt.Errorf("update batch: %w", err)
		}
	}
	if createErr != nil && updateErr != nil {
		return m, fmt.Errorf("%w; %w", createErr, updateErr)
	}
	if createErr != nil {
		return m, createErr
	}
	return m, updateErr
}
