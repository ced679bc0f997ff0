package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	key := "contract-test-key-" + time.Now().Format("20060102150405")

	snap := &domain.Snapshot{
		Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleAssistant, Text: "Hello! How can I help?", Timestamp: time.Now().UTC().Truncate(time.Second)},
			{ID: "m2", Role: domain.RoleUser, Text: "show margins", Timestamp: time.Now().UTC().Truncate(time.Second)},
		},
		StepCounter: 2,
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, key, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Messages, 2)
		assert.Equal(t, "m1", loaded.Messages[0].ID)
		assert.Equal(t, domain.RoleUser, loaded.Messages[1].Role)
		assert.Equal(t, 2, loaded.StepCounter)
	})

	t.Run("Overwrite", func(t *testing.T) {
		next := snap.Clone()
		next.Messages = append(next.Messages, domain.Message{ID: "m3", Role: domain.RoleAssistant, Text: "Margins follow."})
		next.StepCounter = 3
		require.NoError(t, store.Save(ctx, key, next))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Len(t, loaded.Messages, 3)
		assert.Equal(t, 3, loaded.StepCounter)
	})

	t.Run("Directive round-trip", func(t *testing.T) {
		rich := &domain.Snapshot{
			Messages: []domain.Message{{
				ID:   "m-rich",
				Role: domain.RoleAssistant,
				Text: "Here is the breakdown.",
				Components: domain.DirectiveList{
					domain.ChartDirective{ChartKind: "bar", Title: "Margin by line", DataKey: "order-lines"},
					domain.InsightDirective{Severity: domain.SeverityWarning, Title: "Low margin", Body: "Line 3 is under 10%."},
				},
				Actions: []domain.Action{{Label: "Apply discount", TargetNode: "discount-confirm", Style: domain.ActionPrimary}},
			}},
		}
		require.NoError(t, store.Save(ctx, key+"-rich", rich))
		defer func() { _ = store.Delete(ctx, key+"-rich") }()

		loaded, err := store.Load(ctx, key+"-rich")
		require.NoError(t, err)
		require.Len(t, loaded.Messages[0].Components, 2)
		assert.Equal(t, domain.DirectiveChart, loaded.Messages[0].Components[0].Kind())
		assert.Equal(t, domain.DirectiveInsight, loaded.Messages[0].Components[1].Kind())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, snap))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		_ = store.Save(ctx, k1, snap)
		_ = store.Save(ctx, k2, snap)
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
