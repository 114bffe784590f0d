package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	ids     []string
	listErr error
	failIDs map[string]bool
	deleted []string
}

func (f *fakeIndex) IndexedIDs(ctx context.Context) ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakeIndex) Delete(ctx context.Context, id string) error {
	if f.failIDs[id] {
		return errors.New("typesense unavailable")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestPruneStale_DeletesRowsGoneFromStore(t *testing.T) {
	index := &fakeIndex{ids: []string{"m-1", "m-2", "m-3", "m-4"}}
	seen := map[string]struct{}{"m-1": {}, "m-3": {}}

	pruned, err := pruneStale(context.Background(), index, seen)
	require.NoError(t, err)

	assert.Equal(t, 2, pruned)
	assert.Equal(t, []string{"m-2", "m-4"}, index.deleted)
}

func TestPruneStale_KeepsGoingPastDeleteFailures(t *testing.T) {
	index := &fakeIndex{
		ids:     []string{"gone-1", "gone-2"},
		failIDs: map[string]bool{"gone-1": true},
	}

	pruned, err := pruneStale(context.Background(), index, map[string]struct{}{})
	require.NoError(t, err)

	assert.Equal(t, 1, pruned)
	assert.Equal(t, []string{"gone-2"}, index.deleted)
}

func TestPruneStale_ListFailureDeletesNothing(t *testing.T) {
	index := &fakeIndex{ids: []string{"m-1"}, listErr: errors.New("timeout")}

	_, err := pruneStale(context.Background(), index, nil)
	assert.Error(t, err)
	assert.Empty(t, index.deleted)
}
