// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/classify"
	"github.com/pdiddy/paper-digest/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }
func testIntPtr(n int) *int       { return &n }

func samplePapers() []types.Paper {
	return []types.Paper{
		{
			Key:       "k1",
			ArxivID:   "2401.00001",
			Title:     "Score Models",
			Authors:   types.Authors{"Ada Lovelace", "Alan Turing"},
			Comment:   strPtr("criterion 1"),
			Relevance: testIntPtr(9),
			Novelty:   testIntPtr(7),
		},
		{
			Key:     "k2",
			ArxivID: "2401.00002",
			Title:   "Robust Nets",
			Authors: types.Authors{"Grace Hopper"},
		},
	}
}

func record(t *testing.T, store *Store, date time.Time, papers []types.Paper) int64 {
	t.Helper()
	groups, err := classify.Group(papers, 2, types.OverflowUnknown, io.Discard)
	require.NoError(t, err)
	id, err := store.Record(context.Background(), Run{
		DigestDate: date,
		CreatedAt:  date.Add(time.Hour),
		InputPath:  "out/output.json",
		OutputPath: "out/output.md",
	}, papers, groups)
	require.NoError(t, err)
	return id
}

func TestRecordAndEntries(t *testing.T) {
	store := testStore(t)
	date := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	id := record(t, store, date, samplePapers())

	entries, err := store.Entries(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, Entry{
		Position:  0,
		Key:       "k1",
		ArxivID:   "2401.00001",
		Title:     "Score Models",
		Authors:   []string{"Ada Lovelace", "Alan Turing"},
		Topic:     1,
		Relevance: testIntPtr(9),
		Novelty:   testIntPtr(7),
	}, entries[0])

	assert.Equal(t, 1, entries[1].Position)
	assert.Equal(t, classify.Unknown, entries[1].Topic)
	assert.Nil(t, entries[1].Relevance)
	assert.Nil(t, entries[1].Novelty)
}

func TestRuns(t *testing.T) {
	store := testStore(t)
	day1 := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	first := record(t, store, day1, samplePapers())
	second := record(t, store, day2, samplePapers()[:1])

	runs, err := store.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, "2024-01-06", runs[0].DigestDate.Format("2006-01-02"))
	assert.Equal(t, 1, runs[0].PaperCount)
	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, 2, runs[1].PaperCount)
	assert.Equal(t, "out/output.md", runs[1].OutputPath)
	assert.True(t, runs[1].CreatedAt.Equal(day1.Add(time.Hour)))

	limited, err := store.Runs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second, limited[0].ID)
}

func TestRunsCorruptDate(t *testing.T) {
	store := testStore(t)
	id := record(t, store, time.Now(), samplePapers())
	_, err := store.db.Exec(`UPDATE runs SET digest_date = 'not a date' WHERE id = ?`, id)
	require.NoError(t, err)

	_, err = store.Runs(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing digest date")
}

func TestRecordEmptyRun(t *testing.T) {
	store := testStore(t)
	id := record(t, store, time.Now(), nil)

	entries, err := store.Entries(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntriesUnknownRun(t *testing.T) {
	store := testStore(t)
	_, err := store.Entries(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestNewStoreReopens(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	record(t, store, time.Now(), samplePapers())
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
