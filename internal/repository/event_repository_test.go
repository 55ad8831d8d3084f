package repository

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelog-labs/timeline-backend-go/internal/database"
	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db).RunMigrations())
	return db
}

func seedEvent(t *testing.T, repo *EventRepository, id string, meta models.EventMeta, start, end time.Time) {
	t.Helper()
	require.NoError(t, repo.Insert(models.TimelineEvent{
		ID:       id,
		UserID:   "u1",
		SourceID: "src:" + id,
		Title:    id,
		Start:    start,
		End:      end,
		Meta:     meta,
	}))
}

func TestListEventsPaginatesNewestFirst(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))
	base := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		seedEvent(t, repo, fmt.Sprintf("ev-%d", i),
			models.NewScreenTimeMeta("editor", "Editor"), start, start.Add(30*time.Minute))
	}

	page1, err := repo.ListEvents("u1", models.EventFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "ev-4", page1[0].ID)
	assert.Equal(t, "ev-3", page1[1].ID)

	page3, err := repo.ListEvents("u1", models.EventFilter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "ev-0", page3[0].ID)
}

func TestListEventsClampsPagination(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))
	base := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	seedEvent(t, repo, "ev-1", models.NewScreenTimeMeta("editor", "Editor"), base, base.Add(time.Hour))

	// Out-of-range values fall back to sane bounds instead of erroring
	// or returning the whole table unbounded.
	events, err := repo.ListEvents("u1", models.EventFilter{Page: -3, PageSize: -1})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = repo.ListEvents("u1", models.EventFilter{PageSize: 100000})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestListEventsFiltersBySourceAndKind(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))
	base := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	seedEvent(t, repo, "ev-screen", models.NewScreenTimeMeta("editor", "Editor"),
		base, base.Add(30*time.Minute))
	seedEvent(t, repo, "ev-loc", models.NewLocationBlockMeta(nil, ""),
		base.Add(time.Hour), base.Add(2*time.Hour))
	seedEvent(t, repo, "ev-commute", models.NewCommuteMeta(models.MovementDriving, 4000, nil),
		base.Add(2*time.Hour), base.Add(3*time.Hour))

	commutes, err := repo.ListEvents("u1", models.EventFilter{Kind: string(models.KindCommute)})
	require.NoError(t, err)
	require.Len(t, commutes, 1)
	assert.Equal(t, "ev-commute", commutes[0].ID)

	located, err := repo.ListEvents("u1", models.EventFilter{Source: string(models.SourceLocation)})
	require.NoError(t, err)
	assert.Len(t, located, 2)

	screens, err := repo.ListEvents("u1", models.EventFilter{
		Source: string(models.SourceScreenTime),
		Kind:   string(models.KindScreenTime),
	})
	require.NoError(t, err)
	require.Len(t, screens, 1)
	assert.Equal(t, "ev-screen", screens[0].ID)
}

func TestListEventsScopedToUser(t *testing.T) {
	repo := NewEventRepository(newTestDB(t))
	base := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	seedEvent(t, repo, "ev-1", models.NewScreenTimeMeta("editor", "Editor"), base, base.Add(time.Hour))

	events, err := repo.ListEvents("someone-else", models.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}
