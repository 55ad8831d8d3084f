package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/database"
	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

// EventRepository handles database operations for timeline events
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, user_id, source_id, title, start_time, end_time, meta, locked_at`

// ListWindow retrieves events overlapping a time window in start order
func (r *EventRepository) ListWindow(userID string, start, end time.Time) ([]models.TimelineEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM timeline_events
		WHERE user_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`

	rows, err := r.db.Query(query, userID, end.Unix(), start.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline events: %w", err)
	}
	defer rows.Close()

	var events []models.TimelineEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

// ListEvents retrieves events with filtering and pagination, newest
// first
func (r *EventRepository) ListEvents(userID string, filter models.EventFilter) ([]models.TimelineEvent, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.StartTime > 0 {
		conditions = append(conditions, "end_time > ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "start_time < ?")
		args = append(args, filter.EndTime)
	}
	// Source and kind live inside the meta JSON column
	if filter.Source != "" {
		conditions = append(conditions, "json_extract(meta, '$.source') = ?")
		args = append(args, filter.Source)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "json_extract(meta, '$.kind') = ?")
		args = append(args, filter.Kind)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := `SELECT ` + eventColumns + ` FROM timeline_events
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY start_time DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline events: %w", err)
	}
	defer rows.Close()

	var events []models.TimelineEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

// GetByID retrieves a single event
func (r *EventRepository) GetByID(userID, eventID string) (*models.TimelineEvent, error) {
	row := r.db.QueryRow(`SELECT `+eventColumns+` FROM timeline_events
		WHERE user_id = ? AND id = ?`, userID, eventID)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Insert persists a single event
func (r *EventRepository) Insert(e models.TimelineEvent) error {
	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal event meta: %w", err)
	}

	var lockedAt interface{}
	if e.LockedAt != nil {
		lockedAt = e.LockedAt.Unix()
	}

	_, err = r.db.Exec(`INSERT INTO timeline_events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.SourceID, e.Title, e.Start.Unix(), e.End.Unix(),
		string(meta), lockedAt)
	if err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	return nil
}

// SetLock sets or clears an event's lock timestamp
func (r *EventRepository) SetLock(userID, eventID string, lockedAt *time.Time) error {
	var value interface{}
	if lockedAt != nil {
		value = lockedAt.Unix()
	}

	result, err := r.db.Exec(`UPDATE timeline_events SET locked_at = ?
		WHERE user_id = ? AND id = ?`, value, userID, eventID)
	if err != nil {
		return fmt.Errorf("failed to update event lock: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyOps applies one reconciliation run's operations in a single
// transaction, so a failed run never leaves the timeline half-changed
func (r *EventRepository) ApplyOps(ops models.ReconciliationOps) error {
	if ops.Empty() {
		return nil
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, e := range ops.Inserts {
			meta, err := json.Marshal(e.Meta)
			if err != nil {
				return fmt.Errorf("failed to marshal event meta: %w", err)
			}
			_, err = tx.Exec(`INSERT INTO timeline_events
				(id, user_id, source_id, title, start_time, end_time, meta, locked_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
				e.ID, e.UserID, e.SourceID, e.Title, e.Start.Unix(), e.End.Unix(), string(meta))
			if err != nil {
				return fmt.Errorf("failed to insert timeline event: %w", err)
			}
		}

		for _, u := range ops.Updates {
			_, err := tx.Exec(`UPDATE timeline_events SET start_time = ?, end_time = ?
				WHERE id = ? AND locked_at IS NULL`,
				u.Start.Unix(), u.End.Unix(), u.EventID)
			if err != nil {
				return fmt.Errorf("failed to update timeline event: %w", err)
			}
		}

		for _, ext := range ops.Extensions {
			_, err := tx.Exec(`UPDATE timeline_events SET end_time = ?
				WHERE id = ? AND locked_at IS NULL`,
				ext.NewEnd.Unix(), ext.EventID)
			if err != nil {
				return fmt.Errorf("failed to extend timeline event: %w", err)
			}
		}

		for _, id := range ops.Deletes {
			_, err := tx.Exec(`DELETE FROM timeline_events
				WHERE id = ? AND locked_at IS NULL`, id)
			if err != nil {
				return fmt.Errorf("failed to delete timeline event: %w", err)
			}
		}

		return nil
	})
}

func scanEvent(row rowScanner) (*models.TimelineEvent, error) {
	var e models.TimelineEvent
	var startTS, endTS int64
	var meta string
	var lockedAt sql.NullInt64

	err := row.Scan(&e.ID, &e.UserID, &e.SourceID, &e.Title, &startTS, &endTS, &meta, &lockedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan timeline event: %w", err)
	}

	e.Start = time.Unix(startTS, 0).UTC()
	e.End = time.Unix(endTS, 0).UTC()
	if lockedAt.Valid {
		t := time.Unix(lockedAt.Int64, 0).UTC()
		e.LockedAt = &t
	}
	if err := json.Unmarshal([]byte(meta), &e.Meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event meta: %w", err)
	}

	return &e, nil
}
