package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

// EvidenceRepository handles database operations for raw evidence
// (location samples, screen sessions, health workouts, user places)
type EvidenceRepository struct {
	db *sql.DB
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *sql.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// GetSamples retrieves location samples for a user within a time window,
// ordered by timestamp
func (r *EvidenceRepository) GetSamples(userID string, start, end time.Time) ([]models.LocationSample, error) {
	query := `SELECT id, user_id, timestamp, latitude, longitude, provider, activity, battery, mocked
		FROM location_samples
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp`

	rows, err := r.db.Query(query, userID, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query location samples: %w", err)
	}
	defer rows.Close()

	var samples []models.LocationSample
	for rows.Next() {
		var s models.LocationSample
		var ts int64
		var mocked int
		err := rows.Scan(&s.ID, &s.UserID, &ts, &s.Latitude, &s.Longitude,
			&s.Provider, &s.Activity, &s.Battery, &mocked)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location sample: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0).UTC()
		s.Mocked = mocked != 0
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// InsertSamples bulk inserts location samples in a single transaction
func (r *EvidenceRepository) InsertSamples(samples []models.LocationSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO location_samples
		(user_id, timestamp, latitude, longitude, provider, activity, battery, mocked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		mocked := 0
		if s.Mocked {
			mocked = 1
		}
		if _, err := stmt.Exec(s.UserID, s.Timestamp.Unix(), s.Latitude, s.Longitude,
			s.Provider, s.Activity, s.Battery, mocked); err != nil {
			return fmt.Errorf("failed to insert location sample: %w", err)
		}
	}

	return tx.Commit()
}

// GetScreenSessions retrieves screen sessions overlapping a time window,
// ordered by start time. Sessions that merely touch the window bounds
// are included; the caller clips them.
func (r *EvidenceRepository) GetScreenSessions(userID string, start, end time.Time) ([]models.ScreenSession, error) {
	query := `SELECT id, user_id, app_id, display_name, start_time, end_time
		FROM screen_sessions
		WHERE user_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`

	rows, err := r.db.Query(query, userID, end.Unix(), start.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query screen sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ScreenSession
	for rows.Next() {
		var s models.ScreenSession
		var startTS, endTS int64
		if err := rows.Scan(&s.ID, &s.UserID, &s.AppID, &s.DisplayName, &startTS, &endTS); err != nil {
			return nil, fmt.Errorf("failed to scan screen session: %w", err)
		}
		s.Start = time.Unix(startTS, 0).UTC()
		s.End = time.Unix(endTS, 0).UTC()
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// InsertScreenSessions bulk inserts screen sessions in a single transaction
func (r *EvidenceRepository) InsertScreenSessions(sessions []models.ScreenSession) error {
	if len(sessions) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO screen_sessions
		(user_id, app_id, display_name, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sessions {
		if _, err := stmt.Exec(s.UserID, s.AppID, s.DisplayName, s.Start.Unix(), s.End.Unix()); err != nil {
			return fmt.Errorf("failed to insert screen session: %w", err)
		}
	}

	return tx.Commit()
}

// GetWorkouts retrieves health workouts overlapping a time window
func (r *EvidenceRepository) GetWorkouts(userID string, start, end time.Time) ([]models.HealthWorkout, error) {
	query := `SELECT id, user_id, activity_type, start_time, end_time
		FROM health_workouts
		WHERE user_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`

	rows, err := r.db.Query(query, userID, end.Unix(), start.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query health workouts: %w", err)
	}
	defer rows.Close()

	var workouts []models.HealthWorkout
	for rows.Next() {
		var w models.HealthWorkout
		var startTS, endTS int64
		if err := rows.Scan(&w.ID, &w.UserID, &w.ActivityType, &startTS, &endTS); err != nil {
			return nil, fmt.Errorf("failed to scan health workout: %w", err)
		}
		w.Start = time.Unix(startTS, 0).UTC()
		w.End = time.Unix(endTS, 0).UTC()
		workouts = append(workouts, w)
	}

	return workouts, rows.Err()
}

// InsertWorkouts bulk inserts health workouts in a single transaction
func (r *EvidenceRepository) InsertWorkouts(workouts []models.HealthWorkout) error {
	if len(workouts) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO health_workouts
		(user_id, activity_type, start_time, end_time)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range workouts {
		if _, err := stmt.Exec(w.UserID, w.ActivityType, w.Start.Unix(), w.End.Unix()); err != nil {
			return fmt.Errorf("failed to insert health workout: %w", err)
		}
	}

	return tx.Commit()
}

// GetUserPlaces retrieves all labeled places for a user
func (r *EvidenceRepository) GetUserPlaces(userID string) ([]models.UserPlace, error) {
	query := `SELECT id, user_id, label, category, latitude, longitude, radius_meters
		FROM user_places WHERE user_id = ? ORDER BY label`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user places: %w", err)
	}
	defer rows.Close()

	var places []models.UserPlace
	for rows.Next() {
		var p models.UserPlace
		if err := rows.Scan(&p.ID, &p.UserID, &p.Label, &p.Category,
			&p.Latitude, &p.Longitude, &p.RadiusMeters); err != nil {
			return nil, fmt.Errorf("failed to scan user place: %w", err)
		}
		places = append(places, p)
	}

	return places, rows.Err()
}

// UpsertUserPlace inserts or replaces a labeled place
func (r *EvidenceRepository) UpsertUserPlace(p models.UserPlace) error {
	query := `INSERT INTO user_places (id, user_id, label, category, latitude, longitude, radius_meters)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			category = excluded.category,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			radius_meters = excluded.radius_meters`

	_, err := r.db.Exec(query, p.ID, p.UserID, p.Label, p.Category, p.Latitude, p.Longitude, p.RadiusMeters)
	if err != nil {
		return fmt.Errorf("failed to upsert user place: %w", err)
	}
	return nil
}

// DeleteUserPlace removes a labeled place
func (r *EvidenceRepository) DeleteUserPlace(userID, placeID string) error {
	result, err := r.db.Exec("DELETE FROM user_places WHERE user_id = ? AND id = ?", userID, placeID)
	if err != nil {
		return fmt.Errorf("failed to delete user place: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetEvidence fetches the full evidence bundle for one processing window
func (r *EvidenceRepository) GetEvidence(userID string, start, end time.Time) (models.Evidence, error) {
	var ev models.Evidence
	var err error

	if ev.Samples, err = r.GetSamples(userID, start, end); err != nil {
		return ev, err
	}
	if ev.Sessions, err = r.GetScreenSessions(userID, start, end); err != nil {
		return ev, err
	}
	if ev.Workouts, err = r.GetWorkouts(userID, start, end); err != nil {
		return ev, err
	}
	if ev.Places, err = r.GetUserPlaces(userID); err != nil {
		return ev, err
	}

	return ev, nil
}
