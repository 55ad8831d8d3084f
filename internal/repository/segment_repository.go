package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

// ActivitySegmentRepository handles database operations for activity segments
type ActivitySegmentRepository struct {
	db *sql.DB
}

// NewActivitySegmentRepository creates a new activity segment repository
func NewActivitySegmentRepository(db *sql.DB) *ActivitySegmentRepository {
	return &ActivitySegmentRepository{db: db}
}

const segmentColumns = `id, user_id, start_time, end_time, hour_bucket,
	place_id, place_label, place_category, centroid_lat, centroid_lng,
	inferred_activity, confidence, top_apps, total_screen_seconds,
	evidence, source_ids, movement_type, distance_meters`

// ReplaceHour atomically replaces all segments of one hour bucket.
// Regeneration is idempotent: the hour's old segments are deleted and
// the new set inserted in a single transaction.
func (r *ActivitySegmentRepository) ReplaceHour(userID string, hourStart time.Time, segments []models.ActivitySegment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM activity_segments WHERE user_id = ? AND hour_bucket = ?",
		userID, hourStart.Unix())
	if err != nil {
		return fmt.Errorf("failed to delete segments for hour: %w", err)
	}

	if len(segments) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO activity_segments (` + segmentColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare segment insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range segments {
			topApps, err := json.Marshal(s.TopApps)
			if err != nil {
				return fmt.Errorf("failed to marshal top apps: %w", err)
			}
			evidence, err := json.Marshal(s.Evidence)
			if err != nil {
				return fmt.Errorf("failed to marshal evidence: %w", err)
			}
			sourceIDs, err := json.Marshal(s.SourceIDs)
			if err != nil {
				return fmt.Errorf("failed to marshal source ids: %w", err)
			}

			_, err = stmt.Exec(s.ID, s.UserID, s.Start.Unix(), s.End.Unix(), s.HourBucket.Unix(),
				s.PlaceID, s.PlaceLabel, s.PlaceCategory, s.CentroidLat, s.CentroidLng,
				s.InferredActivity, s.Confidence, string(topApps), s.TotalScreenSeconds,
				string(evidence), string(sourceIDs), s.MovementType, s.DistanceMeters)
			if err != nil {
				return fmt.Errorf("failed to insert segment: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetByHour retrieves all segments of one hour bucket in start order
func (r *ActivitySegmentRepository) GetByHour(userID string, hourStart time.Time) ([]models.ActivitySegment, error) {
	query := `SELECT ` + segmentColumns + ` FROM activity_segments
		WHERE user_id = ? AND hour_bucket = ? ORDER BY start_time`

	rows, err := r.db.Query(query, userID, hourStart.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	return scanSegments(rows)
}

// GetSegments retrieves segments with filtering and pagination
func (r *ActivitySegmentRepository) GetSegments(userID string, filter models.SegmentFilter) ([]models.ActivitySegment, int64, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.StartTime > 0 {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "end_time <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.Activity != "" {
		conditions = append(conditions, "inferred_activity = ?")
		args = append(args, filter.Activity)
	}
	if filter.PlaceID != "" {
		conditions = append(conditions, "place_id = ?")
		args = append(args, filter.PlaceID)
	}
	if filter.MinConfidence > 0 {
		conditions = append(conditions, "confidence >= ?")
		args = append(args, filter.MinConfidence)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM activity_segments"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count segments: %w", err)
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

	query := `SELECT ` + segmentColumns + ` FROM activity_segments` + where +
		` ORDER BY start_time DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	segments, err := scanSegments(rows)
	if err != nil {
		return nil, 0, err
	}
	return segments, total, nil
}

func scanSegments(rows *sql.Rows) ([]models.ActivitySegment, error) {
	var segments []models.ActivitySegment
	for rows.Next() {
		var s models.ActivitySegment
		var startTS, endTS, hourTS int64
		var topApps, evidence, sourceIDs string
		var placeCategory, movementType sql.NullString

		err := rows.Scan(&s.ID, &s.UserID, &startTS, &endTS, &hourTS,
			&s.PlaceID, &s.PlaceLabel, &placeCategory, &s.CentroidLat, &s.CentroidLng,
			&s.InferredActivity, &s.Confidence, &topApps, &s.TotalScreenSeconds,
			&evidence, &sourceIDs, &movementType, &s.DistanceMeters)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}

		s.Start = time.Unix(startTS, 0).UTC()
		s.End = time.Unix(endTS, 0).UTC()
		s.HourBucket = time.Unix(hourTS, 0).UTC()

		if placeCategory.Valid {
			cat := models.PlaceCategory(placeCategory.String)
			s.PlaceCategory = &cat
		}
		if movementType.Valid {
			mv := models.MovementType(movementType.String)
			s.MovementType = &mv
		}

		if err := json.Unmarshal([]byte(topApps), &s.TopApps); err != nil {
			return nil, fmt.Errorf("failed to unmarshal top apps: %w", err)
		}
		if err := json.Unmarshal([]byte(evidence), &s.Evidence); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evidence: %w", err)
		}
		if err := json.Unmarshal([]byte(sourceIDs), &s.SourceIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal source ids: %w", err)
		}

		segments = append(segments, s)
	}

	return segments, rows.Err()
}
