package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

// ErrSummaryLocked is returned when a write would modify a locked summary.
var ErrSummaryLocked = errors.New("hourly summary is locked")

// SummaryRepository handles database operations for hourly summaries
type SummaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

const summaryColumns = `id, user_id, hour_start, local_date, title, description,
	primary_place, primary_activity, app_breakdown, total_screen_minutes,
	confidence, evidence_strength, user_feedback, locked_at`

// GetByHour retrieves the summary for one hour, or nil when absent
func (r *SummaryRepository) GetByHour(userID string, hourStart time.Time) (*models.HourlySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM hourly_summaries
		WHERE user_id = ? AND hour_start = ?`

	row := r.db.QueryRow(query, userID, hourStart.Unix())
	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// GetSummaries retrieves summaries with filtering and pagination
func (r *SummaryRepository) GetSummaries(userID string, filter models.SummaryFilter) ([]models.HourlySummary, int64, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.LocalDate != "" {
		conditions = append(conditions, "local_date = ?")
		args = append(args, filter.LocalDate)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "hour_start >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "hour_start < ?")
		args = append(args, filter.EndTime)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM hourly_summaries"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count summaries: %w", err)
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

	query := `SELECT ` + summaryColumns + ` FROM hourly_summaries` + where +
		` ORDER BY hour_start LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.HourlySummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, *summary)
	}

	return summaries, total, rows.Err()
}

// Upsert writes a summary, refusing to overwrite a locked row
func (r *SummaryRepository) Upsert(s models.HourlySummary) error {
	existing, err := r.GetByHour(s.UserID, s.HourStart)
	if err != nil {
		return err
	}
	if existing.Locked() {
		return ErrSummaryLocked
	}

	breakdown, err := json.Marshal(s.AppBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal app breakdown: %w", err)
	}

	var lockedAt interface{}
	if s.LockedAt != nil {
		lockedAt = s.LockedAt.Unix()
	}

	query := `INSERT INTO hourly_summaries (` + summaryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, hour_start) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			primary_place = excluded.primary_place,
			primary_activity = excluded.primary_activity,
			app_breakdown = excluded.app_breakdown,
			total_screen_minutes = excluded.total_screen_minutes,
			confidence = excluded.confidence,
			evidence_strength = excluded.evidence_strength`

	_, err = r.db.Exec(query, s.ID, s.UserID, s.HourStart.Unix(), s.LocalDate,
		s.Title, s.Description, s.PrimaryPlace, s.PrimaryActivity,
		string(breakdown), s.TotalScreenMinutes, s.Confidence, s.EvidenceStrength,
		s.UserFeedback, lockedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}
	return nil
}

// Lock marks a summary as user-confirmed, protecting it from regeneration
func (r *SummaryRepository) Lock(userID string, hourStart, lockedAt time.Time) error {
	result, err := r.db.Exec(`UPDATE hourly_summaries SET locked_at = ?
		WHERE user_id = ? AND hour_start = ? AND locked_at IS NULL`,
		lockedAt.Unix(), userID, hourStart.Unix())
	if err != nil {
		return fmt.Errorf("failed to lock summary: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetFeedback records user feedback on a summary. Feedback survives
// regeneration and may be set on locked summaries.
func (r *SummaryRepository) SetFeedback(userID string, hourStart time.Time, feedback string) error {
	result, err := r.db.Exec(`UPDATE hourly_summaries SET user_feedback = ?
		WHERE user_id = ? AND hour_start = ?`,
		feedback, userID, hourStart.Unix())
	if err != nil {
		return fmt.Errorf("failed to set summary feedback: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row rowScanner) (*models.HourlySummary, error) {
	var s models.HourlySummary
	var hourTS int64
	var breakdown string
	var primaryActivity sql.NullString
	var lockedAt sql.NullInt64

	err := row.Scan(&s.ID, &s.UserID, &hourTS, &s.LocalDate, &s.Title, &s.Description,
		&s.PrimaryPlace, &primaryActivity, &breakdown, &s.TotalScreenMinutes,
		&s.Confidence, &s.EvidenceStrength, &s.UserFeedback, &lockedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan summary: %w", err)
	}

	s.HourStart = time.Unix(hourTS, 0).UTC()
	if primaryActivity.Valid {
		act := models.ActivityType(primaryActivity.String)
		s.PrimaryActivity = &act
	}
	if lockedAt.Valid {
		t := time.Unix(lockedAt.Int64, 0).UTC()
		s.LockedAt = &t
	}
	if err := json.Unmarshal([]byte(breakdown), &s.AppBreakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal app breakdown: %w", err)
	}

	return &s, nil
}
