package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
)

// StudySessionStore persists study sessions. Every read and write is scoped
// by owner: a row belonging to another user behaves as if it did not exist.
type StudySessionStore struct {
	db *sql.DB
}

func NewStudySessionStore(db *sql.DB) *StudySessionStore {
	return &StudySessionStore{db: db}
}

func scanStudySession(scanner interface{ Scan(...any) error }) (*model.StudySession, error) {
	var s model.StudySession
	err := scanner.Scan(
		&s.ID, &s.UserID, &s.Subject, &s.StartedAt,
		&s.DurationHours, &s.ProductivityRating, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const studySessionCols = `id, user_id, subject, started_at, duration_hours, productivity_rating, created_at, updated_at`

func (s *StudySessionStore) Create(ctx context.Context, userID int64, subject string, startedAt time.Time, duration float64, rating int) (*model.StudySession, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO study_sessions (user_id, subject, started_at, duration_hours, productivity_rating) VALUES (?, ?, ?, ?, ?)`,
		userID, subject, startedAt.UTC(), duration, rating,
	)
	if err != nil {
		return nil, fmt.Errorf("insert study session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, userID, id)
}

// GetByID returns nil when the session does not exist or is owned by someone else.
func (s *StudySessionStore) GetByID(ctx context.Context, userID, id int64) (*model.StudySession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studySessionCols+` FROM study_sessions WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	sess, err := scanStudySession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get study session: %w", err)
	}
	return sess, nil
}

// ListByUser returns the user's sessions, most recent first.
func (s *StudySessionStore) ListByUser(ctx context.Context, userID int64) ([]model.StudySession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+studySessionCols+` FROM study_sessions WHERE user_id = ? ORDER BY started_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.StudySession
	for rows.Next() {
		sess, err := scanStudySession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan study session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study sessions: %w", err)
	}
	return sessions, nil
}

// Update rewrites the mutable fields. It returns nil when no row owned by
// userID has that id.
func (s *StudySessionStore) Update(ctx context.Context, userID, id int64, subject string, startedAt time.Time, duration float64, rating int) (*model.StudySession, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE study_sessions
		 SET subject = ?, started_at = ?, duration_hours = ?, productivity_rating = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		subject, startedAt.UTC(), duration, rating, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update study session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, userID, id)
}

// Delete reports whether a row owned by userID was removed.
func (s *StudySessionStore) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM study_sessions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete study session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Subjects returns the user's distinct subjects in alphabetical order.
func (s *StudySessionStore) Subjects(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT subject FROM study_sessions WHERE user_id = ? ORDER BY subject`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return subjects, nil
}
