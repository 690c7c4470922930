package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
)

type sessionRow struct {
	ID        string    `db:"id"`
	EventID   string    `db:"event_id"`
	Title     string    `db:"title"`
	StartAt   time.Time `db:"start_at"`
	EndAt     time.Time `db:"end_at"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *sessionRow) toEntity() *session.Session {
	return &session.Session{
		ID:        r.ID,
		EventID:   r.EventID,
		Title:     r.Title,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const sessionColumns = `id, event_id, title, start_at, end_at, is_active, created_at, updated_at`

// SessionRepository はセッションリポジトリのPostgreSQL実装
type SessionRepository struct{ db *sqlx.DB }

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	query := `
		INSERT INTO sessions (event_id, title, start_at, end_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		s.EventID, s.Title, s.StartAt, s.EndAt, s.IsActive, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("セッション作成に失敗しました: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	var row sessionRow
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("セッション取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SessionRepository) GetByEventID(ctx context.Context, eventID string) ([]*session.Session, error) {
	var rows []sessionRow
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE event_id = $1 ORDER BY start_at ASC`
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("セッション一覧取得に失敗しました: %w", err)
	}
	sessions := make([]*session.Session, len(rows))
	for i, row := range rows {
		sessions[i] = row.toEntity()
	}
	return sessions, nil
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	query := `UPDATE sessions SET title = $1, start_at = $2, end_at = $3, is_active = $4, updated_at = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query, s.Title, s.StartAt, s.EndAt, s.IsActive, time.Now().UTC(), s.ID)
	if err != nil {
		return fmt.Errorf("セッション更新に失敗しました: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// CountActiveByEventID はイベントの有効なセッション数を返す
// この値が出席率計算の分母になる
func (r *SessionRepository) CountActiveByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions WHERE event_id = $1 AND is_active = TRUE`, eventID)
	if err != nil {
		return 0, fmt.Errorf("有効セッション数の取得に失敗しました: %w", err)
	}
	return count, nil
}

var _ session.Repository = (*SessionRepository)(nil)
