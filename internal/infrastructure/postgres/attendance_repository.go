package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-attendance/internal/domain/attendance"
	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
)

// AttendanceRepository は出席記録リポジトリのPostgreSQL実装
type AttendanceRepository struct{ db *sqlx.DB }

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// GetBySessionID はセッションの出席記録一覧を取得する
func (r *AttendanceRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*attendance.Attendance, error) {
	query := `SELECT id, session_id, user_id, recorded_at FROM attendances WHERE session_id = $1 ORDER BY recorded_at ASC`

	var records []*attendance.Attendance
	rows, err := r.db.QueryxContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("出席記録取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(&a.ID, &a.SessionID, &a.UserID, &a.RecordedAt); err != nil {
			return nil, fmt.Errorf("出席記録の読み取りに失敗しました: %w", err)
		}
		records = append(records, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("出席記録の読み取りに失敗しました: %w", err)
	}
	return records, nil
}

// GetUserIDsBySessionIDForUpdate はセッションの出席者ID一覧を行ロック付きで取得する
// 照合の読み取りと差分適用を同一トランザクションで直列化する
func (r *AttendanceRepository) GetUserIDsBySessionIDForUpdate(ctx context.Context, tx transaction.Tx, sessionID string) ([]string, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errors.New("トランザクションが不正です")
	}

	var userIDs []string
	query := `SELECT user_id FROM attendances WHERE session_id = $1 FOR UPDATE`
	if err := sqlxTx.SelectContext(ctx, &userIDs, query, sessionID); err != nil {
		return nil, fmt.Errorf("出席者一覧取得に失敗しました: %w", err)
	}
	return userIDs, nil
}

// CreateBulk は出席記録をマルチバリューINSERTで一括作成する
func (r *AttendanceRepository) CreateBulk(ctx context.Context, tx transaction.Tx, records []*attendance.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `INSERT INTO attendances (session_id, user_id, recorded_at) VALUES `
	args := make([]interface{}, 0, len(records)*3)
	placeholders := make([]string, 0, len(records))

	for i, a := range records {
		base := i * 3
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, a.SessionID, a.UserID, a.RecordedAt)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := sqlxTx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("出席記録一括作成に失敗しました: %w", err)
	}
	return nil
}

// DeleteBulk はセッションの指定ユーザーの出席記録を一括削除する
func (r *AttendanceRepository) DeleteBulk(ctx context.Context, tx transaction.Tx, sessionID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `DELETE FROM attendances WHERE session_id = $1 AND user_id = ANY($2)`
	if _, err := sqlxTx.ExecContext(ctx, query, sessionID, pq.Array(userIDs)); err != nil {
		return fmt.Errorf("出席記録一括削除に失敗しました: %w", err)
	}
	return nil
}

// CountByUserAndEventID はユーザーの出席数をイベントの有効セッションに限定して数える
// 出席記録はセッションにのみ紐づくため、他イベントの出席が混入しないようJOINで絞り込む
func (r *AttendanceRepository) CountByUserAndEventID(ctx context.Context, userID, eventID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN sessions s ON s.id = a.session_id
		WHERE a.user_id = $1 AND s.event_id = $2 AND s.is_active = TRUE
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, eventID); err != nil {
		return 0, fmt.Errorf("出席数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByEventIDGrouped はイベントの有効セッションへの出席数をユーザーごとに集計する
func (r *AttendanceRepository) CountByEventIDGrouped(ctx context.Context, eventID string) (map[string]int, error) {
	query := `
		SELECT a.user_id, COUNT(*) AS attended
		FROM attendances a
		JOIN sessions s ON s.id = a.session_id
		WHERE s.event_id = $1 AND s.is_active = TRUE
		GROUP BY a.user_id
	`
	rows, err := r.db.QueryxContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("出席数の集計に失敗しました: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var attended int
		if err := rows.Scan(&userID, &attended); err != nil {
			return nil, fmt.Errorf("出席数の読み取りに失敗しました: %w", err)
		}
		counts[userID] = attended
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("出席数の読み取りに失敗しました: %w", err)
	}
	return counts, nil
}

var _ attendance.Repository = (*AttendanceRepository)(nil)
