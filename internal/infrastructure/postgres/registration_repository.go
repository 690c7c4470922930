package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-attendance/internal/domain/registration"
	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
)

type registrationRow struct {
	ID           string    `db:"id"`
	EventID      string    `db:"event_id"`
	UserID       string    `db:"user_id"`
	Status       string    `db:"status"`
	RegisteredAt time.Time `db:"registered_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *registrationRow) toEntity() *registration.Registration {
	return &registration.Registration{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		Status:       registration.Status(r.Status),
		RegisteredAt: r.RegisteredAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const registrationColumns = `id, event_id, user_id, status, registered_at, created_at, updated_at`

// RegistrationRepository は登録リポジトリのPostgreSQL実装
type RegistrationRepository struct{ db *sqlx.DB }

func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create は新しい登録を作成する
// (event_id, user_id) の一意制約違反は同時登録の競合として扱う
func (r *RegistrationRepository) Create(ctx context.Context, tx transaction.Tx, reg *registration.Registration) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `
		INSERT INTO registrations (event_id, user_id, status, registered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := sqlxTx.QueryRowContext(ctx, query,
		reg.EventID, reg.UserID, string(reg.Status), reg.RegisteredAt, reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	if err != nil {
		if isConflict(err) {
			return registration.ErrConcurrencyConflict
		}
		return fmt.Errorf("登録作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから登録を取得する
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*registration.Registration, error) {
	var row registrationRow
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registration.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("登録取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate はIDから登録を行ロック付きで取得する
func (r *RegistrationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*registration.Registration, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errors.New("トランザクションが不正です")
	}

	var row registrationRow
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registration.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("登録取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByEventAndUser は (イベント, ユーザー) の組の登録を行ロック付きで取得する
// 再登録は新しい行を作らず、この行の状態遷移として扱う
func (r *RegistrationRepository) GetByEventAndUser(ctx context.Context, tx transaction.Tx, eventID, userID string) (*registration.Registration, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errors.New("トランザクションが不正です")
	}

	var row registrationRow
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND user_id = $2 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, eventID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registration.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("登録取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByUserID はユーザーの登録一覧を取得する
func (r *RegistrationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*registration.Registration, error) {
	var rows []registrationRow
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_id = $1 ORDER BY registered_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("登録一覧取得に失敗しました: %w", err)
	}
	return toEntities(rows), nil
}

// GetByEventID はイベントの登録一覧を取得する
func (r *RegistrationRepository) GetByEventID(ctx context.Context, eventID string, limit, offset int) ([]*registration.Registration, error) {
	var rows []registrationRow
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY registered_at ASC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, eventID, limit, offset); err != nil {
		return nil, fmt.Errorf("登録一覧取得に失敗しました: %w", err)
	}
	return toEntities(rows), nil
}

// GetConfirmedByEventID はイベントの確定済み登録一覧を取得する
func (r *RegistrationRepository) GetConfirmedByEventID(ctx context.Context, eventID string) ([]*registration.Registration, error) {
	var rows []registrationRow
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND status = 'confirmed' ORDER BY registered_at ASC`
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("確定済み登録一覧取得に失敗しました: %w", err)
	}
	return toEntities(rows), nil
}

// Update は登録を更新する
func (r *RegistrationRepository) Update(ctx context.Context, tx transaction.Tx, reg *registration.Registration) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `UPDATE registrations SET status = $1, registered_at = $2, updated_at = $3 WHERE id = $4`
	result, err := sqlxTx.ExecContext(ctx, query, string(reg.Status), reg.RegisteredAt, reg.UpdatedAt, reg.ID)
	if err != nil {
		return fmt.Errorf("登録更新に失敗しました: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return registration.ErrRegistrationNotFound
	}
	return nil
}

// CountConfirmedByEventID はイベントの確定済み登録数を返す
func (r *RegistrationRepository) CountConfirmedByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed'`, eventID)
	if err != nil {
		return 0, fmt.Errorf("確定済み登録数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountConfirmedByEventIDTx はトランザクション内で確定済み登録数を返す
func (r *RegistrationRepository) CountConfirmedByEventIDTx(ctx context.Context, tx transaction.Tx, eventID string) (int, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, errors.New("トランザクションが不正です")
	}

	var count int
	err := sqlxTx.GetContext(ctx, &count, `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed'`, eventID)
	if err != nil {
		return 0, fmt.Errorf("確定済み登録数の取得に失敗しました: %w", err)
	}
	return count, nil
}

func toEntities(rows []registrationRow) []*registration.Registration {
	result := make([]*registration.Registration, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result
}

// isConflict は一意制約違反・直列化失敗を競合として判定する
func isConflict(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "40001"
	}
	return false
}

var _ registration.Repository = (*RegistrationRepository)(nil)
