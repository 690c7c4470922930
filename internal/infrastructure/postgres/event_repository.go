package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
)

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Venue       *string   `db:"venue"`
	StartAt     time.Time `db:"start_at"`
	EndAt       time.Time `db:"end_at"`
	Capacity    *int      `db:"capacity"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Version     int       `db:"version"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var desc, venue string
	if r.Description != nil {
		desc = *r.Description
	}
	if r.Venue != nil {
		venue = *r.Venue
	}
	return &event.Event{
		ID:          r.ID,
		Name:        r.Name,
		Description: desc,
		Venue:       venue,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Capacity:    r.Capacity,
		Status:      event.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

const eventColumns = `id, name, description, venue, start_at, end_at, capacity, status, created_at, updated_at, version`

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (name, description, venue, start_at, end_at, capacity, status, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var desc, venue *string
	if e.Description != "" {
		desc = &e.Description
	}
	if e.Venue != "" {
		venue = &e.Venue
	}

	err := r.db.QueryRowContext(ctx, query,
		e.Name, desc, venue, e.StartAt, e.EndAt, e.Capacity, string(e.Status), e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate はIDからイベントを行ロック付きで取得する
// 登録・キャンセルの定員判定を同一イベントに対して直列化する
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errors.New("トランザクションが不正です")
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	var row eventRow
	err := sqlxTx.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List はイベント一覧を取得する
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY start_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events, nil
}

// Update はイベントを更新する（楽観的ロック）
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, venue = $3, start_at = $4, end_at = $5,
		    capacity = $6, status = $7, updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10
	`

	var desc, venue *string
	if e.Description != "" {
		desc = &e.Description
	}
	if e.Venue != "" {
		venue = &e.Venue
	}

	result, err := r.db.ExecContext(ctx, query,
		e.Name, desc, venue, e.StartAt, e.EndAt, e.Capacity, string(e.Status), time.Now().UTC(), e.ID, e.Version,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrOptimisticLockConflict
	}

	e.Version++
	return nil
}

// UpdateStatus はイベントの状態のみを更新する
// 定員判定による締め切り・再開は登録処理と同一トランザクションで反映する
func (r *EventRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status event.Status) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `UPDATE events SET status = $1, updated_at = $2, version = version + 1 WHERE id = $3`
	result, err := sqlxTx.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("イベント状態更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// MarkInProgress は開始時刻を過ぎた受付中イベントを in_progress にする
// registration_closed のイベントは定員再開の条件を保つため対象にしない
func (r *EventRepository) MarkInProgress(ctx context.Context, now time.Time) (int, error) {
	query := `UPDATE events SET status = 'in_progress', updated_at = $1, version = version + 1 WHERE status = 'open' AND start_at <= $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("イベント開始処理に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	return int(rows), nil
}

// MarkFinished は終了時刻を過ぎたイベントを finished にする
func (r *EventRepository) MarkFinished(ctx context.Context, now time.Time) (int, error) {
	query := `UPDATE events SET status = 'finished', updated_at = $1, version = version + 1 WHERE status IN ('open', 'in_progress', 'registration_closed') AND end_at <= $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("イベント終了処理に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	return int(rows), nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
