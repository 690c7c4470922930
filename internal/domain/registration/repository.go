package registration

import (
	"context"

	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
)

// Repository は登録リポジトリのインターフェース
type Repository interface {
	// Create は新しい登録を作成する（トランザクション必須）
	// (event_id, user_id) の一意制約違反は ErrConcurrencyConflict を返す
	Create(ctx context.Context, tx transaction.Tx, reg *Registration) error

	// GetByID はIDから登録を取得する
	GetByID(ctx context.Context, id string) (*Registration, error)

	// GetByIDForUpdate はIDから登録を行ロック付きで取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Registration, error)

	// GetByEventAndUser は (イベント, ユーザー) の組の登録を行ロック付きで取得する（トランザクション必須）
	GetByEventAndUser(ctx context.Context, tx transaction.Tx, eventID, userID string) (*Registration, error)

	// GetByUserID はユーザーの登録一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Registration, error)

	// GetByEventID はイベントの登録一覧を取得する
	GetByEventID(ctx context.Context, eventID string, limit, offset int) ([]*Registration, error)

	// GetConfirmedByEventID はイベントの確定済み登録一覧を取得する
	GetConfirmedByEventID(ctx context.Context, eventID string) ([]*Registration, error)

	// Update は登録を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, reg *Registration) error

	// CountConfirmedByEventID はイベントの確定済み登録数を返す
	CountConfirmedByEventID(ctx context.Context, eventID string) (int, error)

	// CountConfirmedByEventIDTx はトランザクション内で確定済み登録数を返す
	// 定員判定はロック済みイベント行と同一トランザクションで読む必要がある
	CountConfirmedByEventIDTx(ctx context.Context, tx transaction.Tx, eventID string) (int, error)
}
