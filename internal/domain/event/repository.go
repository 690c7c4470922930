package event

import (
	"context"
	"time"

	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// GetByIDForUpdate はIDからイベントを行ロック付きで取得する（トランザクション必須）
	// 登録・キャンセルの定員判定を直列化するために使用する
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Event, error)

	// List はイベント一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Event, error)

	// Update はイベントを更新する（楽観的ロック）
	Update(ctx context.Context, event *Event) error

	// UpdateStatus はイベントの状態のみを更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status Status) error

	// MarkInProgress は開始時刻を過ぎた受付中イベントを in_progress にする
	MarkInProgress(ctx context.Context, now time.Time) (int, error)

	// MarkFinished は終了時刻を過ぎた進行中イベントを finished にする
	MarkFinished(ctx context.Context, now time.Time) (int, error)
}
