package attendance

import (
	"context"

	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
)

// Repository は出席記録リポジトリのインターフェース
type Repository interface {
	// GetBySessionID はセッションの出席記録一覧を取得する
	GetBySessionID(ctx context.Context, sessionID string) ([]*Attendance, error)

	// GetUserIDsBySessionIDForUpdate はセッションの出席者ID一覧を行ロック付きで取得する
	// 照合（reconcile）の読み取りと書き込みを直列化するために使用する
	GetUserIDsBySessionIDForUpdate(ctx context.Context, tx transaction.Tx, sessionID string) ([]string, error)

	// CreateBulk は出席記録を一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, records []*Attendance) error

	// DeleteBulk はセッションの指定ユーザーの出席記録を一括削除する（トランザクション必須）
	DeleteBulk(ctx context.Context, tx transaction.Tx, sessionID string, userIDs []string) error

	// CountByUserAndEventID はユーザーの出席数を「そのイベントの有効なセッション」に限定して数える
	// 出席記録はセッションにのみ紐づくため、イベントへの絞り込みは必ずJOINで行う
	CountByUserAndEventID(ctx context.Context, userID, eventID string) (int, error)

	// CountByEventIDGrouped はイベントの有効セッションへの出席数をユーザーごとに集計する
	CountByEventIDGrouped(ctx context.Context, eventID string) (map[string]int, error)
}
