package session

import "context"

// Repository はセッションリポジトリのインターフェース
type Repository interface {
	// Create は新しいセッションを作成する
	Create(ctx context.Context, session *Session) error

	// GetByID はIDからセッションを取得する
	GetByID(ctx context.Context, id string) (*Session, error)

	// GetByEventID はイベントのセッション一覧を開始時刻順に取得する
	GetByEventID(ctx context.Context, eventID string) ([]*Session, error)

	// Update はセッションを更新する
	Update(ctx context.Context, session *Session) error

	// CountActiveByEventID はイベントの有効なセッション数を返す
	CountActiveByEventID(ctx context.Context, eventID string) (int, error)
}
