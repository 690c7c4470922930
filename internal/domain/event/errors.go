package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound          = errors.New("イベントが見つかりません")
	ErrEventNameRequired      = errors.New("イベント名は必須です")
	ErrInvalidCapacity        = errors.New("定員は1以上である必要があります")
	ErrInvalidEventTime       = errors.New("終了時刻は開始時刻より後である必要があります")
	ErrEventNotDraft          = errors.New("下書き状態のイベントのみ公開できます")
	ErrEventNotOpen           = errors.New("イベントの登録受付期間外です")
	ErrRegistrationClosed     = errors.New("イベントの登録受付は締め切られています")
	ErrEventAtCapacity        = errors.New("イベントは定員に達しています")
	ErrEventAlreadyCancelled  = errors.New("イベントは既に中止されています")
	ErrEventAlreadyFinished   = errors.New("イベントは既に終了しています")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
