package session

import "errors"

// Session ドメインのエラー定義
var (
	ErrSessionNotFound    = errors.New("セッションが見つかりません")
	ErrEventIDRequired    = errors.New("イベントIDは必須です")
	ErrTitleRequired      = errors.New("セッション名は必須です")
	ErrInvalidSessionTime = errors.New("終了時刻は開始時刻より後である必要があります")
)
