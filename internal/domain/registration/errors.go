package registration

import "errors"

// Registration ドメインのエラー定義
var (
	ErrRegistrationNotFound = errors.New("登録が見つかりません")
	ErrAlreadyRegistered    = errors.New("既にこのイベントに登録済みです")
	ErrConcurrencyConflict  = errors.New("登録処理が競合しました")
	ErrEventIDRequired      = errors.New("イベントIDは必須です")
	ErrUserIDRequired       = errors.New("ユーザーIDは必須です")
)
