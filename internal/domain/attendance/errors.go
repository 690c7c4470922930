package attendance

import "errors"

// Attendance ドメインのエラー定義
var (
	ErrAttendanceNotFound = errors.New("出席記録が見つかりません")
	ErrSessionIDRequired  = errors.New("セッションIDは必須です")
)
