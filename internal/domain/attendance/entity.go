package attendance

import "time"

// Attendance はセッションへの出席記録を表す
// レコードの存在自体が「出席した」ことを意味する
// (session_id, user_id) の組につき最大1件
type Attendance struct {
	ID         string
	SessionID  string
	UserID     string
	RecordedAt time.Time
}

// NewAttendance は新しい出席記録を作成する
func NewAttendance(sessionID, userID string) *Attendance {
	return &Attendance{
		SessionID:  sessionID,
		UserID:     userID,
		RecordedAt: time.Now().UTC(),
	}
}
