package registration

import "time"

// Status は登録の状態を表す
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Registration はユーザーのイベント登録を表す
// (ユーザー, イベント) の組につき行は最大1つで、
// キャンセルと再登録は同じ行の状態遷移として扱う
type Registration struct {
	ID           string
	EventID      string
	UserID       string
	Status       Status
	RegisteredAt time.Time // confirmed へ遷移するたびに更新される
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewRegistration は新しい確定済み登録を作成する
func NewRegistration(eventID, userID string) *Registration {
	now := time.Now().UTC()
	return &Registration{
		EventID:      eventID,
		UserID:       userID,
		Status:       StatusConfirmed,
		RegisteredAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsConfirmed は登録が確定済みかを返す
func (r *Registration) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// Reactivate はキャンセル済みの登録を再度確定する
// 登録日時は再登録時点にリセットされる
func (r *Registration) Reactivate() error {
	if r.Status == StatusConfirmed {
		return ErrAlreadyRegistered
	}
	now := time.Now().UTC()
	r.Status = StatusConfirmed
	r.RegisteredAt = now
	r.UpdatedAt = now
	return nil
}

// Cancel は登録をキャンセルする
// 既にキャンセル済みの場合は状態を変えずに成功扱いとする（冪等）
func (r *Registration) Cancel() bool {
	if r.Status == StatusCancelled {
		return false
	}
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now().UTC()
	return true
}

// Validate は登録の検証を行う
func (r *Registration) Validate() error {
	if r.EventID == "" {
		return ErrEventIDRequired
	}
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	return nil
}
