package event

import "time"

// Status はイベントのライフサイクル状態を表す
type Status string

const (
	StatusDraft              Status = "draft"
	StatusOpen               Status = "open"
	StatusInProgress         Status = "in_progress"
	StatusRegistrationClosed Status = "registration_closed"
	StatusCancelled          Status = "cancelled"
	StatusFinished           Status = "finished"
)

// Event はイベントエンティティを表す
type Event struct {
	ID          string
	Name        string
	Description string
	Venue       string
	StartAt     time.Time
	EndAt       time.Time
	Capacity    *int // nilの場合は定員なし
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewEvent は新しいイベントを下書き状態で作成する
func NewEvent(name, description, venue string, startAt, endAt time.Time, capacity *int) *Event {
	now := time.Now().UTC()
	return &Event{
		Name:        name,
		Description: description,
		Venue:       venue,
		StartAt:     startAt,
		EndAt:       endAt,
		Capacity:    capacity,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Name == "" {
		return ErrEventNameRequired
	}
	if e.Capacity != nil && *e.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if e.EndAt.Before(e.StartAt) {
		return ErrInvalidEventTime
	}
	return nil
}

// IsRegistrationOpen は登録を受け付けられる状態かを返す
func (e *Event) IsRegistrationOpen() bool {
	return e.Status == StatusOpen || e.Status == StatusInProgress
}

// HasCapacityFor は確定済み登録数に1件追加しても定員内に収まるかを返す
// 定員なしの場合は常にtrue
func (e *Event) HasCapacityFor(confirmedCount int) bool {
	if e.Capacity == nil {
		return true
	}
	return confirmedCount < *e.Capacity
}

// EvaluateAfterRegistration は登録後の確定済み登録数に応じて状態を更新する
// 定員に達した場合のみ registration_closed へ遷移し、状態が変わったかを返す
func (e *Event) EvaluateAfterRegistration(confirmedCount int) bool {
	if e.Capacity == nil {
		return false
	}
	if confirmedCount < *e.Capacity {
		return false
	}
	if e.Status == StatusRegistrationClosed {
		return false // 既に締め切り済み（冪等）
	}
	e.Status = StatusRegistrationClosed
	e.UpdatedAt = time.Now().UTC()
	return true
}

// EvaluateAfterCancellation はキャンセル後の確定済み登録数に応じて状態を更新する
// 定員到達で締め切られたイベントに空きが出た場合のみ open へ戻し、状態が変わったかを返す
// cancelled/finished のイベントは registration_closed ではないため対象外
func (e *Event) EvaluateAfterCancellation(confirmedCount int) bool {
	if e.Status != StatusRegistrationClosed {
		return false
	}
	if e.Capacity != nil && confirmedCount >= *e.Capacity {
		return false
	}
	e.Status = StatusOpen
	e.UpdatedAt = time.Now().UTC()
	return true
}

// Publish は下書きイベントを公開して登録受付を開始する
func (e *Event) Publish() error {
	if e.Status != StatusDraft {
		return ErrEventNotDraft
	}
	e.Status = StatusOpen
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// CloseRegistration は管理者操作で登録受付を締め切る
func (e *Event) CloseRegistration() error {
	if !e.IsRegistrationOpen() {
		return ErrEventNotOpen
	}
	e.Status = StatusRegistrationClosed
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel はイベントを中止する（物理削除はしない）
func (e *Event) Cancel() error {
	switch e.Status {
	case StatusFinished:
		return ErrEventAlreadyFinished
	case StatusCancelled:
		return ErrEventAlreadyCancelled
	}
	e.Status = StatusCancelled
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Finish はイベントを終了状態にする
func (e *Event) Finish() error {
	switch e.Status {
	case StatusCancelled:
		return ErrEventAlreadyCancelled
	case StatusFinished:
		return ErrEventAlreadyFinished
	}
	e.Status = StatusFinished
	e.UpdatedAt = time.Now().UTC()
	return nil
}
