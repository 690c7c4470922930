package session

import "time"

// Session はイベントに属するセッションを表す
// is_active なセッションのみが出席率計算の分母に含まれる
type Session struct {
	ID        string
	EventID   string
	Title     string
	StartAt   time.Time
	EndAt     time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession は新しいセッションを有効状態で作成する
func NewSession(eventID, title string, startAt, endAt time.Time) *Session {
	now := time.Now().UTC()
	return &Session{
		EventID:   eventID,
		Title:     title,
		StartAt:   startAt,
		EndAt:     endAt,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate はセッションの検証を行う
func (s *Session) Validate() error {
	if s.EventID == "" {
		return ErrEventIDRequired
	}
	if s.Title == "" {
		return ErrTitleRequired
	}
	if s.EndAt.Before(s.StartAt) {
		return ErrInvalidSessionTime
	}
	return nil
}

// Deactivate はセッションを無効化し、出席率計算の対象から外す
func (s *Session) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now().UTC()
}

// Activate はセッションを有効化する
func (s *Session) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now().UTC()
}
