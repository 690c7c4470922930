package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
)

type SessionService struct {
	sessionRepo session.Repository
	eventRepo   event.Repository
}

func NewSessionService(sr session.Repository, er event.Repository) *SessionService {
	return &SessionService{sessionRepo: sr, eventRepo: er}
}

type CreateSessionInput struct {
	EventID string
	Title   string
	StartAt time.Time
	EndAt   time.Time
}

func (s *SessionService) CreateSession(ctx context.Context, input CreateSessionInput) (*session.Session, error) {
	// 親イベントの存在確認
	if _, err := s.eventRepo.GetByID(ctx, input.EventID); err != nil {
		return nil, err
	}

	sess := session.NewSession(input.EventID, input.Title, input.StartAt, input.EndAt)
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("セッション作成に失敗しました: %w", err)
	}
	return sess, nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return s.sessionRepo.GetByID(ctx, id)
}

func (s *SessionService) GetEventSessions(ctx context.Context, eventID string) ([]*session.Session, error) {
	return s.sessionRepo.GetByEventID(ctx, eventID)
}

type UpdateSessionInput struct {
	ID       string
	Title    string
	StartAt  time.Time
	EndAt    time.Time
	IsActive bool
}

// UpdateSession はセッションを更新する
// IsActive を外すと出席率計算の分母から除外される
func (s *SessionService) UpdateSession(ctx context.Context, input UpdateSessionInput) (*session.Session, error) {
	sess, err := s.sessionRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	sess.Title = input.Title
	sess.StartAt = input.StartAt
	sess.EndAt = input.EndAt
	if input.IsActive {
		sess.Activate()
	} else {
		sess.Deactivate()
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.sessionRepo.Update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
