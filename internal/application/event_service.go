package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/pkg/logger"
)

type EventService struct {
	eventRepo event.Repository
}

func NewEventService(eventRepo event.Repository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

type CreateEventInput struct {
	Name        string
	Description string
	Venue       string
	StartAt     time.Time
	EndAt       time.Time
	Capacity    *int
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Name, input.Description, input.Venue, input.StartAt, input.EndAt, input.Capacity)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.List(ctx, limit, offset)
}

type UpdateEventInput struct {
	ID          string
	Name        string
	Description string
	Venue       string
	StartAt     time.Time
	EndAt       time.Time
	Capacity    *int
}

func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	e.Name = input.Name
	e.Description = input.Description
	e.Venue = input.Venue
	e.StartAt = input.StartAt
	e.EndAt = input.EndAt
	e.Capacity = input.Capacity
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// PublishEvent は下書きイベントを公開して登録受付を開始する
func (s *EventService) PublishEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.transition(ctx, id, (*event.Event).Publish)
}

// CloseEventRegistration は管理者操作で登録受付を締め切る
// 定員による自動締め切りとは独立した操作で、キャンセルで空きが出ても自動では再開しない
// （再開判定は registration_closed 状態と定員のみを見るため、定員なしの手動締め切りは
// キャンセル経路を通らない限り閉じたまま）
func (s *EventService) CloseEventRegistration(ctx context.Context, id string) (*event.Event, error) {
	return s.transition(ctx, id, (*event.Event).CloseRegistration)
}

// CancelEvent はイベントを中止する
func (s *EventService) CancelEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.transition(ctx, id, (*event.Event).Cancel)
}

// FinishEvent はイベントを終了する
func (s *EventService) FinishEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.transition(ctx, id, (*event.Event).Finish)
}

func (s *EventService) transition(ctx context.Context, id string, apply func(*event.Event) error) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(e); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ProgressStatuses は時刻に応じたイベントの状態遷移をまとめて適用する
// ワーカーから定期的に呼ばれる
func (s *EventService) ProgressStatuses(ctx context.Context) (started, finished int, err error) {
	now := time.Now().UTC()

	started, err = s.eventRepo.MarkInProgress(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	finished, err = s.eventRepo.MarkFinished(ctx, now)
	if err != nil {
		return started, 0, err
	}

	if started > 0 || finished > 0 {
		logger.Info("イベント状態を更新しました",
			zap.Int("started", started),
			zap.Int("finished", finished),
		)
	}
	return started, finished, nil
}
