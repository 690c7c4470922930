package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-attendance/internal/pkg/logger"
)

// StatusProgressor は時刻に応じたイベント状態遷移を適用するインターフェース
type StatusProgressor interface {
	ProgressStatuses(ctx context.Context) (started, finished int, err error)
}

// EventStatusUpdater は開始・終了時刻を過ぎたイベントの状態を更新するワーカー
type EventStatusUpdater struct {
	eventService StatusProgressor
	interval     time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewEventStatusUpdater は新しいステータス更新ワーカーを作成
func NewEventStatusUpdater(es StatusProgressor, interval time.Duration) *EventStatusUpdater {
	return &EventStatusUpdater{
		eventService: es,
		interval:     interval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start はワーカーを開始
func (u *EventStatusUpdater) Start(ctx context.Context) {
	logger.Info("イベント状態更新ワーカー開始",
		zap.Duration("interval", u.interval),
	)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	defer close(u.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("イベント状態更新ワーカー停止（コンテキストキャンセル）")
			return
		case <-u.stopCh:
			logger.Info("イベント状態更新ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			u.update(ctx)
		}
	}
}

// Stop はワーカーを停止
func (u *EventStatusUpdater) Stop() {
	close(u.stopCh)
	<-u.doneCh
}

// update は状態遷移を1回分適用
func (u *EventStatusUpdater) update(ctx context.Context) {
	log := logger.Get()
	log.Debug("イベント状態の更新開始")

	started, finished, err := u.eventService.ProgressStatuses(ctx)
	if err != nil {
		log.Error("イベント状態の更新失敗", zap.Error(err))
		return
	}

	if started > 0 || finished > 0 {
		log.Info("イベント状態を更新",
			zap.Int("started", started),
			zap.Int("finished", finished),
		)
	} else {
		log.Debug("更新対象のイベントなし")
	}
}
