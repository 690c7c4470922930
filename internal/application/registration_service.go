package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/registration"
	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-event-attendance/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-attendance/internal/pkg/logger"
)

// RegistrationService はイベント登録のライフサイクルを管理する
// 定員判定と状態遷移はイベント行の行ロックで直列化する
type RegistrationService struct {
	txManager        transaction.Manager
	registrationRepo registration.Repository
	eventRepo        event.Repository
	lockManager      *redisinfra.LockManager
	countCache       *redisinfra.RegistrationCountCache
}

func NewRegistrationService(
	txManager transaction.Manager,
	rr registration.Repository,
	er event.Repository,
	lm *redisinfra.LockManager,
	cache *redisinfra.RegistrationCountCache,
) *RegistrationService {
	return &RegistrationService{
		txManager:        txManager,
		registrationRepo: rr,
		eventRepo:        er,
		lockManager:      lm,
		countCache:       cache,
	}
}

type RegisterInput struct {
	EventID string
	UserID  string
}

// RegistrationSummary は登録操作の結果を表す固定形のDTO
type RegistrationSummary struct {
	Registration   *registration.Registration
	ConfirmedCount int
	EventStatus    event.Status
	Reactivated    bool
}

// Register はユーザーをイベントに登録する
// 既存の行があれば再利用し、(ユーザー, イベント) の組につき行は1つしか作らない
// 同時登録の競合（ErrConcurrencyConflict）は1回だけ透過的にリトライする
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*RegistrationSummary, error) {
	// イベント単位の分散ロック（行ロックの前段の防壁）
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, redisinfra.EventLockKey(input.EventID),
			redisinfra.DefaultLockTTL, redisinfra.DefaultLockMaxRetries, redisinfra.DefaultLockRetryDelay)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				return nil, registration.ErrConcurrencyConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	summary, err := s.register(ctx, input)
	if errors.Is(err, registration.ErrConcurrencyConflict) {
		// 競合時は最新の登録数を読み直して1回だけ再試行する
		logger.Warn("登録が競合したため再試行します",
			zap.String("event_id", input.EventID),
			zap.String("user_id", input.UserID),
		)
		summary, err = s.register(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateCountCache(ctx, input.EventID)
	return summary, nil
}

// register は登録の状態機械を1トランザクションで実行する
func (s *RegistrationService) register(ctx context.Context, input RegisterInput) (*RegistrationSummary, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// イベント行をロックして定員判定を直列化する
	ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, input.EventID)
	if err != nil {
		return nil, err
	}

	if ev.Status == event.StatusRegistrationClosed {
		return nil, event.ErrRegistrationClosed
	}
	if !ev.IsRegistrationOpen() {
		return nil, event.ErrEventNotOpen
	}

	existing, err := s.registrationRepo.GetByEventAndUser(ctx, tx, input.EventID, input.UserID)
	if err != nil && !errors.Is(err, registration.ErrRegistrationNotFound) {
		return nil, err
	}

	if existing != nil && existing.IsConfirmed() {
		return nil, registration.ErrAlreadyRegistered
	}

	confirmedCount, err := s.registrationRepo.CountConfirmedByEventIDTx(ctx, tx, input.EventID)
	if err != nil {
		return nil, err
	}

	// 定員超過の場合は締め切り忘れを是正した上で拒否する
	// （締め切りと同時に登録が走った競合のケア）
	if !ev.HasCapacityFor(confirmedCount) {
		if ev.EvaluateAfterRegistration(confirmedCount) {
			if err := s.eventRepo.UpdateStatus(ctx, tx, ev.ID, ev.Status); err != nil {
				return nil, err
			}
			if err := tx.Commit(); err != nil {
				return nil, fmt.Errorf("コミットに失敗: %w", err)
			}
		}
		return nil, event.ErrEventAtCapacity
	}

	var reg *registration.Registration
	reactivated := false

	if existing != nil {
		// 再登録: 既存の行を確定に戻し、登録日時をリセットする
		if err := existing.Reactivate(); err != nil {
			return nil, err
		}
		if err := s.registrationRepo.Update(ctx, tx, existing); err != nil {
			return nil, err
		}
		reg = existing
		reactivated = true
	} else {
		reg = registration.NewRegistration(input.EventID, input.UserID)
		if err := reg.Validate(); err != nil {
			return nil, err
		}
		if err := s.registrationRepo.Create(ctx, tx, reg); err != nil {
			return nil, err
		}
	}

	newCount := confirmedCount + 1
	if ev.EvaluateAfterRegistration(newCount) {
		if err := s.eventRepo.UpdateStatus(ctx, tx, ev.ID, ev.Status); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	logger.Info("イベントに登録しました",
		zap.String("event_id", input.EventID),
		zap.String("user_id", input.UserID),
		zap.Bool("reactivated", reactivated),
		zap.Int("confirmed_count", newCount),
	)

	return &RegistrationSummary{
		Registration:   reg,
		ConfirmedCount: newCount,
		EventStatus:    ev.Status,
		Reactivated:    reactivated,
	}, nil
}

// Cancel は本人の登録をキャンセルする
// 他人の登録IDを指定した場合は存在を漏らさないよう ErrRegistrationNotFound を返す
// 既にキャンセル済みの場合は何もせず成功を返す（冪等、定員の再開も起こさない）
func (s *RegistrationService) Cancel(ctx context.Context, registrationID, userID string) (*RegistrationSummary, error) {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != userID {
		return nil, registration.ErrRegistrationNotFound
	}
	return s.cancel(ctx, registrationID)
}

// CancelByAdmin は管理者が任意の登録をキャンセルする（所有者チェックなし）
func (s *RegistrationService) CancelByAdmin(ctx context.Context, registrationID string) (*RegistrationSummary, error) {
	return s.cancel(ctx, registrationID)
}

func (s *RegistrationService) cancel(ctx context.Context, registrationID string) (*RegistrationSummary, error) {
	if s.lockManager != nil {
		// イベントIDはロック前に判明しないため登録行から引く
		pre, err := s.registrationRepo.GetByID(ctx, registrationID)
		if err != nil {
			return nil, err
		}
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, redisinfra.EventLockKey(pre.EventID),
			redisinfra.DefaultLockTTL, redisinfra.DefaultLockMaxRetries, redisinfra.DefaultLockRetryDelay)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				return nil, registration.ErrConcurrencyConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	reg, err := s.registrationRepo.GetByIDForUpdate(ctx, tx, registrationID)
	if err != nil {
		return nil, err
	}

	ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, reg.EventID)
	if err != nil {
		return nil, err
	}

	// キャンセル前の確定済み登録数を読む（定員再開の判定に使う）
	confirmedCount, err := s.registrationRepo.CountConfirmedByEventIDTx(ctx, tx, reg.EventID)
	if err != nil {
		return nil, err
	}

	if !reg.Cancel() {
		// 既にキャンセル済み: 状態を変えず成功扱い
		// 確定していなかった登録で定員を再開してはならない
		return &RegistrationSummary{
			Registration:   reg,
			ConfirmedCount: confirmedCount,
			EventStatus:    ev.Status,
		}, nil
	}

	if err := s.registrationRepo.Update(ctx, tx, reg); err != nil {
		return nil, err
	}

	newCount := confirmedCount - 1
	if ev.EvaluateAfterCancellation(newCount) {
		if err := s.eventRepo.UpdateStatus(ctx, tx, ev.ID, ev.Status); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCountCache(ctx, reg.EventID)

	logger.Info("登録をキャンセルしました",
		zap.String("registration_id", registrationID),
		zap.String("event_id", reg.EventID),
		zap.Int("confirmed_count", newCount),
	)

	return &RegistrationSummary{
		Registration:   reg,
		ConfirmedCount: newCount,
		EventStatus:    ev.Status,
	}, nil
}

// GetRegistration はIDから登録を取得する
func (s *RegistrationService) GetRegistration(ctx context.Context, id string) (*registration.Registration, error) {
	return s.registrationRepo.GetByID(ctx, id)
}

// GetUserRegistrations はユーザーの登録一覧を取得する
func (s *RegistrationService) GetUserRegistrations(ctx context.Context, userID string, limit, offset int) ([]*registration.Registration, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.registrationRepo.GetByUserID(ctx, userID, limit, offset)
}

// GetEventRegistrations はイベントの登録一覧を取得する（管理者向け）
func (s *RegistrationService) GetEventRegistrations(ctx context.Context, eventID string, limit, offset int) ([]*registration.Registration, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.registrationRepo.GetByEventID(ctx, eventID, limit, offset)
}

// GetConfirmedCount はイベントの確定済み登録数を返す
// キャッシュがあればキャッシュを優先し、ミス時はDBから読んでキャッシュする
func (s *RegistrationService) GetConfirmedCount(ctx context.Context, eventID string) (int, error) {
	if s.countCache != nil {
		count, err := s.countCache.GetConfirmedCount(ctx, eventID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("event_id", eventID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	count, err := s.registrationRepo.CountConfirmedByEventID(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if s.countCache != nil {
		if cacheErr := s.countCache.SetConfirmedCount(ctx, eventID, count); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return count, nil
}

func (s *RegistrationService) invalidateCountCache(ctx context.Context, eventID string) {
	if s.countCache == nil {
		return
	}
	if err := s.countCache.Invalidate(ctx, eventID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
