package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-attendance/internal/domain/attendance"
	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
	"github.com/sanosuguru/go-event-attendance/internal/domain/transaction"
	"github.com/sanosuguru/go-event-attendance/internal/pkg/logger"
)

// AttendanceService はセッション単位の出席名簿を照合する
type AttendanceService struct {
	txManager      transaction.Manager
	attendanceRepo attendance.Repository
	sessionRepo    session.Repository
}

func NewAttendanceService(txManager transaction.Manager, ar attendance.Repository, sr session.Repository) *AttendanceService {
	return &AttendanceService{txManager: txManager, attendanceRepo: ar, sessionRepo: sr}
}

type ReconcileInput struct {
	SessionID       string
	AttendedUserIDs []string
}

// ReconcileResult は照合結果を表す固定形のDTO
type ReconcileResult struct {
	SessionID string
	Added     int
	Removed   int
	Total     int
}

// Reconcile はセッションの出席集合を提出された集合と一致させる
// 差分の追加・削除は1トランザクションで適用し、同じ集合の再提出は何も変更しない（冪等）
// 提出リストが確定済み登録者に絞られていることは呼び出し側の責務
func (s *AttendanceService) Reconcile(ctx context.Context, input ReconcileInput) (*ReconcileResult, error) {
	// セッションの存在確認
	if _, err := s.sessionRepo.GetByID(ctx, input.SessionID); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.attendanceRepo.GetUserIDsBySessionIDForUpdate(ctx, tx, input.SessionID)
	if err != nil {
		return nil, err
	}

	toAdd, toRemove := attendance.Diff(existing, input.AttendedUserIDs)

	if err := s.attendanceRepo.DeleteBulk(ctx, tx, input.SessionID, toRemove); err != nil {
		return nil, err
	}

	records := make([]*attendance.Attendance, len(toAdd))
	for i, userID := range toAdd {
		records[i] = attendance.NewAttendance(input.SessionID, userID)
	}
	if err := s.attendanceRepo.CreateBulk(ctx, tx, records); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	if len(toAdd) > 0 || len(toRemove) > 0 {
		logger.Info("出席名簿を照合しました",
			zap.String("session_id", input.SessionID),
			zap.Int("added", len(toAdd)),
			zap.Int("removed", len(toRemove)),
		)
	}

	return &ReconcileResult{
		SessionID: input.SessionID,
		Added:     len(toAdd),
		Removed:   len(toRemove),
		Total:     len(existing) - len(toRemove) + len(toAdd),
	}, nil
}

// GetSessionAttendance はセッションの出席記録一覧を取得する
func (s *AttendanceService) GetSessionAttendance(ctx context.Context, sessionID string) ([]*attendance.Attendance, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.GetBySessionID(ctx, sessionID)
}
