package application

import (
	"context"
	"sort"

	"github.com/sanosuguru/go-event-attendance/internal/domain/attendance"
	"github.com/sanosuguru/go-event-attendance/internal/domain/eligibility"
	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/registration"
	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
)

// EligibilityService は出席率と修了証発行可否を算出する
// 出席率の計算式は eligibility パッケージに集約し、
// ダッシュボードもエクスポートも必ず同じ結果になるようにする
type EligibilityService struct {
	eventRepo        event.Repository
	sessionRepo      session.Repository
	attendanceRepo   attendance.Repository
	registrationRepo registration.Repository
}

func NewEligibilityService(
	er event.Repository,
	sr session.Repository,
	ar attendance.Repository,
	rr registration.Repository,
) *EligibilityService {
	return &EligibilityService{
		eventRepo:        er,
		sessionRepo:      sr,
		attendanceRepo:   ar,
		registrationRepo: rr,
	}
}

// UserEligibility は (ユーザー, イベント) の判定結果を表す固定形のDTO
type UserEligibility struct {
	EventID       string
	UserID        string
	TotalSessions int
	Attended      int
	Percentage    float64
	Passed        bool
}

// GetEligibility はユーザーのイベント出席率判定を返す
// 出席数はそのイベントの有効なセッションに限定して数える
// （出席記録はセッションにのみ紐づくため、他イベントの出席を混ぜてはならない）
func (s *EligibilityService) GetEligibility(ctx context.Context, eventID, userID string) (*UserEligibility, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	totalSessions, err := s.sessionRepo.CountActiveByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	attended, err := s.attendanceRepo.CountByUserAndEventID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	v := eligibility.Compute(totalSessions, attended)
	return toUserEligibility(eventID, userID, v), nil
}

// GetEventEligibilitySummary はイベントの確定済み登録者全員の判定結果を返す
// ダッシュボードと修了証・帳票エクスポートが共用する単一の集計経路
func (s *EligibilityService) GetEventEligibilitySummary(ctx context.Context, eventID string) ([]*UserEligibility, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	totalSessions, err := s.sessionRepo.CountActiveByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	registrations, err := s.registrationRepo.GetConfirmedByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	attendedCounts, err := s.attendanceRepo.CountByEventIDGrouped(ctx, eventID)
	if err != nil {
		return nil, err
	}

	results := make([]*UserEligibility, 0, len(registrations))
	for _, reg := range registrations {
		v := eligibility.Compute(totalSessions, attendedCounts[reg.UserID])
		results = append(results, toUserEligibility(eventID, reg.UserID, v))
	}

	// 出席率の高い順、同率はユーザーID順
	sort.Slice(results, func(i, j int) bool {
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage > results[j].Percentage
		}
		return results[i].UserID < results[j].UserID
	})
	return results, nil
}

func toUserEligibility(eventID, userID string, v eligibility.Verdict) *UserEligibility {
	return &UserEligibility{
		EventID:       eventID,
		UserID:        userID,
		TotalSessions: v.TotalSessions,
		Attended:      v.Attended,
		Percentage:    v.Percentage,
		Passed:        v.Passed,
	}
}
