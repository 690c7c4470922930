package handler

import (
	"context"

	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/domain/attendance"
	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/registration"
	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	PublishEvent(ctx context.Context, id string) (*event.Event, error)
	CloseEventRegistration(ctx context.Context, id string) (*event.Event, error)
	CancelEvent(ctx context.Context, id string) (*event.Event, error)
	FinishEvent(ctx context.Context, id string) (*event.Event, error)
}

// SessionServiceInterface はセッションサービスのインターフェース
type SessionServiceInterface interface {
	CreateSession(ctx context.Context, input application.CreateSessionInput) (*session.Session, error)
	GetSession(ctx context.Context, id string) (*session.Session, error)
	GetEventSessions(ctx context.Context, eventID string) ([]*session.Session, error)
	UpdateSession(ctx context.Context, input application.UpdateSessionInput) (*session.Session, error)
}

// RegistrationServiceInterface は登録サービスのインターフェース
type RegistrationServiceInterface interface {
	Register(ctx context.Context, input application.RegisterInput) (*application.RegistrationSummary, error)
	Cancel(ctx context.Context, registrationID, userID string) (*application.RegistrationSummary, error)
	CancelByAdmin(ctx context.Context, registrationID string) (*application.RegistrationSummary, error)
	GetRegistration(ctx context.Context, id string) (*registration.Registration, error)
	GetUserRegistrations(ctx context.Context, userID string, limit, offset int) ([]*registration.Registration, error)
	GetEventRegistrations(ctx context.Context, eventID string, limit, offset int) ([]*registration.Registration, error)
	GetConfirmedCount(ctx context.Context, eventID string) (int, error)
}

// AttendanceServiceInterface は出席サービスのインターフェース
type AttendanceServiceInterface interface {
	Reconcile(ctx context.Context, input application.ReconcileInput) (*application.ReconcileResult, error)
	GetSessionAttendance(ctx context.Context, sessionID string) ([]*attendance.Attendance, error)
}

// EligibilityServiceInterface は出席率判定サービスのインターフェース
type EligibilityServiceInterface interface {
	GetEligibility(ctx context.Context, eventID, userID string) (*application.UserEligibility, error)
	GetEventEligibilitySummary(ctx context.Context, eventID string) ([]*application.UserEligibility, error)
}
