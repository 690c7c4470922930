package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/registration"
)

// MockRegistrationService はRegistrationServiceInterfaceのモック
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Register(ctx context.Context, input application.RegisterInput) (*application.RegistrationSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.RegistrationSummary), args.Error(1)
}

func (m *MockRegistrationService) Cancel(ctx context.Context, registrationID, userID string) (*application.RegistrationSummary, error) {
	args := m.Called(ctx, registrationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.RegistrationSummary), args.Error(1)
}

func (m *MockRegistrationService) CancelByAdmin(ctx context.Context, registrationID string) (*application.RegistrationSummary, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.RegistrationSummary), args.Error(1)
}

func (m *MockRegistrationService) GetRegistration(ctx context.Context, id string) (*registration.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.Registration), args.Error(1)
}

func (m *MockRegistrationService) GetUserRegistrations(ctx context.Context, userID string, limit, offset int) ([]*registration.Registration, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registration.Registration), args.Error(1)
}

func (m *MockRegistrationService) GetEventRegistrations(ctx context.Context, eventID string, limit, offset int) ([]*registration.Registration, error) {
	args := m.Called(ctx, eventID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registration.Registration), args.Error(1)
}

func (m *MockRegistrationService) GetConfirmedCount(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func confirmedSummary(id, eventID, userID string, count int, status event.Status) *application.RegistrationSummary {
	now := time.Now()
	return &application.RegistrationSummary{
		Registration: &registration.Registration{
			ID: id, EventID: eventID, UserID: userID,
			Status: registration.StatusConfirmed, RegisteredAt: now, CreatedAt: now,
		},
		ConfirmedCount: count,
		EventStatus:    status,
	}
}

func TestRegistrationHandler_Register(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に登録できる", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		mockService.On("Register", mock.Anything, application.RegisterInput{
			EventID: "event-123", UserID: "user-123",
		}).Return(confirmedSummary("reg-123", "event-123", "user-123", 5, event.StatusOpen), nil)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"event_id": "event-123"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp RegistrationSummaryResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "reg-123", resp.Registration.ID)
		assert.Equal(t, "confirmed", resp.Registration.Status)
		assert.Equal(t, 5, resp.ConfirmedCount)
		assert.Equal(t, "open", resp.EventStatus)

		mockService.AssertExpectations(t)
	})

	t.Run("ユーザーIDがない場合401", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"event_id": "event-123"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		// X-User-ID ヘッダーなし
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("イベントが見つからない場合404", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		mockService.On("Register", mock.Anything, mock.AnythingOfType("application.RegisterInput")).
			Return(nil, event.ErrEventNotFound)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"event_id": "missing"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("締め切り済みの場合409", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		mockService.On("Register", mock.Anything, mock.AnythingOfType("application.RegisterInput")).
			Return(nil, event.ErrRegistrationClosed)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"event_id": "event-123"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("重複登録の場合409", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		mockService.On("Register", mock.Anything, mock.AnythingOfType("application.RegisterInput")).
			Return(nil, registration.ErrAlreadyRegistered)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"event_id": "event-123"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("満員の場合409", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		mockService.On("Register", mock.Anything, mock.AnythingOfType("application.RegisterInput")).
			Return(nil, event.ErrEventAtCapacity)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"event_id": "event-123"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("不正なリクエストでエラー", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader("invalid"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestRegistrationHandler_Cancel(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にキャンセルできる", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		now := time.Now()
		summary := &application.RegistrationSummary{
			Registration: &registration.Registration{
				ID: "reg-123", EventID: "event-123", UserID: "user-123",
				Status: registration.StatusCancelled, RegisteredAt: now, CreatedAt: now,
			},
			ConfirmedCount: 4,
			EventStatus:    event.StatusOpen,
		}
		mockService.On("Cancel", mock.Anything, "reg-123", "user-123").Return(summary, nil)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations/reg-123/cancel", nil)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("reg-123")

		err := handler.Cancel(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp RegistrationSummaryResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Registration.Status)
		assert.Equal(t, "open", resp.EventStatus)

		mockService.AssertExpectations(t)
	})

	t.Run("ユーザーIDがない場合401", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations/reg-123/cancel", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("reg-123")

		err := handler.Cancel(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("他人の登録は404", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		mockService.On("Cancel", mock.Anything, "reg-123", "other-user").
			Return(nil, registration.ErrRegistrationNotFound)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/registrations/reg-123/cancel", nil)
		req.Header.Set("X-User-ID", "other-user")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("reg-123")

		err := handler.Cancel(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestRegistrationHandler_GetUserRegistrations(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に一覧を取得できる", func(t *testing.T) {
		mockService := new(MockRegistrationService)
		now := time.Now()
		registrations := []*registration.Registration{
			{ID: "reg-1", EventID: "event-1", UserID: "user-123", Status: registration.StatusConfirmed, RegisteredAt: now, CreatedAt: now},
			{ID: "reg-2", EventID: "event-2", UserID: "user-123", Status: registration.StatusCancelled, RegisteredAt: now, CreatedAt: now},
		}
		mockService.On("GetUserRegistrations", mock.Anything, "user-123", 0, 0).Return(registrations, nil)

		handler := NewRegistrationHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.GetUserRegistrations(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []RegistrationResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Len(t, resp, 2)

		mockService.AssertExpectations(t)
	})
}

func TestRegistrationHandler_GetConfirmedCount(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockRegistrationService)
	mockService.On("GetConfirmedCount", mock.Anything, "event-123").Return(12, nil)

	handler := NewRegistrationHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/events/event-123/registrations/count", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("event-123")

	err := handler.GetConfirmedCount(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	err = json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, 12, resp["confirmed_count"])
}
