package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
)

func TestHealthHandler_Check(t *testing.T) {
	// Setup
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler()

	// Act
	err := h.Check(c)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"service":"event-attendance"`)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
}

func TestNewHealthHandler(t *testing.T) {
	h := NewHealthHandler()
	assert.NotNil(t, h)
}

func TestToEventResponse(t *testing.T) {
	now := time.Now()
	capacity := 100
	e := &event.Event{
		ID:          "event-123",
		Name:        "テストイベント",
		Description: "テスト説明",
		Venue:       "テスト会場",
		StartAt:     now,
		EndAt:       now.Add(3 * time.Hour),
		Capacity:    &capacity,
		Status:      event.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	resp := toEventResponse(e)

	assert.Equal(t, e.ID, resp.ID)
	assert.Equal(t, e.Name, resp.Name)
	assert.Equal(t, e.Description, resp.Description)
	assert.Equal(t, e.Venue, resp.Venue)
	assert.Equal(t, e.Capacity, resp.Capacity)
	assert.Equal(t, "open", resp.Status)
	assert.Equal(t, e.StartAt, resp.StartAt)
	assert.Equal(t, e.EndAt, resp.EndAt)
	assert.Equal(t, e.CreatedAt, resp.CreatedAt)
	assert.Equal(t, e.UpdatedAt, resp.UpdatedAt)
}

func TestToSessionResponse(t *testing.T) {
	now := time.Now()
	s := &session.Session{
		ID:        "session-123",
		EventID:   "event-456",
		Title:     "第1回",
		StartAt:   now,
		EndAt:     now.Add(2 * time.Hour),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := toSessionResponse(s)

	assert.Equal(t, s.ID, resp.ID)
	assert.Equal(t, s.EventID, resp.EventID)
	assert.Equal(t, s.Title, resp.Title)
	assert.True(t, resp.IsActive)
	assert.Equal(t, s.StartAt, resp.StartAt)
	assert.Equal(t, s.EndAt, resp.EndAt)
}
