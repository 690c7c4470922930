package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
)

type SessionHandler struct {
	service SessionServiceInterface
}

func NewSessionHandler(s SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: s}
}

type CreateSessionRequest struct {
	EventID string    `json:"event_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title   string    `json:"title" validate:"required" example:"第1回 基礎文法"`
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
}

type UpdateSessionRequest struct {
	Title    string    `json:"title" validate:"required"`
	StartAt  time.Time `json:"start_at" validate:"required"`
	EndAt    time.Time `json:"end_at" validate:"required"`
	IsActive bool      `json:"is_active"`
}

type SessionResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventID   string    `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title     string    `json:"title" example:"第1回 基礎文法"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	IsActive  bool      `json:"is_active" example:"true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID: s.ID, EventID: s.EventID, Title: s.Title,
		StartAt: s.StartAt, EndAt: s.EndAt, IsActive: s.IsActive,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// Create godoc
// @Summary セッションを作成
// @Description イベントに属するセッションを作成します。有効なセッションは出席率計算の分母に含まれます
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "セッション情報"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "親イベントが存在しない"
// @Router /sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.service.CreateSession(c.Request().Context(), application.CreateSessionInput{
		EventID: req.EventID, Title: req.Title, StartAt: req.StartAt, EndAt: req.EndAt,
	})
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toSessionResponse(s))
}

// GetByID godoc
// @Summary セッションを取得
// @Tags sessions
// @Produce json
// @Param id path string true "セッションID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetByID(c echo.Context) error {
	s, err := h.service.GetSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toSessionResponse(s))
}

// GetByEvent godoc
// @Summary イベントのセッション一覧を取得
// @Tags sessions
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} SessionResponse
// @Router /events/{id}/sessions [get]
func (h *SessionHandler) GetByEvent(c echo.Context) error {
	sessions, err := h.service.GetEventSessions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		resp[i] = toSessionResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary セッションを更新
// @Description is_active を false にすると出席率計算の分母から除外されます
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "セッションID"
// @Param request body UpdateSessionRequest true "セッション情報"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [put]
func (h *SessionHandler) Update(c echo.Context) error {
	var req UpdateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.service.UpdateSession(c.Request().Context(), application.UpdateSessionInput{
		ID: c.Param("id"), Title: req.Title, StartAt: req.StartAt, EndAt: req.EndAt,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toSessionResponse(s))
}
