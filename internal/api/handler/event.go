package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
)

type EventHandler struct {
	service EventServiceInterface
}

func NewEventHandler(s EventServiceInterface) *EventHandler {
	return &EventHandler{service: s}
}

type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required" example:"Go研修 2026"`
	Description string    `json:"description" example:"全4回のGo言語研修"`
	Venue       string    `json:"venue" example:"東京本社"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required"`
	Capacity    *int      `json:"capacity" validate:"omitempty,min=1" example:"30"`
}

type UpdateEventRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required"`
	Capacity    *int      `json:"capacity" validate:"omitempty,min=1"`
}

type EventResponse struct {
	ID          string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string    `json:"name" example:"Go研修 2026"`
	Description string    `json:"description,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Capacity    *int      `json:"capacity,omitempty" example:"30"`
	Status      string    `json:"status" example:"open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID: e.ID, Name: e.Name, Description: e.Description, Venue: e.Venue,
		StartAt: e.StartAt, EndAt: e.EndAt, Capacity: e.Capacity,
		Status: string(e.Status), CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

// Create godoc
// @Summary イベントを作成
// @Description 下書き状態のイベントを作成します
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	e, err := h.service.CreateEvent(c.Request().Context(), application.CreateEventInput{
		Name: req.Name, Description: req.Description, Venue: req.Venue,
		StartAt: req.StartAt, EndAt: req.EndAt, Capacity: req.Capacity,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.service.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Tags events
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	events, err := h.service.ListEvents(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary イベントを更新
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "イベントID"
// @Param request body UpdateEventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	e, err := h.service.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID: c.Param("id"), Name: req.Name, Description: req.Description, Venue: req.Venue,
		StartAt: req.StartAt, EndAt: req.EndAt, Capacity: req.Capacity,
	})
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Publish godoc
// @Summary イベントを公開して登録受付を開始
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "下書き状態ではない"
// @Router /events/{id}/publish [post]
func (h *EventHandler) Publish(c echo.Context) error {
	return h.transition(c, h.service.PublishEvent)
}

// CloseRegistration godoc
// @Summary 登録受付を締め切る
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/close-registration [post]
func (h *EventHandler) CloseRegistration(c echo.Context) error {
	return h.transition(c, h.service.CloseEventRegistration)
}

// Cancel godoc
// @Summary イベントを中止
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/cancel [post]
func (h *EventHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.service.CancelEvent)
}

// Finish godoc
// @Summary イベントを終了
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/finish [post]
func (h *EventHandler) Finish(c echo.Context) error {
	return h.transition(c, h.service.FinishEvent)
}

func (h *EventHandler) transition(c echo.Context, apply func(ctx context.Context, id string) (*event.Event, error)) error {
	e, err := apply(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}
