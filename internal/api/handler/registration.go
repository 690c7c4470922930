package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
	"github.com/sanosuguru/go-event-attendance/internal/domain/registration"
)

type RegistrationHandler struct {
	service RegistrationServiceInterface
}

func NewRegistrationHandler(s RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{service: s}
}

type RegisterRequest struct {
	EventID string `json:"event_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
}

type RegistrationResponse struct {
	ID           string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventID      string    `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID       string    `json:"user_id" example:"user-123"`
	Status       string    `json:"status" example:"confirmed"`
	RegisteredAt time.Time `json:"registered_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegistrationSummaryResponse は登録操作の結果（イベントの最新状態込み）
type RegistrationSummaryResponse struct {
	Registration   RegistrationResponse `json:"registration"`
	ConfirmedCount int                  `json:"confirmed_count" example:"12"`
	EventStatus    string               `json:"event_status" example:"open"`
	Reactivated    bool                 `json:"reactivated" example:"false"`
}

func toRegistrationResponse(r *registration.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID: r.ID, EventID: r.EventID, UserID: r.UserID,
		Status: string(r.Status), RegisteredAt: r.RegisteredAt, CreatedAt: r.CreatedAt,
	}
}

func toSummaryResponse(s *application.RegistrationSummary) RegistrationSummaryResponse {
	return RegistrationSummaryResponse{
		Registration:   toRegistrationResponse(s.Registration),
		ConfirmedCount: s.ConfirmedCount,
		EventStatus:    string(s.EventStatus),
		Reactivated:    s.Reactivated,
	}
}

// Register godoc
// @Summary イベントに登録
// @Description ユーザーをイベントに登録します。定員到達時は受付が自動的に締め切られます
// @Tags registrations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body RegisterRequest true "登録情報"
// @Success 201 {object} RegistrationSummaryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "満員・締め切り・重複登録"
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	summary, err := h.service.Register(c.Request().Context(), application.RegisterInput{
		EventID: req.EventID, UserID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, event.ErrRegistrationClosed),
			errors.Is(err, event.ErrEventAtCapacity),
			errors.Is(err, event.ErrEventNotOpen),
			errors.Is(err, registration.ErrAlreadyRegistered),
			errors.Is(err, registration.ErrConcurrencyConflict):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toSummaryResponse(summary))
}

// GetByID godoc
// @Summary 登録を取得
// @Tags registrations
// @Produce json
// @Param id path string true "登録ID"
// @Success 200 {object} RegistrationResponse
// @Failure 404 {object} map[string]string
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetRegistration(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registration.ErrRegistrationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toRegistrationResponse(r))
}

// GetUserRegistrations godoc
// @Summary ユーザーの登録一覧を取得
// @Tags registrations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} RegistrationResponse
// @Failure 401 {object} map[string]string
// @Router /registrations [get]
func (h *RegistrationHandler) GetUserRegistrations(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	registrations, err := h.service.GetUserRegistrations(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]RegistrationResponse, len(registrations))
	for i, r := range registrations {
		resp[i] = toRegistrationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary 登録をキャンセル
// @Description 本人の登録をキャンセルします。締め切り済みイベントに空きが出ると受付が再開されます
// @Tags registrations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "登録ID"
// @Success 200 {object} RegistrationSummaryResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /registrations/{id}/cancel [post]
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	summary, err := h.service.Cancel(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, registration.ErrRegistrationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// CancelByAdmin godoc
// @Summary 登録を管理者権限でキャンセル
// @Tags registrations
// @Produce json
// @Param id path string true "登録ID"
// @Success 200 {object} RegistrationSummaryResponse
// @Failure 404 {object} map[string]string
// @Router /admin/registrations/{id}/cancel [post]
func (h *RegistrationHandler) CancelByAdmin(c echo.Context) error {
	summary, err := h.service.CancelByAdmin(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registration.ErrRegistrationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// GetEventRegistrations godoc
// @Summary イベントの登録一覧を取得
// @Tags registrations
// @Produce json
// @Param id path string true "イベントID"
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} RegistrationResponse
// @Router /events/{id}/registrations [get]
func (h *RegistrationHandler) GetEventRegistrations(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	registrations, err := h.service.GetEventRegistrations(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]RegistrationResponse, len(registrations))
	for i, r := range registrations {
		resp[i] = toRegistrationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetConfirmedCount godoc
// @Summary イベントの確定済み登録数を取得
// @Tags registrations
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} map[string]int
// @Router /events/{id}/registrations/count [get]
func (h *RegistrationHandler) GetConfirmedCount(c echo.Context) error {
	count, err := h.service.GetConfirmedCount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"confirmed_count": count})
}
