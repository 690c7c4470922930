package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/domain/attendance"
	"github.com/sanosuguru/go-event-attendance/internal/domain/session"
)

type AttendanceHandler struct {
	service AttendanceServiceInterface
}

func NewAttendanceHandler(s AttendanceServiceInterface) *AttendanceHandler {
	return &AttendanceHandler{service: s}
}

type ReconcileRequest struct {
	AttendedUserIDs []string `json:"attended_user_ids" example:"user-1,user-2"`
}

type ReconcileResponse struct {
	SessionID string `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Added     int    `json:"added" example:"2"`
	Removed   int    `json:"removed" example:"1"`
	Total     int    `json:"total" example:"24"`
}

type AttendanceResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SessionID  string    `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID     string    `json:"user_id" example:"user-123"`
	RecordedAt time.Time `json:"recorded_at"`
}

func toAttendanceResponse(a *attendance.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID: a.ID, SessionID: a.SessionID, UserID: a.UserID, RecordedAt: a.RecordedAt,
	}
}

// Reconcile godoc
// @Summary セッションの出席名簿を照合
// @Description 提出された出席者リストと記録済みの出席集合を一致させます。同じリストの再提出は何も変更しません
// @Tags attendances
// @Accept json
// @Produce json
// @Param id path string true "セッションID"
// @Param request body ReconcileRequest true "出席者リスト"
// @Success 200 {object} ReconcileResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/attendances [put]
func (h *AttendanceHandler) Reconcile(c echo.Context) error {
	var req ReconcileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	result, err := h.service.Reconcile(c.Request().Context(), application.ReconcileInput{
		SessionID:       c.Param("id"),
		AttendedUserIDs: req.AttendedUserIDs,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ReconcileResponse{
		SessionID: result.SessionID,
		Added:     result.Added,
		Removed:   result.Removed,
		Total:     result.Total,
	})
}

// GetBySession godoc
// @Summary セッションの出席記録一覧を取得
// @Tags attendances
// @Produce json
// @Param id path string true "セッションID"
// @Success 200 {array} AttendanceResponse
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/attendances [get]
func (h *AttendanceHandler) GetBySession(c echo.Context) error {
	records, err := h.service.GetSessionAttendance(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]AttendanceResponse, len(records))
	for i, a := range records {
		resp[i] = toAttendanceResponse(a)
	}
	return c.JSON(http.StatusOK, resp)
}
