package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/domain/event"
)

type EligibilityHandler struct {
	service EligibilityServiceInterface
}

func NewEligibilityHandler(s EligibilityServiceInterface) *EligibilityHandler {
	return &EligibilityHandler{service: s}
}

type EligibilityResponse struct {
	EventID       string  `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID        string  `json:"user_id" example:"user-123"`
	TotalSessions int     `json:"total_sessions" example:"4"`
	Attended      int     `json:"attended" example:"3"`
	Percentage    float64 `json:"percentage" example:"75.0"`
	Passed        bool    `json:"passed" example:"true"`
}

func toEligibilityResponse(e *application.UserEligibility) EligibilityResponse {
	return EligibilityResponse{
		EventID:       e.EventID,
		UserID:        e.UserID,
		TotalSessions: e.TotalSessions,
		Attended:      e.Attended,
		Percentage:    e.Percentage,
		Passed:        e.Passed,
	}
}

// GetForUser godoc
// @Summary ユーザーの出席率判定を取得
// @Description 有効なセッションに対する出席率と修了要件（75%以上）の充足を返します
// @Tags eligibility
// @Produce json
// @Param id path string true "イベントID"
// @Param user_id path string true "ユーザーID"
// @Success 200 {object} EligibilityResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/eligibility/{user_id} [get]
func (h *EligibilityHandler) GetForUser(c echo.Context) error {
	result, err := h.service.GetEligibility(c.Request().Context(), c.Param("id"), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toEligibilityResponse(result))
}

// GetSummary godoc
// @Summary イベントの出席率サマリを取得
// @Description 確定済み登録者全員の出席率判定を出席率の高い順に返します
// @Tags eligibility
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} EligibilityResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/eligibility [get]
func (h *EligibilityHandler) GetSummary(c echo.Context) error {
	results, err := h.service.GetEventEligibilitySummary(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]EligibilityResponse, len(results))
	for i, r := range results {
		resp[i] = toEligibilityResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}
