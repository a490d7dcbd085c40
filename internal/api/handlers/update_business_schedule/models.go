package update_business_schedule

import (
	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

// UpdateScheduleRequest HTTP request model: полный недельный шаблон
// и опциональные исключения на даты, применяемые той же транзакцией
type UpdateScheduleRequest struct {
	Days       []models.DayScheduleInput `json:"days"`
	Exceptions []models.ExceptionInput   `json:"exceptions,omitempty"`
}

// WeekResponse HTTP response model
type WeekResponse struct {
	BusinessID int64                        `json:"businessId"`
	Week       []models.DayScheduleResponse `json:"week"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(userID, businessID int64) *models.SetWeeklyScheduleRequest {
	return &models.SetWeeklyScheduleRequest{
		UserID:     userID,
		BusinessID: businessID,
		Days:       r.Days,
		Exceptions: r.Exceptions,
	}
}
