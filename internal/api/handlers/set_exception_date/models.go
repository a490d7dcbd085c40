package set_exception_date

import (
	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

// SetExceptionRequest HTTP request model
type SetExceptionRequest struct {
	Date      string  `json:"date"` // "2025-10-15"
	IsDayOff  bool    `json:"isDayOff,omitempty"`
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetExceptionRequest) ToServiceRequest(userID, businessID int64) *models.SetExceptionRequest {
	return &models.SetExceptionRequest{
		UserID:     userID,
		BusinessID: businessID,
		Date:       r.Date,
		IsDayOff:   r.IsDayOff,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Reason:     r.Reason,
	}
}
