package create_time_block

import (
	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

// CreateTimeBlockRequest HTTP request model
type CreateTimeBlockRequest struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "14:00"
	EndTime   string `json:"endTime"`   // "16:00"
	Reason    string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateTimeBlockRequest) ToServiceRequest(userID, businessID int64) *models.CreateTimeBlockRequest {
	return &models.CreateTimeBlockRequest{
		UserID:     userID,
		BusinessID: businessID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Reason:     r.Reason,
	}
}
