package get_available_times

import (
	"time"

	"github.com/petmily/PM-ReservationService/pkg/types"
)

// Request модель запроса доступных времен начала услуги
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги, ее длительность задает размер слота
	Date       time.Time // Дата, на которую запрашиваются времена (без времени)
}

// Response модель ответа со списком доступных времен начала
type Response struct {
	BusinessID      int64              // ID бизнеса
	ServiceID       int64              // ID услуги
	Date            time.Time          // Дата, на которую запрашивались времена
	DurationMinutes int                // Длительность услуги
	Times           []types.TimeString // Доступные времена начала по возрастанию
}
