package create_reservation

import (
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

// Request модель запроса на подтверждение платежа и создание бронирования.
// Параметры слота не передаются: они зафиксированы платежной записью
// при инициализации оплаты.
type Request struct {
	CustomerID int64   // ID клиента из сессии
	OrderID    string  // Ключ идемпотентности, выдан при инициализации оплаты
	PaymentKey string  // Ключ платежа, выдан шлюзом после прохождения checkout
	Amount     float64 // Сумма для сверки с платежной записью
	Notes      *string // Пожелания клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64            // ID созданного бронирования
	OrderID    string           // Ключ идемпотентности
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	CustomerID int64            // ID клиента
	PetID      int64            // ID питомца
	Date       time.Time        // Дата бронирования
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	Status     string           // Статус бронирования

	// Денормализованные данные
	ServiceName string  // Название услуги
	Price       float64 // Цена услуги
	Notes       *string // Пожелания клиента

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// fromDomain конвертирует domain модель в response
func fromDomain(r *domain.Reservation) *Response {
	return &Response{
		ID:          r.ID,
		OrderID:     r.OrderID,
		BusinessID:  r.BusinessID,
		ServiceID:   r.ServiceID,
		CustomerID:  r.CustomerID,
		PetID:       r.PetID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Status:      string(r.Status),
		ServiceName: r.ServiceName,
		Price:       r.Price,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
