package models

// RequestPaymentRequest запрос на инициализацию оплаты бронирования
type RequestPaymentRequest struct {
	CustomerID int64  `json:"customerId"`
	BusinessID int64  `json:"businessId"`
	ServiceID  int64  `json:"serviceId"`
	PetID      int64  `json:"petId"`
	Date       string `json:"date"`      // "2025-10-15"
	StartTime  string `json:"startTime"` // "10:00"
}

// RequestPaymentResponse платежная сессия для клиентского приложения.
// orderId передается обратно при подтверждении платежа и служит ключом
// идемпотентности создания бронирования.
type RequestPaymentResponse struct {
	OrderID     string  `json:"orderId"`
	Amount      float64 `json:"amount"`
	CheckoutURL string  `json:"checkoutUrl"`
	ExpiresAt   string  `json:"expiresAt,omitempty"`
}
