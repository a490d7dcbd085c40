package paygate

// CheckoutRequest запрос на инициализацию платежной сессии
type CheckoutRequest struct {
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
	OrderName string  `json:"order_name"`
}

// CheckoutSession платежная сессия, созданная шлюзом.
// Клиентское приложение проводит пользователя через checkout_url,
// после чего шлюз выдает payment_key для подтверждения.
type CheckoutSession struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
	ExpiresAt   string `json:"expires_at"`
}

// ApproveRequest запрос на подтверждение (capture) платежа
type ApproveRequest struct {
	PaymentKey string  `json:"payment_key"`
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
}

// Approval результат подтверждения платежа
type Approval struct {
	PaymentKey string  `json:"payment_key"`
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"` // approved, declined
	ApprovedAt string  `json:"approved_at"`
}

// RefundRequest запрос на возврат платежа
type RefundRequest struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const approvalStatusApproved = "approved"
