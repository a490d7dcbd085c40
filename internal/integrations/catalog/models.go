package catalog

// Business модель бизнеса из каталога
type Business struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	OwnerID    int64   `json:"owner_id"`
	ManagerIDs []int64 `json:"manager_ids"`
	Category   string  `json:"category"` // funeral, grooming, bathing, transport, ...
}

// Service модель услуги из каталога
// Длительность услуги определяет размер слота при расчете доступности
type Service struct {
	ID              int64    `json:"id"`
	BusinessID      int64    `json:"business_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price,omitempty"`
	MinLeadMinutes  int      `json:"min_lead_minutes"` // минимальное время до начала слота
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
