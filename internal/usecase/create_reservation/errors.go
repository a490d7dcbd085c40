package create_reservation

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж по orderID не найден
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrAccessDenied возвращается, когда платеж принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrPaymentDeclined возвращается, когда шлюз отклонил платеж
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrAmountMismatch возвращается, когда сумма подтверждения не совпадает
	// с суммой, зафиксированной при инициализации платежа
	ErrAmountMismatch = errors.New("payment amount mismatch")

	// ErrOrderRefunded возвращается при попытке подтвердить уже возвращенный заказ
	ErrOrderRefunded = errors.New("order already refunded")

	// ErrSlotConflict возвращается, когда интервал занят конкурирующим
	// бронированием или блокировкой; подтвержденный платеж возвращается
	ErrSlotConflict = errors.New("slot conflict")

	// ErrBusinessClosed возвращается, когда бизнес не работает в указанную дату
	ErrBusinessClosed = errors.New("business is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за рабочие часы
	ErrOutsideWorkingHours = errors.New("slot is outside working hours")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrCatalogUnavailable возвращается, когда каталог недоступен
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidStartTime возвращается, когда время начала уже прошло
	// или нарушает минимальное время до начала услуги
	ErrInvalidStartTime = errors.New("invalid start time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
