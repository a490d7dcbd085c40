package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrUnavailable возвращается, когда сервис уведомлений недоступен
	ErrUnavailable = errors.New("notifier client: service unavailable")
)
