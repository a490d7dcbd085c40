package catalog

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден в каталоге
	ErrBusinessNotFound = errors.New("catalog client: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("catalog client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalog client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalog client: invalid response")

	// ErrUnavailable возвращается, когда каталог недоступен.
	// Отличается от NotFound: вызывающий видит "данные недоступны",
	// а не "данных нет" - подмена ответа заглушкой недопустима.
	ErrUnavailable = errors.New("catalog client: service unavailable")
)
