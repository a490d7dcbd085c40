package paygate

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда шлюз отклонил платеж
	ErrPaymentDeclined = errors.New("paygate client: payment declined")

	// ErrPaymentNotFound возвращается, когда платеж не найден на стороне шлюза
	ErrPaymentNotFound = errors.New("paygate client: payment not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paygate client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paygate client: invalid response")

	// ErrUnavailable возвращается, когда шлюз недоступен
	ErrUnavailable = errors.New("paygate client: service unavailable")
)
