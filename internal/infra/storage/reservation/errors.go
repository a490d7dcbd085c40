package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrBlockNotFound возвращается, когда административный блок не найден
	ErrBlockNotFound = errors.New("reservation.repository: time block not found")

	// ErrDuplicateOrderID возвращается при попытке вставить бронирование с уже существующим order_id
	ErrDuplicateOrderID = errors.New("reservation.repository: duplicate order id")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
