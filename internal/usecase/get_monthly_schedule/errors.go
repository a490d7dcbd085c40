package get_monthly_schedule

import "errors"

var (
	// ErrInvalidMonth возвращается при некорректном месяце
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
