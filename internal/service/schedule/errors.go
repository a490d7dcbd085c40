package schedule

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrScheduleNotFound возвращается, когда у бизнеса нет расписания
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrExceptionNotFound возвращается, когда исключение на дату не найдено
	ErrExceptionNotFound = errors.New("exception date not found")

	// ErrBlockNotFound возвращается, когда блокировка времени не найдена
	ErrBlockNotFound = errors.New("time block not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrTimeConflict возвращается, когда интервал пересекается с активными
	// бронированиями или блокировками
	ErrTimeConflict = errors.New("time interval conflicts with existing entries")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
