package get_monthly_schedule

import "time"

// Request модель запроса месячной сводки расписания
type Request struct {
	BusinessID int64      // ID бизнеса
	Year       int        // Год, например 2026
	Month      time.Month // Месяц внутри года
}

// DaySummary сводка по одному дню месяца
type DaySummary struct {
	Date             string // "2026-09-15"
	IsDayOff         bool   // День закрыт расписанием или исключением
	IsFullyBlocked   bool   // Рабочее окно есть, но свободного времени нет
	HasReservations  bool   // Есть активные бронирования
	ReservationCount int    // Количество активных бронирований
	BlockCount       int    // Количество активных блокировок
}

// Response модель ответа с посуточной сводкой месяца
type Response struct {
	BusinessID int64        // ID бизнеса
	Year       int          // Год
	Month      time.Month   // Месяц
	Days       []DaySummary // Сводки по дням, по возрастанию даты
}
