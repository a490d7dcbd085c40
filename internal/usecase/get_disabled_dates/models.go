package get_disabled_dates

// Request модель запроса недоступных дат для услуги
type Request struct {
	ServiceID int64 // ID услуги
	Days      int   // Глубина просмотра в днях, 0 - значение по умолчанию
}

// Response модель ответа со списком полностью недоступных дат.
// Дата попадает в список, если бизнес закрыт или ни один слот
// длительности услуги не помещается в свободное время.
type Response struct {
	ServiceID     int64    // ID услуги
	BusinessID    int64    // ID бизнеса, которому принадлежит услуга
	From          string   // Первая проверенная дата (сегодня)
	To            string   // Последняя проверенная дата включительно
	DisabledDates []string // Недоступные даты по возрастанию
}
