package domain

// Default configuration values
const (
	DefaultMinLeadMinutes    = 0   // services may override with a minimum lead time
	DefaultDisabledDatesDays = 30  // advance window scanned by disabled-dates queries
	MaxDisabledDatesDays     = 365 // upper bound for the advance window
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxNotesLength            = 500
	MaxReasonLength           = 500
	DaysPerWeek               = 7
)

// Time format constants
const (
	TimeFormat      = "15:04"      // HH:MM
	DateFormat      = "2006-01-02" // YYYY-MM-DD
	YearMonthFormat = "2006-01"    // YYYY-MM
)

// InactiveStatuses reservation statuses that do not occupy the ledger.
// Used when computing slot availability.
var InactiveStatuses = []ReservationStatus{
	StatusCanceled,
}

// ActiveStatuses reservation statuses that occupy the ledger.
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
