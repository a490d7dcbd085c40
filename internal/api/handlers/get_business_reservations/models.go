package get_business_reservations

import (
	"fmt"
	"net/url"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров.
// date задает один день, from/to задают период; date и период несовместимы.
func ToServiceRequest(userID, businessID int64, query url.Values) (*models.GetBusinessReservationsRequest, error) {
	req := &models.GetBusinessReservationsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	dateStr := query.Get("date")
	fromStr := query.Get("from")
	toStr := query.Get("to")

	if dateStr != "" && (fromStr != "" || toStr != "") {
		return nil, fmt.Errorf("date and from/to are mutually exclusive")
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", dateStr)
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from %q", fromStr)
		}
		req.StartDate = &from
	}
	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to %q", toStr)
		}
		req.EndDate = &to
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if query.Get("includeInactive") == "true" {
		req.IncludeInactive = true
	}

	return req, nil
}
