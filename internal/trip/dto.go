package trip

import (
	"strings"
	"time"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/core/common/validation"
)

const (
	MsgNameRequired      = "Trip name is required."
	MsgStartDateRequired = "Start date is required."
	MsgEndDateRequired   = "End date is required."
)

// TripForm holds the raw submitted values. It doubles as the JSON request
// body and as the values echoed back into a form after a failed submit.
type TripForm struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Country   string `json:"country,omitempty"`
}

// TripInput is a validated, normalized TripForm.
type TripInput struct {
	Name        string
	DisplayName string
	StartDate   time.Time
	EndDate     time.Time
	Country     string
}

func (f TripForm) Validate() (*TripInput, *internal.AppError) {
	var start, end time.Time

	err := validation.NewChain().
		Require("name", f.Name, MsgNameRequired).
		Require("start_date", f.StartDate, MsgStartDateRequired).
		Require("end_date", f.EndDate, MsgEndDateRequired).
		Date("start_date", f.StartDate, &start).
		Date("end_date", f.EndDate, &end).
		DateOrder("end_date", &start, &end).
		Validate()
	if err != nil {
		return nil, err
	}

	display := strings.TrimSpace(f.Name)
	return &TripInput{
		Name:        validation.Normalize(display),
		DisplayName: display,
		StartDate:   start,
		EndDate:     end,
		Country:     strings.TrimSpace(f.Country),
	}, nil
}

// FormFromTrip pre-fills the edit form.
func FormFromTrip(t *Trip) TripForm {
	return TripForm{
		Name:      t.Name,
		StartDate: t.StartDate.Format(validation.DateLayout),
		EndDate:   t.EndDate.Format(validation.DateLayout),
		Country:   t.CountryName,
	}
}

type TripResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Flag        string `json:"flag,omitempty"`
	TotalInBase string `json:"total_in_base"`
}

type TripsResponse struct {
	Trips        []TripResponse `json:"trips"`
	BaseCurrency string         `json:"base_currency"`
}

func (t *Trip) ToResponse() TripResponse {
	return TripResponse{
		ID:          t.ID,
		Name:        t.Name,
		StartDate:   t.StartDate.Format(validation.DateLayout),
		EndDate:     t.EndDate.Format(validation.DateLayout),
		Country:     t.CountryName,
		CountryCode: t.CountryCode,
		Flag:        t.Flag(),
		TotalInBase: t.TotalInBase.StringFixed(2),
	}
}
