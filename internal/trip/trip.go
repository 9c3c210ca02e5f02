package trip

import (
	"time"

	tripDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/trip"
	"github.com/frahmantamala/travel-expense/internal/reference"
	"github.com/shopspring/decimal"
)

// Trip is a named travel period. Name keeps the casing the user typed;
// uniqueness is checked on its lowercased form.
type Trip struct {
	ID          int64
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	CountryID   *int64
	CountryName string
	CountryCode string
	TotalInBase decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Trip) Flag() string {
	return reference.Flag(t.CountryCode)
}

// Days is the inclusive length of the trip.
func (t *Trip) Days() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

func ToDataModel(input *TripInput) *tripDatamodel.Trip {
	return &tripDatamodel.Trip{
		Name:        input.Name,
		DisplayName: input.DisplayName,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
}

func FromDataModel(t *tripDatamodel.Trip) *Trip {
	out := &Trip{
		ID:        t.ID,
		Name:      t.DisplayName,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		CountryID: t.CountryID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Country != nil {
		out.CountryName = t.Country.Name
		out.CountryCode = t.Country.Code
	}
	return out
}
