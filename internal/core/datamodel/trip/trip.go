package trip

import (
	"time"

	refDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/reference"
)

// Trip is the stored row. Name is the lowercased uniqueness key,
// DisplayName keeps the casing the user typed.
type Trip struct {
	ID          int64                 `gorm:"primaryKey"`
	Name        string                `gorm:"column:name;uniqueIndex;not null"`
	DisplayName string                `gorm:"column:display_name;not null"`
	StartDate   time.Time             `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time             `gorm:"column:end_date;type:date;not null"`
	CountryID   *int64                `gorm:"column:country_id"`
	Country     *refDatamodel.Country `gorm:"foreignKey:CountryID"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Trip) TableName() string {
	return "trips"
}
