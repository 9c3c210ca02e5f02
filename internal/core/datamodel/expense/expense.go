package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID              int64           `gorm:"primaryKey"`
	TripID          int64           `gorm:"column:trip_id;not null"`
	PurchaseDate    *time.Time      `gorm:"column:purchase_date;type:date"`
	CategoryID      int64           `gorm:"column:category_id;not null"`
	PaymentMethodID int64           `gorm:"column:payment_method_id;not null"`
	CurrencyID      int64           `gorm:"column:currency_id;not null"`
	Item            string          `gorm:"column:item;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
