package reference

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"column:name;uniqueIndex;not null"`
	OrderIndex int    `gorm:"column:order_index;not null"`
}

func (Category) TableName() string {
	return "categories"
}

type PaymentMethod struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (PaymentMethod) TableName() string {
	return "paymentMethods"
}

type Currency struct {
	ID          int64  `gorm:"primaryKey"`
	Code        string `gorm:"column:code;uniqueIndex;not null"`
	DisplayName string `gorm:"column:display_name;not null"`
	Symbol      string `gorm:"column:symbol;not null"`
	IsBase      bool   `gorm:"column:is_base;not null;default:false"`
}

func (Currency) TableName() string {
	return "currencies"
}

// ExchangeRate is one-to-one with Currency.
type ExchangeRate struct {
	ID         int64           `gorm:"primaryKey"`
	CurrencyID int64           `gorm:"column:currency_id;uniqueIndex;not null"`
	RateToBase decimal.Decimal `gorm:"column:rate_to_base;type:numeric(18,8);not null"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExchangeRate) TableName() string {
	return "exchangeRates"
}

type Country struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
	Code string `gorm:"column:code;uniqueIndex;not null"`
}

func (Country) TableName() string {
	return "countries"
}
