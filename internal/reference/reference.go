package reference

import (
	"strings"

	refDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/reference"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}

type PaymentMethod struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Currency carries its current rate into the base currency.
type Currency struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	DisplayName string          `json:"display_name"`
	Symbol      string          `json:"symbol"`
	IsBase      bool            `json:"is_base"`
	RateToBase  decimal.Decimal `json:"rate_to_base"`
}

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Flag turns an ISO-3166 alpha-2 code into its regional indicator pair,
// e.g. "JP" -> 🇯🇵. Anything that is not two ASCII letters yields "".
func (c Country) Flag() string {
	return Flag(c.Code)
}

func Flag(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// Lookups is everything a trip or expense form needs to offer choices.
type Lookups struct {
	Categories     []*Category
	PaymentMethods []*PaymentMethod
	Currencies     []*Currency
	Countries      []*Country
}

func CategoryFromDataModel(c *refDatamodel.Category) *Category {
	return &Category{ID: c.ID, Name: c.Name, OrderIndex: c.OrderIndex}
}

func PaymentMethodFromDataModel(p *refDatamodel.PaymentMethod) *PaymentMethod {
	return &PaymentMethod{ID: p.ID, Name: p.Name}
}

func CountryFromDataModel(c *refDatamodel.Country) *Country {
	return &Country{ID: c.ID, Name: c.Name, Code: c.Code}
}
