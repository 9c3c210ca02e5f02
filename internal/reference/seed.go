package reference

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type SeedCategory struct {
	Name       string
	OrderIndex int
}

type SeedCurrency struct {
	Code        string
	DisplayName string
	Symbol      string
	IsBase      bool
	RateToBase  decimal.Decimal
}

type SeedCountry struct {
	Name string
	Code string
}

// SeedSet is the fixed reference data inserted at startup.
type SeedSet struct {
	Categories     []SeedCategory
	PaymentMethods []string
	Currencies     []SeedCurrency
	Countries      []SeedCountry
}

var seedCategories = []SeedCategory{
	{Name: "meals", OrderIndex: 1},
	{Name: "activities", OrderIndex: 2},
	{Name: "transportation", OrderIndex: 3},
	{Name: "accommodation", OrderIndex: 4},
	{Name: "others", OrderIndex: 5},
}

var seedPaymentMethods = []string{"card", "cash"}

// usdRates are US dollars per one unit of each currency.
var seedCurrencies = []struct {
	code, name, symbol, usdRate string
}{
	{"USD", "US Dollar", "$", "1"},
	{"EUR", "Euro", "€", "1.08"},
	{"GBP", "British Pound", "£", "1.27"},
	{"JPY", "Japanese Yen", "¥", "0.0067"},
	{"CAD", "Canadian Dollar", "C$", "0.73"},
	{"AUD", "Australian Dollar", "A$", "0.66"},
	{"CHF", "Swiss Franc", "CHF", "1.12"},
	{"CNY", "Chinese Yuan", "¥", "0.138"},
	{"MXN", "Mexican Peso", "MX$", "0.058"},
	{"THB", "Thai Baht", "฿", "0.028"},
	{"KRW", "South Korean Won", "₩", "0.00073"},
	{"IDR", "Indonesian Rupiah", "Rp", "0.000062"},
	{"INR", "Indian Rupee", "₹", "0.012"},
	{"SGD", "Singapore Dollar", "S$", "0.74"},
}

var seedCountries = []SeedCountry{
	{Name: "Australia", Code: "AU"},
	{Name: "Canada", Code: "CA"},
	{Name: "China", Code: "CN"},
	{Name: "France", Code: "FR"},
	{Name: "Germany", Code: "DE"},
	{Name: "Greece", Code: "GR"},
	{Name: "India", Code: "IN"},
	{Name: "Indonesia", Code: "ID"},
	{Name: "Italy", Code: "IT"},
	{Name: "Japan", Code: "JP"},
	{Name: "Mexico", Code: "MX"},
	{Name: "Netherlands", Code: "NL"},
	{Name: "Portugal", Code: "PT"},
	{Name: "Singapore", Code: "SG"},
	{Name: "South Korea", Code: "KR"},
	{Name: "Spain", Code: "ES"},
	{Name: "Switzerland", Code: "CH"},
	{Name: "Thailand", Code: "TH"},
	{Name: "United Kingdom", Code: "GB"},
	{Name: "United States", Code: "US"},
}

// DefaultSeedSet builds the seed data with every rate expressed relative to
// base. The base itself gets rate 1 and is flagged IsBase.
func DefaultSeedSet(base string) (SeedSet, error) {
	base = strings.ToUpper(strings.TrimSpace(base))

	var baseUSD decimal.Decimal
	for _, c := range seedCurrencies {
		if c.code == base {
			baseUSD = decimal.RequireFromString(c.usdRate)
		}
	}
	if baseUSD.IsZero() {
		return SeedSet{}, fmt.Errorf("base currency %q is not a seeded currency", base)
	}

	currencies := make([]SeedCurrency, 0, len(seedCurrencies))
	for _, c := range seedCurrencies {
		rate := decimal.NewFromInt(1)
		if c.code != base {
			rate = decimal.RequireFromString(c.usdRate).DivRound(baseUSD, 8)
		}
		currencies = append(currencies, SeedCurrency{
			Code:        c.code,
			DisplayName: c.name,
			Symbol:      c.symbol,
			IsBase:      c.code == base,
			RateToBase:  rate,
		})
	}

	return SeedSet{
		Categories:     seedCategories,
		PaymentMethods: seedPaymentMethods,
		Currencies:     currencies,
		Countries:      seedCountries,
	}, nil
}
