package validation

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/travel-expense/internal"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

const (
	MsgInvalidDate       = "Invalid date format."
	MsgInvalidDateRange  = "End date must be on or after the start date."
	MsgAmountNotNumber   = "Amount must be a number."
	MsgAmountNotPositive = "Amount must be greater than zero."
	MsgAmountTooLarge    = "Amount is too large."
)

// amounts are stored as NUMERIC(12,2)
var maxAmount = decimal.RequireFromString("9999999999.99")

// Chain runs checks in the order they are added and stops at the first
// failure. Every later call is a no-op once a check has failed, so callers
// add presence checks first, then dates, date ranges and amounts.
type Chain struct {
	err *errors.AppError
}

func NewChain() *Chain {
	return &Chain{}
}

func (c *Chain) failed() bool {
	return c.err != nil
}

func (c *Chain) fail(field, message string, code errors.ErrorCode) *Chain {
	c.err = errors.NewValidationFieldError(field, message, code)
	return c
}

// Require fails with message when value is blank.
func (c *Chain) Require(field, value, message string) *Chain {
	if c.failed() {
		return c
	}
	if strings.TrimSpace(value) == "" {
		return c.fail(field, message, errors.ErrCodeMissingField)
	}
	return c
}

// Date parses raw as YYYY-MM-DD into dest.
func (c *Chain) Date(field, raw string, dest *time.Time) *Chain {
	if c.failed() {
		return c
	}
	t, ok := ParseDate(raw)
	if !ok {
		return c.fail(field, MsgInvalidDate, errors.ErrCodeInvalidDate)
	}
	*dest = t
	return c
}

// OptionalDate leaves dest nil for a blank value and otherwise behaves like Date.
func (c *Chain) OptionalDate(field, raw string, dest **time.Time) *Chain {
	if c.failed() || strings.TrimSpace(raw) == "" {
		return c
	}
	var t time.Time
	c.Date(field, raw, &t)
	if !c.failed() {
		*dest = &t
	}
	return c
}

// DateOrder requires start <= end. The pointers are read when the check
// runs, after earlier Date calls in the same chain have filled them.
func (c *Chain) DateOrder(field string, start, end *time.Time) *Chain {
	if c.failed() {
		return c
	}
	if start.After(*end) {
		return c.fail(field, MsgInvalidDateRange, errors.ErrCodeInvalidDateRange)
	}
	return c
}

// PositiveAmount parses raw as a decimal rounded half-up to two places and
// requires the rounded value to be greater than zero.
func (c *Chain) PositiveAmount(field, raw string, dest *decimal.Decimal) *Chain {
	if c.failed() {
		return c
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return c.fail(field, MsgAmountNotNumber, errors.ErrCodeInvalidAmount)
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return c.fail(field, MsgAmountNotPositive, errors.ErrCodeInvalidAmount)
	}
	if amount.GreaterThan(maxAmount) {
		return c.fail(field, MsgAmountTooLarge, errors.ErrCodeInvalidAmount)
	}
	*dest = amount
	return c
}

// Validate returns the first failure, or nil.
func (c *Chain) Validate() *errors.AppError {
	return c.err
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Normalize trims and lowercases a free-text or reference name.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
