package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the default rate of exchange from a currency into the functional currency.
// It is only a suggestion for new postings; posted vouchers keep the rate they were posted with.
type ExchangeRate struct {
	CurrencyCode  string          `json:"currencyCode"` // e.g. "SAR"
	Rate          decimal.Decimal `json:"rate"`         // Units of functional currency per unit
	EffectiveFrom time.Time       `json:"effectiveFrom"`
	AuditFields
}

// ControlAccounts names the accounts that domain bookings post into.
type ControlAccounts struct {
	ReceivableAccountID string `json:"receivableAccountID"`
	PayableAccountID    string `json:"payableAccountID"`
	IncomeAccountID     string `json:"incomeAccountID"`
}

// Settings holds ledger-wide configuration persisted with the snapshot.
type Settings struct {
	FunctionalCurrency string                  `json:"functionalCurrency"`
	DefaultRates       map[string]ExchangeRate `json:"defaultRates"`
	Controls           ControlAccounts         `json:"controls"`
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	c := s
	c.DefaultRates = make(map[string]ExchangeRate, len(s.DefaultRates))
	for k, v := range s.DefaultRates {
		c.DefaultRates[k] = v
	}
	return c
}

// References reports whether id is used as a control account.
func (c ControlAccounts) References(id string) bool {
	return id != "" && (c.ReceivableAccountID == id || c.PayableAccountID == id || c.IncomeAccountID == id)
}
