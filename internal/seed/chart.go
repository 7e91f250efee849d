// Package seed loads a starting chart of accounts from a YAML file.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AccountSeed is one account of the seed chart.
type AccountSeed struct {
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// ControlSeed names, by title, the accounts bookings post into.
type ControlSeed struct {
	Receivable string `yaml:"receivable"`
	Payable    string `yaml:"payable"`
	Income     string `yaml:"income"`
}

// Chart is the seed file layout.
type Chart struct {
	Accounts     []AccountSeed     `yaml:"accounts"`
	Controls     ControlSeed       `yaml:"controls"`
	DefaultRates map[string]string `yaml:"default_rates"`
}

// LoadChart reads and parses a seed file.
func LoadChart(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseChart(data)
}

// ParseChart parses seed YAML and checks that every account type is known and every control title is present.
func ParseChart(data []byte) (*Chart, error) {
	var chart Chart
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	titles := make(map[string]bool, len(chart.Accounts))
	for i, a := range chart.Accounts {
		if a.Title == "" {
			return nil, fmt.Errorf("account %d has no title", i+1)
		}
		if !domain.AccountType(a.Type).IsValid() {
			return nil, fmt.Errorf("account %q has unknown type %q", a.Title, a.Type)
		}
		if titles[a.Title] {
			return nil, fmt.Errorf("account %q is listed twice", a.Title)
		}
		titles[a.Title] = true
	}
	for _, title := range []string{chart.Controls.Receivable, chart.Controls.Payable, chart.Controls.Income} {
		if title != "" && !titles[title] {
			return nil, fmt.Errorf("control account %q is not in the chart", title)
		}
	}
	for code, rate := range chart.DefaultRates {
		if _, err := decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("default rate for %s: %w", code, err)
		}
	}
	return &chart, nil
}

// Apply creates the chart's accounts when the ledger has none yet, then sets the control accounts
// and default rates. A ledger that already has accounts is left alone and Apply reports false.
func Apply(ctx context.Context, chart *Chart, accounts portssvc.AccountSvcFacade, rates portssvc.ExchangeRateSvcFacade, actor string) (bool, error) {
	existing, err := accounts.ListAccounts(ctx, dto.ListAccountsParams{IncludeInactive: true})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		slog.Debug("Chart already present, skipping seed", "accounts", len(existing))
		return false, nil
	}

	ids := make(map[string]string, len(chart.Accounts))
	for _, a := range chart.Accounts {
		created, err := accounts.CreateAccount(ctx, dto.CreateAccountRequest{
			Title:       a.Title,
			AccountType: domain.AccountType(a.Type),
			Description: a.Description,
		}, actor)
		if err != nil {
			return false, fmt.Errorf("seeding account %q: %w", a.Title, err)
		}
		ids[a.Title] = created.AccountID
	}

	c := chart.Controls
	if c.Receivable != "" && c.Payable != "" && c.Income != "" {
		_, err := accounts.SetControlAccounts(ctx, dto.ControlAccountsRequest{
			ReceivableAccountID: ids[c.Receivable],
			PayableAccountID:    ids[c.Payable],
			IncomeAccountID:     ids[c.Income],
		}, actor)
		if err != nil {
			return false, fmt.Errorf("seeding control accounts: %w", err)
		}
	}

	for code, raw := range chart.DefaultRates {
		rate, _ := decimal.NewFromString(raw)
		if _, err := rates.SetDefaultRate(ctx, dto.SetExchangeRateRequest{CurrencyCode: code, Rate: rate}, actor); err != nil {
			return false, fmt.Errorf("seeding rate for %s: %w", code, err)
		}
	}

	slog.Info("Seeded chart of accounts", "accounts", len(chart.Accounts), "rates", len(chart.DefaultRates))
	return true, nil
}
