package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/core/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/repositories/storage/memory"
	"github.com/SscSPs/agency_books/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartYAML = `
accounts:
  - title: Cash in Hand
    type: CASH
  - title: Receivable
    type: RECEIVABLE
  - title: Payable
    type: PAYABLE
  - title: Service Income
    type: INCOME
    description: Margin on bookings
controls:
  receivable: Receivable
  payable: Payable
  income: Service Income
default_rates:
  SAR: "74.50"
`

func TestParseChart_Errors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "accounts: [",
		"unknown type":    "accounts:\n  - title: Cash\n    type: ASSET\n",
		"missing title":   "accounts:\n  - type: CASH\n",
		"duplicate title": "accounts:\n  - title: Cash\n    type: CASH\n  - title: Cash\n    type: BANK\n",
		"unknown control": "accounts:\n  - title: Cash\n    type: CASH\ncontrols:\n  receivable: Debtors\n",
		"bad rate":        "default_rates:\n  SAR: abc\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := seed.ParseChart([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadChart_MissingFile(t *testing.T) {
	_, err := seed.LoadChart(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read seed file")
}

func TestApply_SeedsEmptyLedgerOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(chartYAML), 0o600))

	chart, err := seed.LoadChart(path)
	require.NoError(t, err)

	state, err := services.NewLedgerState(ctx, memory.NewSnapshotStore(), "PKR")
	require.NoError(t, err)
	accounts := services.NewAccountService(state)
	rates := services.NewExchangeRateService(state)

	seeded, err := seed.Apply(ctx, chart, accounts, rates, "seed")
	require.NoError(t, err)
	assert.True(t, seeded)

	list, err := accounts.ListAccounts(ctx, dto.ListAccountsParams{})
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "AC-0001", list[0].Code)
	assert.Equal(t, "Margin on bookings", list[3].Description)

	controls, err := accounts.GetControlAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, list[1].AccountID, controls.ReceivableAccountID)
	assert.Equal(t, list[2].AccountID, controls.PayableAccountID)
	assert.Equal(t, list[3].AccountID, controls.IncomeAccountID)

	rate, err := rates.GetDefaultRate(ctx, "SAR")
	require.NoError(t, err)
	assert.Equal(t, "74.5", rate.Rate.String())

	seeded, err = seed.Apply(ctx, chart, accounts, rates, "seed")
	require.NoError(t, err)
	assert.False(t, seeded)
	list, err = accounts.ListAccounts(ctx, dto.ListAccountsParams{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.Equal(t, domain.Cash, list[0].AccountType)
}
