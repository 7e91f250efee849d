package accounting

import (
	"fmt"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FunctionalPrecision is the number of decimal places kept for functional-currency amounts.
const FunctionalPrecision = 2

// BalanceTolerance is the largest difference between a voucher's converted native totals
// that posting still accepts. Stored entries always balance exactly.
var BalanceTolerance = decimal.New(1, -FunctionalPrecision)

// NetStrategy turns a (debit, credit) pair into the signed net effect for a ledger kind.
type NetStrategy func(debit, credit decimal.Decimal) decimal.Decimal

// DebitPositive nets debit minus credit. Used for accounts and customers.
func DebitPositive(debit, credit decimal.Decimal) decimal.Decimal {
	return debit.Sub(credit)
}

// CreditPositive nets credit minus debit. Used for vendors, so a positive balance is owed by the agency.
func CreditPositive(debit, credit decimal.Decimal) decimal.Decimal {
	return credit.Sub(debit)
}

// StrategyFor returns the sign convention for a ledger kind.
func StrategyFor(kind domain.LedgerKind) (NetStrategy, error) {
	switch kind {
	case domain.AccountLedger, domain.CustomerLedger:
		return DebitPositive, nil
	case domain.VendorLedger:
		return CreditPositive, nil
	default:
		return nil, fmt.Errorf("unknown ledger kind '%s'", kind)
	}
}

// ToFunctional converts a native amount with the rate fixed at posting time, rounded to the functional precision.
func ToFunctional(native, roe decimal.Decimal) decimal.Decimal {
	return native.Mul(roe).Round(FunctionalPrecision)
}

// WithinTolerance reports whether two totals are equal within BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// SumEntries totals the debit and credit columns of a set of entries.
func SumEntries(entries []domain.VoucherEntry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// AbsorbRounding makes converted entries balance exactly by adding the residual to the
// largest line of the lighter side. No line shrinks or changes side. It returns the residual
// that was absorbed.
func AbsorbRounding(entries []domain.VoucherEntry) decimal.Decimal {
	debit, credit := SumEntries(entries)
	diff := debit.Sub(credit)
	if diff.IsZero() {
		return diff
	}

	lighter := func(e domain.VoucherEntry) decimal.Decimal {
		if diff.IsPositive() {
			return e.Credit
		}
		return e.Debit
	}
	target := -1
	for i, e := range entries {
		amt := lighter(e)
		if amt.IsZero() {
			continue
		}
		if target < 0 || amt.GreaterThan(lighter(entries[target])) {
			target = i
		}
	}
	if target < 0 {
		return decimal.Zero
	}
	if diff.IsPositive() {
		entries[target].Credit = entries[target].Credit.Add(diff)
	} else {
		entries[target].Debit = entries[target].Debit.Add(diff.Neg())
	}
	return diff.Abs()
}

// ValidateVoucherBalance checks that a voucher's entries balance exactly.
func ValidateVoucherBalance(entries []domain.VoucherEntry) error {
	debit, credit := SumEntries(entries)
	if !debit.Equal(credit) {
		return fmt.Errorf("voucher does not balance: debits sum is %s and credits sum is %s", debit.String(), credit.String())
	}
	return nil
}
