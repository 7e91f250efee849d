package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucher_IsMultiCurrency(t *testing.T) {
	tests := []struct {
		name    string
		voucher domain.Voucher
		want    bool
	}{
		{name: "functional currency", voucher: domain.Voucher{CurrencyCode: "PKR"}, want: false},
		{name: "currency omitted", voucher: domain.Voucher{}, want: false},
		{name: "foreign currency", voucher: domain.Voucher{CurrencyCode: "SAR"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.voucher.IsMultiCurrency("PKR"))
		})
	}
}

func TestVoucher_TotalsAndReferences(t *testing.T) {
	v := domain.Voucher{Entries: []domain.VoucherEntry{
		{AccountID: "cash", Debit: decimal.NewFromInt(150), Credit: decimal.Zero},
		{AccountID: "recv", PartyID: "cus-1", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		{AccountID: "inc", Debit: decimal.Zero, Credit: decimal.NewFromInt(50)},
	}}

	debit, credit := v.Totals()
	assert.True(t, debit.Equal(decimal.NewFromInt(150)))
	assert.True(t, credit.Equal(decimal.NewFromInt(150)))
	assert.True(t, v.References("cus-1"))
	assert.True(t, v.References("inc"))
	assert.False(t, v.References("bank"))
	assert.Equal(t, domain.Credit, v.Entries[1].Side())
	assert.True(t, v.Entries[1].Amount().Equal(decimal.NewFromInt(100)))
}

func TestVoucherType_Prefix(t *testing.T) {
	assert.Equal(t, "RV", domain.ReceiptVoucher.Prefix())
	assert.Equal(t, "HV", domain.HotelVoucher.Prefix())
	assert.Equal(t, "TR", domain.TransportVoucher.Prefix())
	assert.False(t, domain.VoucherType("LOAN").IsValid())
}

func TestCodes_FormatParse(t *testing.T) {
	assert.Equal(t, "HV-0007", domain.FormatCode("HV", 7))
	assert.Equal(t, "CUS-12345", domain.FormatCode("CUS", 12345))

	n, ok := domain.ParseCode("HV", "HV-0042")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = domain.ParseCode("HV", "RV-0042")
	assert.False(t, ok)
	_, ok = domain.ParseCode("HV", "HV-abc")
	assert.False(t, ok)
}

func TestSnapshot_SequencesAreMonotonic(t *testing.T) {
	s := domain.NewSnapshot("PKR")
	key := domain.VoucherSequence(domain.HotelVoucher)

	assert.Equal(t, int64(1), s.NextSequence(key))
	assert.Equal(t, int64(2), s.NextSequence(key))

	s.ObserveSequence(key, 1)
	assert.Equal(t, int64(3), s.NextSequence(key), "observing a lower value must not rewind")

	s.Vouchers = append(s.Vouchers, domain.Voucher{VoucherType: domain.HotelVoucher, VoucherNumber: "HV-0010"})
	s.Parties = append(s.Parties, domain.Party{Kind: domain.Vendor, Code: "VEN-0004"})
	s.ReconcileSequences()
	assert.Equal(t, int64(11), s.NextSequence(key))
	assert.Equal(t, int64(5), s.NextSequence(domain.PartySequence(domain.Vendor)))
	assert.Equal(t, int64(1), s.NextSequence(domain.PartySequence(domain.Customer)))
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := domain.NewSnapshot("PKR")
	s.Vouchers = append(s.Vouchers, domain.Voucher{
		VoucherID: "v1",
		Entries:   []domain.VoucherEntry{{AccountID: "a1", Debit: decimal.NewFromInt(1)}},
	})
	s.Settings.DefaultRates["SAR"] = domain.ExchangeRate{CurrencyCode: "SAR", Rate: decimal.NewFromFloat(74.5)}

	c := s.Clone()
	c.Vouchers[0].Entries[0].AccountID = "changed"
	c.Settings.DefaultRates["SAR"] = domain.ExchangeRate{CurrencyCode: "SAR", Rate: decimal.NewFromInt(1)}
	c.NextSequence("x")

	assert.Equal(t, "a1", s.Vouchers[0].Entries[0].AccountID)
	assert.True(t, s.Settings.DefaultRates["SAR"].Rate.Equal(decimal.NewFromFloat(74.5)))
	assert.Zero(t, s.Sequences["x"])
}

func TestSnapshot_DeletionMarks(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := domain.NewSnapshot("PKR")
	assert.False(t, s.WasDeleted("v1"))

	s.MarkDeleted("v2", at)
	s.MarkDeleted("v1", at)
	c := s.Clone()
	c.MarkDeleted("a1", at)

	assert.True(t, s.WasDeleted("v1"))
	assert.False(t, s.WasDeleted("a1"))
	assert.Equal(t, []string{"v1", "v2"}, domain.BatchFromSnapshot(s).Deleted)
}

func TestParty_OpeningAmounts(t *testing.T) {
	p := domain.Party{OpeningBalance: decimal.NewFromInt(500), OpeningSide: domain.Credit}
	debit, credit := p.OpeningAmounts()
	assert.True(t, debit.IsZero())
	assert.True(t, credit.Equal(decimal.NewFromInt(500)))

	p.OpeningSide = domain.Debit
	debit, credit = p.OpeningAmounts()
	assert.True(t, debit.Equal(decimal.NewFromInt(500)))
	assert.True(t, credit.IsZero())
}

var controls = domain.ControlAccounts{
	ReceivableAccountID: "recv",
	PayableAccountID:    "pay",
	IncomeAccountID:     "inc",
}

func marginSale(sale, cost int64) domain.MarginSale {
	return domain.MarginSale{
		Pricing:    domain.Pricing{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		CustomerID: "cus-1",
		VendorID:   "ven-1",
		SaleAmount: decimal.NewFromInt(sale),
		CostAmount: decimal.NewFromInt(cost),
	}
}

func TestHotelDetails_Derive(t *testing.T) {
	tests := []struct {
		name       string
		sale, cost int64
		want       []domain.EntryLine
	}{
		{
			name: "profitable sale",
			sale: 100000, cost: 80000,
			want: []domain.EntryLine{
				domain.DebitLine("recv", "cus-1", decimal.NewFromInt(100000), ""),
				domain.CreditLine("pay", "ven-1", decimal.NewFromInt(80000), ""),
				domain.CreditLine("inc", "", decimal.NewFromInt(20000), ""),
			},
		},
		{
			name: "sold at a loss",
			sale: 900, cost: 1000,
			want: []domain.EntryLine{
				domain.DebitLine("recv", "cus-1", decimal.NewFromInt(900), ""),
				domain.CreditLine("pay", "ven-1", decimal.NewFromInt(1000), ""),
				domain.DebitLine("inc", "", decimal.NewFromInt(100), ""),
			},
		},
		{
			name: "sold at cost",
			sale: 500, cost: 500,
			want: []domain.EntryLine{
				domain.DebitLine("recv", "cus-1", decimal.NewFromInt(500), ""),
				domain.CreditLine("pay", "ven-1", decimal.NewFromInt(500), ""),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &domain.HotelDetails{MarginSale: marginSale(tt.sale, tt.cost), HotelName: "Hilton"}
			require.NoError(t, h.Validate())

			lines, err := h.Derive(controls)
			require.NoError(t, err)
			require.Len(t, lines, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].AccountID, lines[i].AccountID)
				assert.Equal(t, tt.want[i].PartyID, lines[i].PartyID)
				assert.True(t, tt.want[i].Debit.Equal(lines[i].Debit), "debit of line %d", i)
				assert.True(t, tt.want[i].Credit.Equal(lines[i].Credit), "credit of line %d", i)
			}
		})
	}
}

func TestMarginSale_ValidateRejectsBadAmounts(t *testing.T) {
	v := &domain.VisaDetails{MarginSale: marginSale(0, 10), Country: "UAE", ApplicantName: "A"}
	assert.ErrorIs(t, v.Validate(), apperrors.ErrValidation)

	tk := &domain.TicketDetails{MarginSale: marginSale(10, -1), Airline: "PK", PassengerName: "B"}
	assert.ErrorIs(t, tk.Validate(), apperrors.ErrValidation)
}

func TestReceiptDetails_DeriveBySource(t *testing.T) {
	tests := []struct {
		source        domain.ReceiptSource
		partyID       string
		creditAccount string
	}{
		{source: domain.FromCustomer, partyID: "cus-1", creditAccount: "recv"},
		{source: domain.FromVendor, partyID: "ven-1", creditAccount: "pay"},
		{source: domain.FromOther, partyID: "", creditAccount: "inc"},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			r := &domain.ReceiptDetails{
				Source:           tt.source,
				PartyID:          tt.partyID,
				DepositAccountID: "cash",
				Amount:           decimal.NewFromInt(50000),
			}
			require.NoError(t, r.Validate())

			lines, err := r.Derive(controls)
			require.NoError(t, err)
			require.Len(t, lines, 2)
			assert.Equal(t, "cash", lines[0].AccountID)
			assert.True(t, lines[0].Debit.Equal(decimal.NewFromInt(50000)))
			assert.Equal(t, tt.creditAccount, lines[1].AccountID)
			assert.Equal(t, tt.partyID, lines[1].PartyID)
			assert.True(t, lines[1].Credit.Equal(decimal.NewFromInt(50000)))
		})
	}
}

func TestReceiptDetails_RequiresPartyUnlessOther(t *testing.T) {
	r := &domain.ReceiptDetails{Source: domain.FromCustomer, DepositAccountID: "cash", Amount: decimal.NewFromInt(1)}
	assert.ErrorIs(t, r.Validate(), apperrors.ErrValidation)
}

func TestTransportDetails_Derive(t *testing.T) {
	tr := &domain.TransportDetails{CustomerID: "cus-1", Route: "JED-MED", Amount: decimal.NewFromInt(3000)}
	lines, err := tr.Derive(controls)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "recv", lines[0].AccountID)
	assert.Equal(t, "cus-1", lines[0].PartyID)
	assert.Equal(t, "inc", lines[1].AccountID)
	assert.True(t, lines[1].Credit.Equal(decimal.NewFromInt(3000)))
}

func TestBooking_SetDetailsRoundTrip(t *testing.T) {
	var b domain.Booking
	h := &domain.HotelDetails{MarginSale: marginSale(10, 5), HotelName: "Marriott"}
	require.NoError(t, b.SetDetails(h))
	assert.Equal(t, domain.BookingHotel, b.Kind)

	d, err := b.Details()
	require.NoError(t, err)
	assert.Same(t, h, d)

	require.NoError(t, b.SetDetails(&domain.TransportDetails{CustomerID: "c"}))
	assert.Nil(t, b.Hotel)
	assert.Equal(t, domain.BookingTransport, b.Kind)
}
