package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
	"github.com/SscSPs/agency_books/internal/models"
	"github.com/SscSPs/agency_books/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSyncRepository mirrors the ledger collections into PostgreSQL.
type PgxSyncRepository struct {
	BaseRepository
}

// newPgxSyncRepository creates the remote ledger repository.
func newPgxSyncRepository(pool *pgxpool.Pool) *PgxSyncRepository {
	return &PgxSyncRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RemoteLedgerFacade = (*PgxSyncRepository)(nil)

const (
	upsertAccountQuery = `
		INSERT INTO accounts (account_id, code, title, account_type, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account_id) DO UPDATE SET
			code = EXCLUDED.code, title = EXCLUDED.title, account_type = EXCLUDED.account_type,
			description = EXCLUDED.description, is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	upsertPartyQuery = `
		INSERT INTO parties (party_id, kind, code, name, phone, email, address, opening_balance, opening_side, opening_date, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (party_id) DO UPDATE SET
			kind = EXCLUDED.kind, code = EXCLUDED.code, name = EXCLUDED.name, phone = EXCLUDED.phone,
			email = EXCLUDED.email, address = EXCLUDED.address, opening_balance = EXCLUDED.opening_balance,
			opening_side = EXCLUDED.opening_side, opening_date = EXCLUDED.opening_date, is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	upsertVoucherQuery = `
		INSERT INTO vouchers (voucher_id, voucher_number, voucher_date, voucher_type, description, total_amount, native_amount, currency_code, roe, status,
			original_voucher_id, reversing_voucher_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (voucher_id) DO UPDATE SET
			voucher_number = EXCLUDED.voucher_number, voucher_date = EXCLUDED.voucher_date, voucher_type = EXCLUDED.voucher_type,
			description = EXCLUDED.description, total_amount = EXCLUDED.total_amount, native_amount = EXCLUDED.native_amount,
			currency_code = EXCLUDED.currency_code, roe = EXCLUDED.roe, status = EXCLUDED.status,
			original_voucher_id = EXCLUDED.original_voucher_id, reversing_voucher_id = EXCLUDED.reversing_voucher_id,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	deleteEntriesQuery = `DELETE FROM voucher_entries WHERE voucher_id = $1;`
	insertEntryQuery   = `
		INSERT INTO voucher_entries (entry_id, voucher_id, line_no, account_id, party_id, debit, credit, narration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	upsertBookingQuery = `
		INSERT INTO bookings (booking_id, kind, voucher_id, details, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (booking_id) DO UPDATE SET
			kind = EXCLUDED.kind, voucher_id = EXCLUDED.voucher_id, details = EXCLUDED.details,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
)

// purgeQueries remove deleted ids, children before parents.
var purgeQueries = []string{
	`DELETE FROM bookings WHERE booking_id = ANY($1) OR voucher_id = ANY($1);`,
	`DELETE FROM voucher_entries WHERE voucher_id = ANY($1);`,
	`DELETE FROM vouchers WHERE voucher_id = ANY($1);`,
	`DELETE FROM parties WHERE party_id = ANY($1);`,
	`DELETE FROM accounts WHERE account_id = ANY($1);`,
}

// queueBatch builds one pgx batch holding the upserts of every record in b, followed by
// the removal of every id b marks as deleted.
// A voucher's entries are replaced wholesale so a replaced voucher never keeps stale lines.
func queueBatch(b domain.SyncBatch) (*pgx.Batch, error) {
	batch := &pgx.Batch{}
	for _, a := range b.Accounts {
		m := mapping.ToModelAccount(a)
		batch.Queue(upsertAccountQuery, m.AccountID, m.Code, m.Title, m.AccountType, m.Description, m.IsActive,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	for _, p := range b.Parties {
		m := mapping.ToModelParty(p)
		batch.Queue(upsertPartyQuery, m.PartyID, m.Kind, m.Code, m.Name, m.Phone, m.Email, m.Address,
			m.OpeningBalance, m.OpeningSide, m.OpeningDate, m.IsActive,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	for _, v := range b.Vouchers {
		m, entries := mapping.ToModelVoucher(v)
		batch.Queue(upsertVoucherQuery, m.VoucherID, m.VoucherNumber, m.VoucherDate, m.VoucherType, m.Description,
			m.TotalAmount, m.NativeAmount, m.CurrencyCode, m.ROE, m.Status,
			m.OriginalVoucherID, m.ReversingVoucherID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
		batch.Queue(deleteEntriesQuery, m.VoucherID)
		for _, e := range entries {
			batch.Queue(insertEntryQuery, e.EntryID, e.VoucherID, e.LineNo, e.AccountID, e.PartyID, e.Debit, e.Credit, e.Narration)
		}
	}
	for _, bk := range b.Bookings {
		m, err := mapping.ToModelBooking(bk)
		if err != nil {
			return nil, err
		}
		batch.Queue(upsertBookingQuery, m.BookingID, m.Kind, m.VoucherID, m.Details,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	if len(b.Deleted) > 0 {
		for _, q := range purgeQueries {
			batch.Queue(q, b.Deleted)
		}
	}
	return batch, nil
}

// PushBatch upserts every record and drops deleted ids in one database transaction.
// Repeating a push is harmless.
func (r *PgxSyncRepository) PushBatch(ctx context.Context, b domain.SyncBatch) error {
	batch, err := queueBatch(b)
	if err != nil {
		return apperrors.NewAppError(400, "failed to prepare sync batch", err)
	}

	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to execute sync batch of %d records", b.Size()), err)
		}
		return nil
	})
}

// PullBatch reads every collection inside one read-only transaction so the result is consistent.
func (r *PgxSyncRepository) PullBatch(ctx context.Context) (*domain.SyncBatch, error) {
	out := &domain.SyncBatch{}
	err := r.inTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead}, func(tx pgx.Tx) error {
		var err error
		if out.Accounts, err = pullAccounts(ctx, tx); err != nil {
			return err
		}
		if out.Parties, err = pullParties(ctx, tx); err != nil {
			return err
		}
		if out.Vouchers, err = pullVouchers(ctx, tx); err != nil {
			return err
		}
		out.Bookings, err = pullBookings(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func pullAccounts(ctx context.Context, tx pgx.Tx) ([]domain.Account, error) {
	rows, err := tx.Query(ctx, `
		SELECT account_id, code, title, account_type, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts ORDER BY code;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		var m models.Account
		err := row.Scan(&m.AccountID, &m.Code, &m.Title, &m.AccountType, &m.Description, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

func pullParties(ctx context.Context, tx pgx.Tx) ([]domain.Party, error) {
	rows, err := tx.Query(ctx, `
		SELECT party_id, kind, code, name, phone, email, address, opening_balance, opening_side, opening_date, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM parties ORDER BY kind, code;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	parties, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Party, error) {
		var m models.Party
		err := row.Scan(&m.PartyID, &m.Kind, &m.Code, &m.Name, &m.Phone, &m.Email, &m.Address,
			&m.OpeningBalance, &m.OpeningSide, &m.OpeningDate, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
		return mapping.ToDomainParty(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan parties: %w", err)
	}
	return parties, nil
}

func pullVouchers(ctx context.Context, tx pgx.Tx) ([]domain.Voucher, error) {
	rows, err := tx.Query(ctx, `
		SELECT entry_id, voucher_id, line_no, account_id, party_id, debit, credit, narration
		FROM voucher_entries ORDER BY voucher_id, line_no;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voucher entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.VoucherEntry, error) {
		var e models.VoucherEntry
		err := row.Scan(&e.EntryID, &e.VoucherID, &e.LineNo, &e.AccountID, &e.PartyID, &e.Debit, &e.Credit, &e.Narration)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan voucher entries: %w", err)
	}
	byVoucher := make(map[string][]models.VoucherEntry)
	for _, e := range entries {
		byVoucher[e.VoucherID] = append(byVoucher[e.VoucherID], e)
	}

	// created_at keeps the original posting order across writers.
	rows, err = tx.Query(ctx, `
		SELECT voucher_id, voucher_number, voucher_date, voucher_type, description, total_amount, native_amount, currency_code, roe, status,
		       original_voucher_id, reversing_voucher_id, created_at, created_by, last_updated_at, last_updated_by
		FROM vouchers ORDER BY created_at, voucher_number;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	vouchers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Voucher, error) {
		var m models.Voucher
		err := row.Scan(&m.VoucherID, &m.VoucherNumber, &m.VoucherDate, &m.VoucherType, &m.Description,
			&m.TotalAmount, &m.NativeAmount, &m.CurrencyCode, &m.ROE, &m.Status,
			&m.OriginalVoucherID, &m.ReversingVoucherID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
		return mapping.ToDomainVoucher(m, byVoucher[m.VoucherID]), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vouchers: %w", err)
	}
	return vouchers, nil
}

func pullBookings(ctx context.Context, tx pgx.Tx) ([]domain.Booking, error) {
	rows, err := tx.Query(ctx, `
		SELECT booking_id, kind, voucher_id, details, created_at, created_by, last_updated_at, last_updated_by
		FROM bookings ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	stored, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Booking, error) {
		var m models.Booking
		err := row.Scan(&m.BookingID, &m.Kind, &m.VoucherID, &m.Details, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookings: %w", err)
	}

	bookings := make([]domain.Booking, 0, len(stored))
	for _, m := range stored {
		b, err := mapping.ToDomainBooking(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "remote booking is unreadable", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
