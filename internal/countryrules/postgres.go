package countryrules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// RowQuerier is satisfied by *sql.DB and *sql.Tx.
type RowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PostgresSource reads Country records straight from the CRM database.
type PostgresSource struct {
	db    RowQuerier
	query string
}

func NewPostgresSource(db RowQuerier, table string) *PostgresSource {
	if table == "" {
		table = "tabCountry"
	}
	return &PostgresSource{
		db: db,
		query: fmt.Sprintf(
			"SELECT name, custom_dial_code, custom_phone_mask, custom_phone_regex FROM %s WHERE name = $1",
			pq.QuoteIdentifier(table),
		),
	}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) FetchCountry(ctx context.Context, name string) (*CountryRecord, error) {
	var (
		rec                     CountryRecord
		dialCode, mask, pattern sql.NullString
	)

	err := s.db.QueryRowContext(ctx, s.query, name).Scan(&rec.Name, &dialCode, &mask, &pattern)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCountryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query country %q: %w", name, err)
	}

	rec.DialCode = dialCode.String
	rec.PhoneMask = mask.String
	rec.PhoneRegex = pattern.String
	return &rec, nil
}
