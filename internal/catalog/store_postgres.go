package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

const destinationColumns = `id, country, country_code, enabled, image_url, description,
	message, requirements, visa_types, created_at, updated_at`

// PostgresStore persists destinations with the visa-type list stored as a
// JSONB column, keeping the embedded shape as a single row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, dest *Destination) error {
	visaTypes, err := marshalVisaTypes(dest.VisaTypes)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO destinations (` + destinationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		dest.ID, dest.Country, dest.CountryCode, dest.Enabled, dest.ImageURL,
		dest.Description, dest.Message, dest.Requirements, visaTypes,
		dest.CreatedAt, dest.UpdatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert destination: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Destination, error) {
	return s.findOne(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE id = $1`, id)
}

func (s *PostgresStore) FindByCountryCode(ctx context.Context, code string) (*Destination, error) {
	return s.findOne(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE upper(country_code) = upper($1)`, code)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*Destination, error) {
	d, err := scanDestination(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find destination: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) Update(ctx context.Context, dest *Destination) error {
	visaTypes, err := marshalVisaTypes(dest.VisaTypes)
	if err != nil {
		return err
	}
	query := `
		UPDATE destinations SET
			country = $2, country_code = $3, enabled = $4, image_url = $5,
			description = $6, message = $7, requirements = $8, visa_types = $9,
			updated_at = $10
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		dest.ID, dest.Country, dest.CountryCode, dest.Enabled, dest.ImageURL,
		dest.Description, dest.Message, dest.Requirements, visaTypes, dest.UpdatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update destination: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete destination: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) List(ctx context.Context) ([]*Destination, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations ORDER BY country ASC`)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	defer rows.Close()

	var out []*Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDestination(row rowScanner) (*Destination, error) {
	var d Destination
	var visaTypes []byte
	if err := row.Scan(
		&d.ID, &d.Country, &d.CountryCode, &d.Enabled, &d.ImageURL,
		&d.Description, &d.Message, &d.Requirements, &visaTypes,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(visaTypes, &d.VisaTypes); err != nil {
		return nil, fmt.Errorf("decode visa types: %w", err)
	}
	return &d, nil
}

func marshalVisaTypes(visaTypes []VisaType) ([]byte, error) {
	if visaTypes == nil {
		visaTypes = []VisaType{}
	}
	raw, err := json.Marshal(visaTypes)
	if err != nil {
		return nil, fmt.Errorf("encode visa types: %w", err)
	}
	return raw, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
