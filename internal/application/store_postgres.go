package application

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

const applicationColumns = `id, user_id, user_email, user_name, user_phone, passport_number,
	destination_id, country, visa_type_id, visa_name, price, currency,
	deposit_paid, total_paid, status, progress_step, pickup_location,
	notes, admin_notes, documents, created_at, updated_at`

// PostgresStore persists applications with the document list stored as a
// JSONB column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, app *VisaApplication) error {
	documents, err := marshalDocuments(app.Documents)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	_, err = s.db.ExecContext(ctx, query,
		app.ID, app.UserID, app.UserEmail, app.UserName, app.UserPhone, app.PassportNumber,
		app.DestinationID, app.Country, app.VisaTypeID, app.VisaName, app.Price, app.Currency,
		app.DepositPaid, app.TotalPaid, string(app.Status), app.ProgressStep, app.PickupLocation,
		app.Notes, app.AdminNotes, documents, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*VisaApplication, error) {
	app, err := scanApplication(s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) Update(ctx context.Context, app *VisaApplication) error {
	documents, err := marshalDocuments(app.Documents)
	if err != nil {
		return err
	}
	query := `
		UPDATE applications SET
			deposit_paid = $2, total_paid = $3, status = $4, progress_step = $5,
			pickup_location = $6, notes = $7, admin_notes = $8, documents = $9,
			updated_at = $10
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		app.ID, app.DepositPaid, app.TotalPaid, string(app.Status), app.ProgressStep,
		app.PickupLocation, app.Notes, app.AdminNotes, documents, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*VisaApplication, error) {
	return s.list(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (s *PostgresStore) List(ctx context.Context) ([]*VisaApplication, error) {
	return s.list(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC`)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*VisaApplication, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*VisaApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete applications by user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, status Status) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM applications WHERE status = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count applications by status: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Revenue(ctx context.Context) (total, pending int64, err error) {
	query := `
		SELECT
			COALESCE(sum(total_paid), 0),
			COALESCE(sum(price - total_paid) FILTER (WHERE status <> $1), 0)
		FROM applications
	`
	if err := s.db.QueryRowContext(ctx, query, string(StatusRejected)).Scan(&total, &pending); err != nil {
		return 0, 0, fmt.Errorf("sum revenue: %w", err)
	}
	return total, pending, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*VisaApplication, error) {
	var a VisaApplication
	var status string
	var documents []byte
	if err := row.Scan(
		&a.ID, &a.UserID, &a.UserEmail, &a.UserName, &a.UserPhone, &a.PassportNumber,
		&a.DestinationID, &a.Country, &a.VisaTypeID, &a.VisaName, &a.Price, &a.Currency,
		&a.DepositPaid, &a.TotalPaid, &status, &a.ProgressStep, &a.PickupLocation,
		&a.Notes, &a.AdminNotes, &documents, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = Status(status)
	if err := json.Unmarshal(documents, &a.Documents); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return &a, nil
}

func marshalDocuments(documents []Document) ([]byte, error) {
	if documents == nil {
		documents = []Document{}
	}
	raw, err := json.Marshal(documents)
	if err != nil {
		return nil, fmt.Errorf("encode documents: %w", err)
	}
	return raw, nil
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
