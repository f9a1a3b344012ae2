package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

const userColumns = `id, email, password_hash, full_name, phone, passport_number,
	residence, is_verified, verify_token, is_active, created_at, updated_at`

// PostgresUserStore persists users in the users table.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone,
		user.PassportNumber, user.Residence, user.IsVerified, user.VerifyToken,
		user.IsActive, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresUserStore) FindByVerifyToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, sentinel.ErrNotFound
	}
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE verify_token = $1`, token)
}

func (s *PostgresUserStore) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&u.PassportNumber, &u.Residence, &u.IsVerified, &u.VerifyToken,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *PostgresUserStore) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET
			email = $2, password_hash = $3, full_name = $4, phone = $5,
			passport_number = $6, residence = $7, is_verified = $8,
			verify_token = $9, is_active = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone,
		user.PassportNumber, user.Residence, user.IsVerified, user.VerifyToken,
		user.IsActive, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresUserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresUserStore) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
			&u.PassportNumber, &u.Residence, &u.IsVerified, &u.VerifyToken,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

const adminColumns = `id, email, password_hash, full_name, is_active, is_superadmin,
	last_login_at, created_at`

// PostgresAdminStore persists admin accounts.
type PostgresAdminStore struct {
	db *sql.DB
}

func NewPostgresAdminStore(db *sql.DB) *PostgresAdminStore {
	return &PostgresAdminStore{db: db}
}

func (s *PostgresAdminStore) Create(ctx context.Context, admin *Admin) error {
	query := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.FullName,
		admin.IsActive, admin.IsSuperAdmin, admin.LastLoginAt, admin.CreatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *PostgresAdminStore) FindByID(ctx context.Context, id string) (*Admin, error) {
	return s.findOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
}

func (s *PostgresAdminStore) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return s.findOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresAdminStore) findOne(ctx context.Context, query string, arg any) (*Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FullName,
		&a.IsActive, &a.IsSuperAdmin, &a.LastLoginAt, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func (s *PostgresAdminStore) Update(ctx context.Context, admin *Admin) error {
	query := `
		UPDATE admins SET
			email = $2, password_hash = $3, full_name = $4,
			is_active = $5, is_superadmin = $6, last_login_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.FullName,
		admin.IsActive, admin.IsSuperAdmin, admin.LastLoginAt)
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresAdminStore) List(ctx context.Context) ([]*Admin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []*Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(
			&a.ID, &a.Email, &a.PasswordHash, &a.FullName,
			&a.IsActive, &a.IsSuperAdmin, &a.LastLoginAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, &a)
	}
	return admins, rows.Err()
}

func (s *PostgresAdminStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
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
