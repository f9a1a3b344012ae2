package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

// PostgresTestimonialStore persists testimonials in the testimonials
// table.
type PostgresTestimonialStore struct {
	db *sql.DB
}

func NewPostgresTestimonialStore(db *sql.DB) *PostgresTestimonialStore {
	return &PostgresTestimonialStore{db: db}
}

const testimonialColumns = `id, client_name, visa_type, description, image_data, is_active, created_at`

func (s *PostgresTestimonialStore) Create(ctx context.Context, t *Testimonial) error {
	query := `
		INSERT INTO testimonials (` + testimonialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.ClientName, t.VisaType, t.Description, t.ImageData, t.IsActive, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	return nil
}

func (s *PostgresTestimonialStore) FindByID(ctx context.Context, id string) (*Testimonial, error) {
	var t Testimonial
	err := s.db.QueryRowContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id).Scan(
		&t.ID, &t.ClientName, &t.VisaType, &t.Description, &t.ImageData, &t.IsActive, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find testimonial: %w", err)
	}
	return &t, nil
}

func (s *PostgresTestimonialStore) Update(ctx context.Context, t *Testimonial) error {
	query := `
		UPDATE testimonials SET
			client_name = $2, visa_type = $3, description = $4,
			image_data = $5, is_active = $6
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		t.ID, t.ClientName, t.VisaType, t.Description, t.ImageData, t.IsActive)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresTestimonialStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresTestimonialStore) List(ctx context.Context) ([]*Testimonial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var out []*Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(
			&t.ID, &t.ClientName, &t.VisaType, &t.Description, &t.ImageData,
			&t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// PostgresAdvisorStore persists advisors in the advisors table.
type PostgresAdvisorStore struct {
	db *sql.DB
}

func NewPostgresAdvisorStore(db *sql.DB) *PostgresAdvisorStore {
	return &PostgresAdvisorStore{db: db}
}

const advisorColumns = `id, business_name, email, description, country, is_active, created_at`

func (s *PostgresAdvisorStore) Create(ctx context.Context, a *Advisor) error {
	query := `
		INSERT INTO advisors (` + advisorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.BusinessName, a.Email, a.Description, a.Country, a.IsActive, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert advisor: %w", err)
	}
	return nil
}

func (s *PostgresAdvisorStore) FindByID(ctx context.Context, id string) (*Advisor, error) {
	var a Advisor
	err := s.db.QueryRowContext(ctx,
		`SELECT `+advisorColumns+` FROM advisors WHERE id = $1`, id).Scan(
		&a.ID, &a.BusinessName, &a.Email, &a.Description, &a.Country, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find advisor: %w", err)
	}
	return &a, nil
}

func (s *PostgresAdvisorStore) Update(ctx context.Context, a *Advisor) error {
	query := `
		UPDATE advisors SET
			business_name = $2, email = $3, description = $4,
			country = $5, is_active = $6
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		a.ID, a.BusinessName, a.Email, a.Description, a.Country, a.IsActive)
	if err != nil {
		return fmt.Errorf("update advisor: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresAdvisorStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM advisors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete advisor: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresAdvisorStore) List(ctx context.Context) ([]*Advisor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+advisorColumns+` FROM advisors ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list advisors: %w", err)
	}
	defer rows.Close()

	var out []*Advisor
	for rows.Next() {
		var a Advisor
		if err := rows.Scan(
			&a.ID, &a.BusinessName, &a.Email, &a.Description, &a.Country,
			&a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan advisor: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// PostgresPromotionStore persists promotions in the promotions table.
type PostgresPromotionStore struct {
	db *sql.DB
}

func NewPostgresPromotionStore(db *sql.DB) *PostgresPromotionStore {
	return &PostgresPromotionStore{db: db}
}

const promotionColumns = `id, title, description, link_url, link_text, is_active, created_at`

func (s *PostgresPromotionStore) Create(ctx context.Context, p *Promotion) error {
	query := `
		INSERT INTO promotions (` + promotionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.LinkURL, p.LinkText, p.IsActive, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

func (s *PostgresPromotionStore) FindByID(ctx context.Context, id string) (*Promotion, error) {
	var p Promotion
	err := s.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.LinkURL, &p.LinkText, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find promotion: %w", err)
	}
	return &p, nil
}

func (s *PostgresPromotionStore) Update(ctx context.Context, p *Promotion) error {
	query := `
		UPDATE promotions SET
			title = $2, description = $3, link_url = $4,
			link_text = $5, is_active = $6
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.LinkURL, p.LinkText, p.IsActive)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresPromotionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresPromotionStore) List(ctx context.Context) ([]*Promotion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var out []*Promotion
	for rows.Next() {
		var p Promotion
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.LinkURL, &p.LinkText,
			&p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
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
