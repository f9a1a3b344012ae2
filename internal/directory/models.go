package directory

import "time"

// Testimonial is a client success story shown on the public site.
// ImageData holds an optional base64-encoded photo.
type Testimonial struct {
	ID          string    `json:"id"`
	ClientName  string    `json:"client_name"`
	VisaType    string    `json:"visa_type"`
	Description string    `json:"description"`
	ImageData   string    `json:"image_data"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Advisor is an external service provider listed for applicants, tagged
// with the destination country it covers.
type Advisor struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	Email        string    `json:"email"`
	Description  string    `json:"description"`
	Country      string    `json:"country"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Promotion is a banner shown on the public site.
type Promotion struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	LinkURL     string    `json:"link_url"`
	LinkText    string    `json:"link_text"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TestimonialParams carries admin input for a testimonial.
type TestimonialParams struct {
	ClientName  string
	VisaType    string
	Description string
	ImageData   string
}

// AdvisorParams carries admin input for an advisor.
type AdvisorParams struct {
	BusinessName string
	Email        string
	Description  string
	Country      string
}

// PromotionParams carries admin input for a promotion.
type PromotionParams struct {
	Title       string
	Description string
	LinkURL     string
	LinkText    string
}
