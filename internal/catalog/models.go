package catalog

import "time"

// VisaType is an offering embedded in a destination. Price is an integer
// amount in the currency's major unit, matching the stored catalog data.
type VisaType struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          int    `json:"price"`
	Currency       string `json:"currency"`
	ProcessingTime string `json:"processing_time"`
	Requirements   string `json:"requirements"`
}

// Destination is a country clients can apply to, with its embedded visa
// offerings. Applications may reference a visa type only while the
// destination is enabled.
type Destination struct {
	ID           string     `json:"id"`
	Country      string     `json:"country"`
	CountryCode  string     `json:"country_code"`
	Enabled      bool       `json:"enabled"`
	ImageURL     string     `json:"image_url"`
	Description  string     `json:"description"`
	Message      string     `json:"message"`
	Requirements string     `json:"requirements"`
	VisaTypes    []VisaType `json:"visa_types"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// VisaTypeByID returns the embedded visa type with the given id.
func (d *Destination) VisaTypeByID(id string) (VisaType, bool) {
	for _, vt := range d.VisaTypes {
		if vt.ID == id {
			return vt, true
		}
	}
	return VisaType{}, false
}

// CreateDestinationParams carries admin input for a new destination.
type CreateDestinationParams struct {
	Country      string
	CountryCode  string
	Enabled      *bool
	ImageURL     string
	Description  string
	Message      string
	Requirements string
	VisaTypes    []VisaTypeParams
}

// VisaTypeParams carries input for one embedded visa type.
type VisaTypeParams struct {
	Name           string
	Price          int
	Currency       string
	ProcessingTime string
	Requirements   string
}

// DestinationPatch applies partial updates; nil fields are left
// unchanged. The embedded visa-type list is managed through its own
// operations, not through the patch.
type DestinationPatch struct {
	Country      *string `json:"country"`
	CountryCode  *string `json:"country_code"`
	Enabled      *bool   `json:"enabled"`
	ImageURL     *string `json:"image_url"`
	Description  *string `json:"description"`
	Message      *string `json:"message"`
	Requirements *string `json:"requirements"`
}

// VisaTypePatch applies partial updates to one embedded visa type.
type VisaTypePatch struct {
	Name           *string `json:"name"`
	Price          *int    `json:"price"`
	Currency       *string `json:"currency"`
	ProcessingTime *string `json:"processing_time"`
	Requirements   *string `json:"requirements"`
}
