// Package pickup resolves where an applicant collects an issued visa.
// The lookup tables are fixed at construction so concurrent reads need no
// locking and tests can inject their own geography.
package pickup

import "strings"

// Directory maps destination countries and applicant residences to a
// pickup location string.
type Directory struct {
	eVisaCountries map[string]struct{}
	embassies      map[string]string
	eVisaNotice    string
	fallback       string
}

// Option configures a Directory under construction.
type Option func(*Directory)

// WithEVisaCountries replaces the electronic-visa country set.
func WithEVisaCountries(countries ...string) Option {
	return func(d *Directory) {
		d.eVisaCountries = make(map[string]struct{}, len(countries))
		for _, c := range countries {
			d.eVisaCountries[normalize(c)] = struct{}{}
		}
	}
}

// WithEmbassy adds or replaces one residence-country embassy entry.
func WithEmbassy(residence, location string) Option {
	return func(d *Directory) {
		d.embassies[normalize(residence)] = location
	}
}

// New builds a Directory with the production tables, then applies options.
func New(opts ...Option) *Directory {
	d := &Directory{
		eVisaCountries: map[string]struct{}{},
		embassies: map[string]string{
			"cuba":      "Embajada de Serbia en La Habana, Cuba",
			"mexico":    "Embajada de Serbia en Ciudad de México, México",
			"españa":    "Embajada de Serbia en Madrid, España",
			"spain":     "Embajada de Serbia en Madrid, España",
			"venezuela": "Embajada de Serbia en Caracas, Venezuela",
		},
		eVisaNotice: "Visa electrónica: no requiere recogida en embajada",
		fallback:    "Consulte la embajada serbia más cercana a su residencia",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve computes the pickup location for an application. E-visa
// destinations need no physical pickup; otherwise the applicant's
// residence selects an embassy, with a generic fallback.
func (d *Directory) Resolve(destinationCountry, residence string) string {
	if _, ok := d.eVisaCountries[normalize(destinationCountry)]; ok {
		return d.eVisaNotice
	}
	if location, ok := d.embassies[normalize(residence)]; ok {
		return location
	}
	return d.fallback
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
