package application

import "time"

// Status is the review state of an application. There is no transition
// table; any admin-set status from the known set is accepted.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusInReview  Status = "revision"
	StatusApproved  Status = "aprobado"
	StatusRejected  Status = "rechazado"
	StatusCompleted Status = "completado"
)

// Statuses lists every valid status, in reporting order.
var Statuses = []Status{
	StatusPending, StatusInReview, StatusApproved, StatusRejected, StatusCompleted,
}

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInReview, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

const (
	// MinProgressStep and MaxProgressStep bound the applicant-facing
	// progress indicator.
	MinProgressStep = 1
	MaxProgressStep = 4
)

// Document is an uploaded file attached to an application. Data holds the
// base64-encoded payload.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Data       string    `json:"data"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// VisaApplication is one visa request. The user contact fields and the
// destination's country and visa-type name/price are snapshotted at
// creation time; later catalog or profile edits do not rewrite them.
type VisaApplication struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	UserEmail      string     `json:"user_email"`
	UserName       string     `json:"user_name"`
	UserPhone      string     `json:"user_phone"`
	PassportNumber string     `json:"passport_number"`
	DestinationID  string     `json:"destination_id"`
	Country        string     `json:"country"`
	VisaTypeID     string     `json:"visa_type_id"`
	VisaName       string     `json:"visa_name"`
	Price          int64      `json:"price"`
	Currency       string     `json:"currency"`
	DepositPaid    int64      `json:"deposit_paid"`
	TotalPaid      int64      `json:"total_paid"`
	Status         Status     `json:"status"`
	ProgressStep   int        `json:"progress_step"`
	PickupLocation string     `json:"pickup_location"`
	Notes          string     `json:"notes"`
	AdminNotes     string     `json:"admin_notes"`
	Documents      []Document `json:"documents"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DocumentByID returns the attached document with the given id.
func (a *VisaApplication) DocumentByID(id string) (Document, bool) {
	for _, doc := range a.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return Document{}, false
}

// AdminPatch applies partial updates from the back office; nil fields are
// left unchanged.
type AdminPatch struct {
	Status       *Status `json:"status"`
	ProgressStep *int    `json:"progress_step"`
	AdminNotes   *string `json:"admin_notes"`
	DepositPaid  *int64  `json:"deposit_paid"`
	TotalPaid    *int64  `json:"total_paid"`
}

// AttachDocumentParams carries one document upload. Data is the
// base64-encoded payload as received on the wire.
type AttachDocumentParams struct {
	Name string
	Type string
	Data string
}

// Stats is the back-office dashboard aggregate. Revenue figures are
// computed from live rows and are not transactionally consistent with
// concurrent writes.
type Stats struct {
	TotalApplications int   `json:"total_applications"`
	Pending           int   `json:"pending"`
	InReview          int   `json:"in_review"`
	Approved          int   `json:"approved"`
	Rejected          int   `json:"rejected"`
	Completed         int   `json:"completed"`
	TotalRevenue      int64 `json:"total_revenue"`
	PendingRevenue    int64 `json:"pending_revenue"`
}
