package model

import (
	"haven/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldUserID         = "user_id"
	FieldListingID      = "listing_id"
	FieldUserEmail      = "user_email"
	FieldListingName    = "listing_name"
	FieldListingPrice   = "listing_price"
	FieldStatus         = "status"
	FieldBookingDate    = "booking_date"
	FieldApprovalDate   = "approval_date"
	FieldCompletionDate = "completion_date"
	FieldNotes          = "notes"
	FieldAdminNotes     = "admin_notes"
	FieldCreatedBy      = "created_by"
)

// Booking denormalizes the requester email and listing name/price so
// historical rows keep the values current at booking time.
type Booking struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	ListingID      string          `db:"listing_id"`
	UserEmail      string          `db:"user_email"`
	ListingName    string          `db:"listing_name"`
	ListingPrice   decimal.Decimal `db:"listing_price"`
	Status         string          `db:"status"`
	BookingDate    time.Time       `db:"booking_date"`
	ApprovalDate   *time.Time      `db:"approval_date"`
	CompletionDate *time.Time      `db:"completion_date"`
	Notes          string          `db:"notes"`
	AdminNotes     string          `db:"admin_notes"`
	model.Metadata
}
