package dto

import (
	"time"

	"haven/internal/domains/booking/model"
	listingModel "haven/internal/domains/listing/model"
	"haven/shared"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	gModel "haven/shared/model"
	"haven/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Notes     string `json:"notes"      validate:"omitempty,max=500"`
}

func (c *CreateBookingRequest) ToModel(userID, userEmail string, listing listingModel.Listing) model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:           uuid.NewString(),
		UserID:       userID,
		ListingID:    listing.ID,
		UserEmail:    userEmail,
		ListingName:  listing.Name,
		ListingPrice: listing.Price,
		Status:       constant.BookingStatusPending,
		BookingDate:  now,
		Notes:        c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type UpdateBookingStatusRequest struct {
	Status     string `json:"status"      validate:"required,oneof=Pending Approved Rejected Completed"`
	AdminNotes string `json:"admin_notes" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ListingID      string          `json:"listing_id"`
	UserEmail      string          `json:"user_email"`
	ListingName    string          `json:"listing_name"`
	ListingPrice   decimal.Decimal `json:"listing_price"`
	Status         string          `json:"status"`
	BookingDate    string          `json:"booking_date"`
	ApprovalDate   string          `json:"approval_date,omitempty"`
	CompletionDate string          `json:"completion_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	AdminNotes     string          `json:"admin_notes,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.ListingID = model.ListingID
	r.UserEmail = model.UserEmail
	r.ListingName = model.ListingName
	r.ListingPrice = model.ListingPrice
	r.Status = model.Status
	r.BookingDate = timezone.Format(model.BookingDate, constant.DateFormat)

	if model.ApprovalDate != nil {
		r.ApprovalDate = timezone.Format(*model.ApprovalDate, constant.DateFormat)
	}

	if model.CompletionDate != nil {
		r.CompletionDate = timezone.Format(*model.CompletionDate, constant.DateFormat)
	}

	r.Notes = model.Notes
	r.AdminNotes = model.AdminNotes
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

const (
	EventTypeCreated       = "booking.created"
	EventTypeStatusChanged = "booking.status_changed"
)

// BookingEvent is the payload published to the booking events topic.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	ListingID  string    `json:"listing_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		ListingID:  booking.ListingID,
		UserID:     booking.UserID,
		Status:     booking.Status,
		OccurredAt: timezone.Now(),
	}
}
