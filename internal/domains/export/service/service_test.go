package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"haven/infras/otel/mocks"
	bookingMocks "haven/internal/domains/booking/mocks"
	bookingModel "haven/internal/domains/booking/model"
	"haven/internal/domains/export/service"
	listingMocks "haven/internal/domains/listing/mocks"
	listingModel "haven/internal/domains/listing/model"
	userMocks "haven/internal/domains/user/mocks"
	userModel "haven/internal/domains/user/model"
	"haven/shared/constant"
	gModel "haven/shared/model"
	"haven/shared/timezone"
)

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func userContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func newService(t *testing.T) (service.Export, *bookingMocks.MockBooking, *userMocks.MockUser, *listingMocks.MockListing) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockBookingRepo, mockUserRepo, mockListingRepo, mockOtel)

	return svc, mockBookingRepo, mockUserRepo, mockListingRepo
}

func TestExportService_Bookings(t *testing.T) {
	svc, mockBookingRepo, _, _ := newService(t)

	bookings := []bookingModel.Booking{
		{
			ID:           "booking-1",
			UserEmail:    "user@example.com",
			ListingName:  "Harbor View Apartment",
			ListingPrice: decimal.NewFromInt(1200),
			Status:       constant.BookingStatusPending,
			BookingDate:  timezone.Now(),
			Notes:        "Morning viewing please",
			Metadata:     gModel.Metadata{CreatedAt: timezone.Now(), ModifiedAt: timezone.Now()},
		},
	}

	t.Run("csv contains header and rows", func(t *testing.T) {
		mockBookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(bookings, nil)

		file, err := svc.Export(adminContext(), service.EntityBookings, service.FormatCSV)

		assert.NoError(t, err)
		assert.Equal(t, "bookings.csv", file.Name)
		assert.Equal(t, constant.ContentTypeCSV, file.ContentType)

		lines := strings.Split(string(file.Data), "\n")
		assert.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Booking ID,User Email,Listing Name"))
		assert.Contains(t, lines[1], `"user@example.com"`)
		assert.Contains(t, lines[1], "1200")
	})

	t.Run("empty collection yields header only", func(t *testing.T) {
		mockBookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		file, err := svc.Export(adminContext(), service.EntityBookings, service.FormatCSV)

		assert.NoError(t, err)
		assert.NotContains(t, string(file.Data), "\n")
		assert.True(t, strings.HasPrefix(string(file.Data), "Booking ID"))
	})

	t.Run("excel output is produced", func(t *testing.T) {
		mockBookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(bookings, nil)

		file, err := svc.Export(adminContext(), service.EntityBookings, service.FormatExcel)

		assert.NoError(t, err)
		assert.Equal(t, "bookings.xlsx", file.Name)
		assert.Equal(t, constant.ContentTypeXLSX, file.ContentType)
		assert.NotEmpty(t, file.Data)
	})

	t.Run("pdf output is produced", func(t *testing.T) {
		mockBookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(bookings, nil)

		file, err := svc.Export(adminContext(), service.EntityBookings, service.FormatPDF)

		assert.NoError(t, err)
		assert.Equal(t, "bookings.pdf", file.Name)
		assert.Equal(t, constant.ContentTypePDF, file.ContentType)
		assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
	})

	t.Run("repository error is propagated", func(t *testing.T) {
		mockBookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := svc.Export(adminContext(), service.EntityBookings, service.FormatCSV)

		assert.Error(t, err)
	})
}

func TestExportService_Users(t *testing.T) {
	svc, _, mockUserRepo, _ := newService(t)

	users := []userModel.User{
		{
			ID:       "user-1",
			Email:    "quoted@example.com",
			Role:     constant.RoleUser,
			Metadata: gModel.Metadata{CreatedAt: timezone.Now(), ModifiedAt: timezone.Now()},
		},
	}

	mockUserRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(users, nil)

	file, err := svc.Export(adminContext(), service.EntityUsers, service.FormatCSV)

	assert.NoError(t, err)
	assert.Equal(t, "users.csv", file.Name)

	lines := strings.Split(string(file.Data), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "User ID,Email,Display Name,Role"))
	assert.Contains(t, lines[1], `"quoted@example.com"`)
}

func TestExportService_Listings(t *testing.T) {
	svc, _, _, mockListingRepo := newService(t)

	listings := []listingModel.Listing{
		{
			ID:       "listing-1",
			Name:     `The "Grand" Loft`,
			Price:    decimal.NewFromInt(2000),
			Category: "loft",
			Status:   constant.ListingStatusAvailable,
			Metadata: gModel.Metadata{CreatedAt: timezone.Now(), ModifiedAt: timezone.Now()},
		},
	}

	mockListingRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(listings, nil)

	file, err := svc.Export(adminContext(), service.EntityListings, service.FormatCSV)

	assert.NoError(t, err)
	assert.Equal(t, "listings.csv", file.Name)

	// Embedded quotes are doubled inside the quoted cell.
	assert.Contains(t, string(file.Data), `"The ""Grand"" Loft"`)
}

func TestExportService_Guards(t *testing.T) {
	svc, mockBookingRepo, _, _ := newService(t)

	t.Run("non-admin is rejected", func(t *testing.T) {
		_, err := svc.Export(userContext(), service.EntityBookings, service.FormatCSV)

		assert.Error(t, err)
	})

	t.Run("unknown entity is rejected", func(t *testing.T) {
		_, err := svc.Export(adminContext(), "invoices", service.FormatCSV)

		assert.Error(t, err)
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		mockBookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		_, err := svc.Export(adminContext(), service.EntityBookings, "xml")

		assert.Error(t, err)
	})
}
