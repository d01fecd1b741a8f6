package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"haven/config"
	kafkaMocks "haven/infras/kafka/mocks"
	"haven/infras/otel/mocks"
	bookingMocks "haven/internal/domains/booking/mocks"
	"haven/internal/domains/booking/model"
	"haven/internal/domains/booking/model/dto"
	"haven/internal/domains/booking/service"
	listingMocks "haven/internal/domains/listing/mocks"
	listingModel "haven/internal/domains/listing/model"
	cacheMocks "haven/shared/cache/mocks"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	"haven/shared/timezone"
)

func userContext(userID, email, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, email)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockListingRepo, cfg, mockCache, mockOtel, mockKafka)

	availableListing := listingModel.Listing{
		ID:     "listing-1",
		Name:   "Harbor View Apartment",
		Price:  decimal.NewFromInt(1200),
		Status: constant.ListingStatusAvailable,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateBookingRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			req:  dto.CreateBookingRequest{ListingID: "listing-1", Notes: "Morning viewing please"},
			setupMock: func() {
				mockListingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableListing, nil)

				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, constant.BookingStatusPending, booking.Status)
						assert.Equal(t, "user@example.com", booking.UserEmail)
						assert.Equal(t, availableListing.Name, booking.ListingName)
						assert.True(t, availableListing.Price.Equal(booking.ListingPrice))

						return nil
					})

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), constant.KafkaTopicBookingEvents, gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name:      "unauthenticated request",
			ctx:       context.Background(),
			req:       dto.CreateBookingRequest{ListingID: "listing-1"},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "listing does not exist",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			req:  dto.CreateBookingRequest{ListingID: "missing-listing"},
			setupMock: func() {
				mockListingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(listingModel.Listing{}, nil)
			},
			wantErr: true,
		},
		{
			name: "duplicate booking for same listing",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			req:  dto.CreateBookingRequest{ListingID: "listing-1"},
			setupMock: func() {
				mockListingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableListing, nil)

				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			req:  dto.CreateBookingRequest{ListingID: "listing-1"},
			setupMock: func() {
				mockListingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableListing, nil)

				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(tt.ctx, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockListingRepo, cfg, mockCache, mockOtel, mockKafka)

	ownBookings := []model.Booking{
		{ID: "booking-1", UserID: "user-1", Status: constant.BookingStatusPending, BookingDate: timezone.Now()},
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantLen   int
	}{
		{
			name: "successful retrieval",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(ownBookings, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantLen: 1,
		},
		{
			name:      "unauthenticated request",
			ctx:       context.Background(),
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.GetMine(tt.ctx, gDto.QueryParams{Page: 1, Limit: 10})

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result.Bookings, tt.wantLen)
			}
		})
	}
}

func TestBookingService_GetMine_DefaultSort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockListingRepo, cfg, mockCache, mockOtel, mockKafka)

	r := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, constant.DefaultValueSortBy, req.SortBy)
			assert.Equal(t, constant.DefaultValueSortDir, req.SortDir)

			return []model.Booking{
				{ID: "booking-1", UserID: "user-1", Status: constant.BookingStatusPending, BookingDate: timezone.Now()},
			}, nil
		})

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	result, err := svc.GetMine(userContext("user-1", "user@example.com", constant.RoleUser), params)

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Len(t, result.Bookings, 1)
}

func TestBookingService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockListingRepo, cfg, mockCache, mockOtel, mockKafka)

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
	}{
		{
			name: "admin retrieves all bookings",
			ctx:  userContext("admin-1", "admin@leasing.com", constant.RoleAdmin),
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name:      "non-admin is rejected",
			ctx:       userContext("user-1", "user@example.com", constant.RoleUser),
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.GetAll(tt.ctx, gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockListingRepo, cfg, mockCache, mockOtel, mockKafka)

	booking := model.Booking{
		ID:          "booking-1",
		UserID:      "user-1",
		ListingID:   "listing-1",
		Status:      constant.BookingStatusPending,
		BookingDate: timezone.Now(),
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
	}{
		{
			name: "owner can read own booking",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr: false,
		},
		{
			name: "admin can read any booking",
			ctx:  userContext("admin-1", "admin@leasing.com", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr: false,
		},
		{
			name: "other user is rejected",
			ctx:  userContext("user-2", "other@example.com", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr: true,
		},
		{
			name: "booking not found",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Get(tt.ctx, booking.ID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, booking.ID, result.ID)
			}
		})
	}
}

func TestBookingService_SetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockListingRepo, cfg, mockCache, mockOtel, mockKafka)

	pendingBooking := model.Booking{
		ID:          "booking-1",
		UserID:      "user-1",
		ListingID:   "listing-1",
		Status:      constant.BookingStatusPending,
		BookingDate: timezone.Now(),
	}

	expectBackgroundCalls := func() {
		mockKafka.EXPECT().
			SendMessages(gomock.Any(), constant.KafkaTopicBookingEvents, gomock.Any()).
			Return(nil).
			AnyTimes()

		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateBookingStatusRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "approval stamps approval date",
			ctx:  userContext("admin-1", "admin@leasing.com", constant.RoleAdmin),
			req:  dto.UpdateBookingStatusRequest{Status: constant.BookingStatusApproved, AdminNotes: "Looks good"},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.BookingStatusApproved, fields[model.FieldStatus])
						assert.Contains(t, fields, model.FieldApprovalDate)
						assert.Equal(t, "Looks good", fields[model.FieldAdminNotes])

						return nil
					})

				expectBackgroundCalls()
			},
			wantErr: false,
		},
		{
			name: "completion stamps completion date",
			ctx:  userContext("admin-1", "admin@leasing.com", constant.RoleAdmin),
			req:  dto.UpdateBookingStatusRequest{Status: constant.BookingStatusCompleted},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, model.FieldCompletionDate)
						assert.NotContains(t, fields, model.FieldAdminNotes)

						return nil
					})

				expectBackgroundCalls()
			},
			wantErr: false,
		},
		{
			name:      "non-admin is rejected",
			ctx:       userContext("user-1", "user@example.com", constant.RoleUser),
			req:       dto.UpdateBookingStatusRequest{Status: constant.BookingStatusApproved},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "booking not found",
			ctx:  userContext("admin-1", "admin@leasing.com", constant.RoleAdmin),
			req:  dto.UpdateBookingStatusRequest{Status: constant.BookingStatusRejected},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.SetStatus(tt.ctx, tt.req, pendingBooking.ID)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockListingRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockListingRepo, cfg, mockCache, mockOtel, mockKafka)

	pendingBooking := model.Booking{
		ID:          "booking-1",
		UserID:      "user-1",
		ListingID:   "listing-1",
		Status:      constant.BookingStatusPending,
		BookingDate: timezone.Now(),
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
	}{
		{
			name: "owner cancels pending booking",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.BookingStatusRejected, fields[model.FieldStatus])
						assert.Equal(t, constant.CancelledByUserNote, fields[model.FieldAdminNotes])

						return nil
					})

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), constant.KafkaTopicBookingEvents, gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "non-owner is rejected",
			ctx:  userContext("user-2", "other@example.com", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)
			},
			wantErr: true,
		},
		{
			name: "non-pending booking cannot be cancelled",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			setupMock: func() {
				approvedBooking := pendingBooking
				approvedBooking.Status = constant.BookingStatusApproved

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedBooking, nil)
			},
			wantErr: true,
		},
		{
			name: "booking not found",
			ctx:  userContext("user-1", "user@example.com", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Cancel(tt.ctx, pendingBooking.ID)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
