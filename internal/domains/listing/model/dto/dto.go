package dto

import (
	"haven/internal/domains/listing/model"
	"haven/shared"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	gModel "haven/shared/model"
	"haven/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateListingRequest struct {
	Name        string          `json:"name"        validate:"required,max=150"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	Category    string          `json:"category"    validate:"required,max=100"`
	Status      string          `json:"status"      validate:"omitempty,oneof=Available Booked Sold Leased"`
}

func (c *CreateListingRequest) ToModel(user string) model.Listing {
	status := constant.ListingStatusAvailable
	if c.Status != constant.Empty {
		status = c.Status
	}

	return model.Listing{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Category:    c.Category,
		Status:      status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateListingRequest struct {
	Name        string          `db:"name"        json:"name"        validate:"omitempty,max=150"`
	Description string          `db:"description" json:"description" validate:"omitempty"`
	Price       decimal.Decimal `db:"price"       json:"price"       validate:"omitempty"`
	Category    string          `db:"category"    json:"category"    validate:"omitempty,max=100"`
}

type UpdateListingStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=Available Booked Sold Leased"`
}

type UploadImageResponse struct {
	ImageURL string `json:"image_url"`
}

type ListingResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
	ImageURL    string          `json:"image_url,omitempty"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(model model.Listing) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Price = model.Price
	r.Category = model.Category
	r.Status = model.Status

	if model.ImageURL != nil {
		r.ImageURL = *model.ImageURL
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetListingsResponse struct {
	Listings  []ListingResponse `json:"listings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetListingsResponse) FromModels(models []model.Listing, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Listings = make([]ListingResponse, len(models))
	for i, mod := range models {
		r.Listings[i].FromModel(mod)
	}
}
