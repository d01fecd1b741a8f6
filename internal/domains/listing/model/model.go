package model

import (
	"haven/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldImageURL    = "image_url"
)

type Listing struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Category    string          `db:"category"`
	Status      string          `db:"status"`
	ImageURL    *string         `db:"image_url"`
	model.Metadata
}
