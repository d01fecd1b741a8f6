package model

import "haven/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID          = "id"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldRole        = "role"
)

type User struct {
	ID          string  `db:"id"`
	Email       string  `db:"email"`
	Password    string  `db:"password"`
	DisplayName *string `db:"display_name"`
	Role        string  `db:"role"`
	model.Metadata
}
