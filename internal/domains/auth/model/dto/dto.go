package dto

import (
	"haven/infras/jwt"
	userModel "haven/internal/domains/user/model"
	"haven/shared/constant"
	gModel "haven/shared/model"
	"haven/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string  `json:"email"                  validate:"required,email"`
	Password    string  `json:"password"               validate:"required,min=8"`
	DisplayName *string `json:"display_name,omitempty"`
}

func (r *RegisterRequest) ToUserModel(username, hashedPassword string) userModel.User {
	// The distinguished admin address always registers as admin.
	role := constant.RoleUser
	if r.Email == constant.SeedAdminEmail {
		role = constant.RoleAdmin
	}

	return userModel.User{
		ID:          uuid.NewString(),
		Email:       r.Email,
		Password:    hashedPassword,
		DisplayName: r.DisplayName,
		Role:        role,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
