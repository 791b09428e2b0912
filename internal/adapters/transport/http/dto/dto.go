package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterDTO struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,strongpwd"`
	FirstName   string `json:"first_name"   validate:"required,max=100"`
	LastName    string `json:"last_name"    validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	AccessToken  string `json:"access_token"`
}

type LogoutDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	AccessToken  string `json:"access_token"`
}

type VerifyEmailDTO struct {
	Token string `json:"token" form:"token" validate:"required"`
}

type ResendVerificationDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmDTO struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strongpwd"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strongpwd"`
}

type UpdateProfileDTO struct {
	FirstName   *string `json:"first_name"   validate:"omitempty,max=100"`
	LastName    *string `json:"last_name"    validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
}

type UserDTO struct {
	ID          uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryDTO struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty"`
}

type ProductDTO struct {
	CategoryID    uuid.UUID `json:"category_id"    validate:"required"`
	Name          string    `json:"name"           validate:"required,max=255"`
	Description   string    `json:"description"    validate:"required"`
	Price         float64   `json:"price"          validate:"required,gt=0"`
	StockQuantity int       `json:"stock_quantity" validate:"gte=0"`
}

type ProductImageDTO struct {
	ImageURL  string `json:"image_url"  validate:"required,url,max=500"`
	IsPrimary bool   `json:"is_primary"`
}

type ReviewDTO struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}
