package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"size:100"`
	LastName     string    `gorm:"size:100"`
	Email        string    `gorm:"uniqueIndex;size:254"`
	PhoneNumber  string    `gorm:"size:20"`
	Role         Role      `gorm:"size:10;default:guest"`
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserID       uuid.UUID
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;size:100"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID    uuid.UUID `gorm:"type:uuid;index"`
	Category      *Category `gorm:"constraint:OnDelete:CASCADE"`
	Name          string    `gorm:"size:255"`
	Description   string
	Price         float64 `gorm:"type:numeric(10,2)"`
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Images []ProductImage `gorm:"constraint:OnDelete:CASCADE"`

	// Filled by list/detail queries, not a column.
	AverageRating float64 `gorm:"->;-:migration"`
}

type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	ImageURL  string    `gorm:"size:500"`
	IsPrimary bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index:idx_review_product_user,unique"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_review_product_user,unique"`
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RequestLog struct {
	ID        uint `gorm:"primaryKey"`
	IPAddress string
	Path      string `gorm:"size:2048"`
	Country   string `gorm:"size:100"`
	City      string `gorm:"size:100"`
	Timestamp time.Time
}

type BlockedIP struct {
	ID        uint   `gorm:"primaryKey"`
	IPAddress string `gorm:"uniqueIndex"`
}
