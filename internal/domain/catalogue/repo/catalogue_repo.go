package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
)

// Page carries pagination input shared by the list operations.
type Page struct {
	Number int
	Size   int
}

// ProductFilter narrows product listings. Zero values mean "not set";
// pointer fields distinguish absent from zero.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Price      *float64
	PriceLT    *float64
	PriceLTE   *float64
	PriceGT    *float64
	PriceGTE   *float64
	RatingGTE  *float64
	RatingLTE  *float64
	Search     string
	OrderBy    string // "price", "-price", "created_at", "-created_at"
}

type CategoryRepo interface {
	Create(ctx context.Context, c model.Category) (uuid.UUID, error)

	GetByID(ctx context.Context, id uuid.UUID) (model.Category, error)

	List(ctx context.Context, search string, page Page) ([]model.Category, int64, error)

	Update(ctx context.Context, c model.Category) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepo interface {
	Create(ctx context.Context, p model.Product) (uuid.UUID, error)

	GetByID(ctx context.Context, id uuid.UUID) (model.Product, error)

	List(ctx context.Context, f ProductFilter, page Page) ([]model.Product, int64, error)

	Update(ctx context.Context, p model.Product) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductImageRepo interface {
	Create(ctx context.Context, img model.ProductImage) (uuid.UUID, error)

	ListByProduct(ctx context.Context, productID uuid.UUID, page Page) ([]model.ProductImage, int64, error)

	Delete(ctx context.Context, productID, imageID uuid.UUID) error
}

type ReviewRepo interface {
	Create(ctx context.Context, r model.Review) (uuid.UUID, error)

	GetByID(ctx context.Context, id uuid.UUID) (model.Review, error)

	ListByProduct(ctx context.Context, productID uuid.UUID, page Page) ([]model.Review, int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type RequestLogRepo interface {
	Create(ctx context.Context, entry model.RequestLog) error
}

type BlockedIPRepo interface {
	Block(ctx context.Context, ip string) (created bool, err error)

	Unblock(ctx context.Context, ip string) error

	IsBlocked(ctx context.Context, ip string) (bool, error)
}
