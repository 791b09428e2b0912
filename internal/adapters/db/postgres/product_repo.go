package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
	"gorm.io/gorm"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(ctx context.Context, p model.Product) (uuid.UUID, error) {
	res := r.db.WithContext(ctx).Create(&p)
	if err := res.Error; err != nil {
		return uuid.Nil, customErrors.WrapInternal(err, "CreateProduct")
	}
	return p.ID, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var p model.Product
	res := r.db.WithContext(ctx).
		Select("products.*, COALESCE((SELECT AVG(rating) FROM reviews WHERE reviews.product_id = products.id), 0) AS average_rating").
		Preload("Category").
		Preload("Images").
		Where("products.id = ?", id).
		First(&p)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Product{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "GetProductByID")
	}
	return p, nil
}

// query builds a fresh filtered product query. Called separately for the
// count and the page select so gorm statement state is never shared.
func (r *ProductRepo) query(ctx context.Context, f repo.ProductFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("products.*, COALESCE((SELECT AVG(rating) FROM reviews WHERE reviews.product_id = products.id), 0) AS average_rating")

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Price != nil {
		q = q.Where("price = ?", *f.Price)
	}
	if f.PriceLT != nil {
		q = q.Where("price < ?", *f.PriceLT)
	}
	if f.PriceLTE != nil {
		q = q.Where("price <= ?", *f.PriceLTE)
	}
	if f.PriceGT != nil {
		q = q.Where("price > ?", *f.PriceGT)
	}
	if f.PriceGTE != nil {
		q = q.Where("price >= ?", *f.PriceGTE)
	}
	if f.RatingGTE != nil {
		q = q.Where("COALESCE((SELECT AVG(rating) FROM reviews WHERE reviews.product_id = products.id), 0) >= ?", *f.RatingGTE)
	}
	if f.RatingLTE != nil {
		q = q.Where("COALESCE((SELECT AVG(rating) FROM reviews WHERE reviews.product_id = products.id), 0) <= ?", *f.RatingLTE)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	return q
}

var productOrderings = map[string]string{
	"price":       "price ASC",
	"-price":      "price DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

func (r *ProductRepo) List(ctx context.Context, f repo.ProductFilter, page repo.Page) ([]model.Product, int64, error) {
	var total int64
	if err := r.query(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "CountProducts")
	}

	order, ok := productOrderings[f.OrderBy]
	if !ok {
		order = productOrderings["-created_at"]
	}

	var out []model.Product
	err := r.query(ctx, f).
		Preload("Category").
		Preload("Images").
		Order(order).
		Offset((page.Number - 1) * page.Size).
		Limit(page.Size).
		Find(&out).Error
	if err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListProducts")
	}
	return out, total, nil
}

func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"category_id":    p.CategoryID,
			"name":           p.Name,
			"description":    p.Description,
			"price":          p.Price,
			"stock_quantity": p.StockQuantity,
		})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateProduct")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteProduct")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
