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

type ProductImageRepo struct {
	db *gorm.DB
}

func NewProductImageRepo(db *gorm.DB) *ProductImageRepo {
	return &ProductImageRepo{db: db}
}

// Create inserts an image. A product may carry at most one primary image;
// the transaction-level check backs up the partial unique index so the
// violation surfaces as ErrAlreadyExists rather than a driver error.
func (r *ProductImageRepo) Create(ctx context.Context, img model.ProductImage) (uuid.UUID, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Select("id").Where("id = ?", img.ProductID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customErrors.ErrNotFound
			}
			return customErrors.WrapInternal(err, "CreateProductImage")
		}

		if img.IsPrimary {
			var n int64
			err := tx.Model(&model.ProductImage{}).
				Where("product_id = ? AND is_primary", img.ProductID).
				Count(&n).Error
			if err != nil {
				return customErrors.WrapInternal(err, "CreateProductImage")
			}
			if n > 0 {
				return customErrors.ErrAlreadyExists
			}
		}

		if err := tx.Create(&img).Error; err != nil {
			if isUniqueViolation(err) {
				return customErrors.ErrAlreadyExists
			}
			return customErrors.WrapInternal(err, "CreateProductImage")
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return img.ID, nil
}

func (r *ProductImageRepo) ListByProduct(ctx context.Context, productID uuid.UUID, page repo.Page) ([]model.ProductImage, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductImage{}).Where("product_id = ?", productID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "CountProductImages")
	}

	var out []model.ProductImage
	err := q.Order("created_at DESC").
		Offset((page.Number - 1) * page.Size).
		Limit(page.Size).
		Find(&out).Error
	if err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListProductImages")
	}
	return out, total, nil
}

func (r *ProductImageRepo) Delete(ctx context.Context, productID, imageID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&model.ProductImage{})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteProductImage")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
