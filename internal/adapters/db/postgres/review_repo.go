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

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) Create(ctx context.Context, review model.Review) (uuid.UUID, error) {
	res := r.db.WithContext(ctx).Create(&review)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateReview")
	}
	return review.ID, nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Review, error) {
	var rev model.Review
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&rev)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Review{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Review{}, customErrors.WrapInternal(err, "GetReviewByID")
	}
	return rev, nil
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID, page repo.Page) ([]model.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "CountReviews")
	}

	var out []model.Review
	err := q.Order("created_at DESC").
		Offset((page.Number - 1) * page.Size).
		Limit(page.Size).
		Find(&out).Error
	if err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListReviews")
	}
	return out, total, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, "id = ?", id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteReview")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
