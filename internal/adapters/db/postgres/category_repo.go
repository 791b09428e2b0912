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

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (uuid.UUID, error) {
	res := r.db.WithContext(ctx).Create(&c)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateCategory")
	}
	return c.ID, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Category, error) {
	var c model.Category
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&c)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Category{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Category{}, customErrors.WrapInternal(err, "GetCategoryByID")
	}
	return c, nil
}

func (r *CategoryRepo) List(ctx context.Context, search string, page repo.Page) ([]model.Category, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Category{})
	if search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "CountCategories")
	}

	var out []model.Category
	err := q.Order("name").
		Offset((page.Number - 1) * page.Size).
		Limit(page.Size).
		Find(&out).Error
	if err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListCategories")
	}
	return out, total, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c model.Category) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "description": c.Description})
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "UpdateCategory")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteCategory")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
