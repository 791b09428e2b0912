package postgres

import (
	"context"
	"errors"

	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"gorm.io/gorm"
)

type RequestLogRepo struct {
	db *gorm.DB
}

func NewRequestLogRepo(db *gorm.DB) *RequestLogRepo {
	return &RequestLogRepo{db: db}
}

func (r *RequestLogRepo) Create(ctx context.Context, entry model.RequestLog) error {
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return customErrors.WrapInternal(err, "CreateRequestLog")
	}
	return nil
}

type BlockedIPRepo struct {
	db *gorm.DB
}

func NewBlockedIPRepo(db *gorm.DB) *BlockedIPRepo {
	return &BlockedIPRepo{db: db}
}

func (r *BlockedIPRepo) Block(ctx context.Context, ip string) (bool, error) {
	err := r.db.WithContext(ctx).Create(&model.BlockedIP{IPAddress: ip}).Error
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, customErrors.WrapInternal(err, "BlockIP")
	}
	return true, nil
}

func (r *BlockedIPRepo) Unblock(ctx context.Context, ip string) error {
	res := r.db.WithContext(ctx).Where("ip_address = ?", ip).Delete(&model.BlockedIP{})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UnblockIP")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (r *BlockedIPRepo) IsBlocked(ctx context.Context, ip string) (bool, error) {
	var entry model.BlockedIP
	err := r.db.WithContext(ctx).Where("ip_address = ?", ip).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, customErrors.WrapInternal(err, "IsBlocked")
	}
	return true, nil
}
