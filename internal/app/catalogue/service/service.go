package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/dto"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
)

const maxPageSize = 100

type Service interface {
	CreateCategory(ctx context.Context, in dto.CategoryDTO) (model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (model.Category, error)
	ListCategories(ctx context.Context, search string, page repo.Page) ([]model.Category, int64, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in dto.CategoryDTO) (model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, in dto.ProductDTO) (model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, f repo.ProductFilter, page repo.Page) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in dto.ProductDTO) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	AddImage(ctx context.Context, productID uuid.UUID, in dto.ProductImageDTO) (model.ProductImage, error)
	ListImages(ctx context.Context, productID uuid.UUID, page repo.Page) ([]model.ProductImage, int64, error)
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error

	CreateReview(ctx context.Context, productID, userID uuid.UUID, in dto.ReviewDTO) (model.Review, error)
	ListReviews(ctx context.Context, productID uuid.UUID, page repo.Page) ([]model.Review, int64, error)
	DeleteReview(ctx context.Context, productID, reviewID uuid.UUID, requester model.User) error
}

type catalogueService struct {
	categories repo.CategoryRepo
	products   repo.ProductRepo
	images     repo.ProductImageRepo
	reviews    repo.ReviewRepo
	cfg        *config.Config
	v          *validator.Validate
	log        *zap.Logger
}

func New(
	categories repo.CategoryRepo,
	products repo.ProductRepo,
	images repo.ProductImageRepo,
	reviews repo.ReviewRepo,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &catalogueService{
		categories: categories, products: products,
		images: images, reviews: reviews,
		cfg: cfg, v: v, log: log,
	}
}

// normalizePage clamps the requested page to sane bounds, falling back to the
// configured default size.
func normalizePage(page repo.Page, defaultSize int) repo.Page {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = defaultSize
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
	return page
}

func (s *catalogueService) CreateCategory(ctx context.Context, in dto.CategoryDTO) (model.Category, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Category{}, customErrors.NewInvalidArgument(err.Error())
	}

	c := model.Category{ID: uuid.New(), Name: in.Name, Description: in.Description}
	if _, err := s.categories.Create(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (s *catalogueService) GetCategory(ctx context.Context, id uuid.UUID) (model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *catalogueService) ListCategories(ctx context.Context, search string, page repo.Page) ([]model.Category, int64, error) {
	return s.categories.List(ctx, search, normalizePage(page, s.cfg.CategoryPageSize))
}

func (s *catalogueService) UpdateCategory(ctx context.Context, id uuid.UUID, in dto.CategoryDTO) (model.Category, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Category{}, customErrors.NewInvalidArgument(err.Error())
	}

	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	c.Name = in.Name
	c.Description = in.Description
	if err := s.categories.Update(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (s *catalogueService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}

func (s *catalogueService) CreateProduct(ctx context.Context, in dto.ProductDTO) (model.Product, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Product{}, customErrors.NewInvalidArgument(err.Error())
	}

	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return model.Product{}, customErrors.NewInvalidArgument("category does not exist")
		}
		return model.Product{}, err
	}

	p := model.Product{
		ID:            uuid.New(),
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
	}
	if _, err := s.products.Create(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *catalogueService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *catalogueService) ListProducts(ctx context.Context, f repo.ProductFilter, page repo.Page) ([]model.Product, int64, error) {
	return s.products.List(ctx, f, normalizePage(page, s.cfg.ProductPageSize))
}

func (s *catalogueService) UpdateProduct(ctx context.Context, id uuid.UUID, in dto.ProductDTO) (model.Product, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Product{}, customErrors.NewInvalidArgument(err.Error())
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	if p.CategoryID != in.CategoryID {
		if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, customErrors.ErrNotFound) {
				return model.Product{}, customErrors.NewInvalidArgument("category does not exist")
			}
			return model.Product{}, err
		}
	}

	p.CategoryID = in.CategoryID
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	if err := s.products.Update(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *catalogueService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *catalogueService) AddImage(ctx context.Context, productID uuid.UUID, in dto.ProductImageDTO) (model.ProductImage, error) {
	if err := s.v.Struct(in); err != nil {
		return model.ProductImage{}, customErrors.NewInvalidArgument(err.Error())
	}

	img := model.ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		ImageURL:  in.ImageURL,
		IsPrimary: in.IsPrimary,
	}
	if _, err := s.images.Create(ctx, img); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.ProductImage{}, customErrors.NewInvalidArgument("product already has a primary image")
		}
		return model.ProductImage{}, err
	}
	return img, nil
}

func (s *catalogueService) ListImages(ctx context.Context, productID uuid.UUID, page repo.Page) ([]model.ProductImage, int64, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.images.ListByProduct(ctx, productID, normalizePage(page, s.cfg.ImagePageSize))
}

func (s *catalogueService) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return s.images.Delete(ctx, productID, imageID)
}

func (s *catalogueService) CreateReview(ctx context.Context, productID, userID uuid.UUID, in dto.ReviewDTO) (model.Review, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Review{}, customErrors.NewInvalidArgument(err.Error())
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return model.Review{}, err
	}

	r := model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if _, err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Review{}, customErrors.NewInvalidArgument("you have already reviewed this product")
		}
		return model.Review{}, err
	}
	return r, nil
}

func (s *catalogueService) ListReviews(ctx context.Context, productID uuid.UUID, page repo.Page) ([]model.Review, int64, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByProduct(ctx, productID, normalizePage(page, s.cfg.ReviewPageSize))
}

// DeleteReview removes a review. Only its author or an admin may do so.
func (s *catalogueService) DeleteReview(ctx context.Context, productID, reviewID uuid.UUID, requester model.User) error {
	r, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if r.ProductID != productID {
		return customErrors.ErrNotFound
	}
	if r.UserID != requester.ID && requester.Role != model.RoleAdmin {
		return customErrors.ErrForbidden
	}
	return s.reviews.Delete(ctx, reviewID)
}
