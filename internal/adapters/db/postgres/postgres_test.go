package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.Review{},
		&model.RequestLog{},
		&model.BlockedIP{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUserRepo_CRUD(t *testing.T) {
	r := NewUserRepo(setupDB(t))
	ctx := context.Background()

	user := model.User{
		ID: uuid.New(), Email: "e@example.com", FirstName: "Jane", LastName: "Doe",
		PasswordHash: "h", Role: model.RoleCustomer, CreatedAt: time.Now(),
	}
	id, err := r.CreateUser(ctx, user)
	if err != nil || id != user.ID {
		t.Fatalf("create %v", err)
	}
	got, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil || got.ID != user.ID {
		t.Fatalf("get by email %v", err)
	}
	got2, err := r.GetUserByID(ctx, user.ID)
	if err != nil || got2.Email != user.Email {
		t.Fatalf("get by id %v", err)
	}
	got2.IsActive = true
	if err := r.UpdateUser(ctx, got2); err != nil {
		t.Fatalf("update %v", err)
	}
	if err := r.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete %v", err)
	}
	if _, err := r.GetUserByID(ctx, user.ID); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	r := NewUserRepo(setupDB(t))
	ctx := context.Background()

	u := model.User{ID: uuid.New(), Email: "dup@example.com", PasswordHash: "h"}
	if _, err := r.CreateUser(ctx, u); err != nil {
		t.Fatalf("create %v", err)
	}
	u.ID = uuid.New()
	if _, err := r.CreateUser(ctx, u); !customErrors.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func seedCatalogue(t *testing.T, db *gorm.DB) (model.Category, []model.Product) {
	t.Helper()
	ctx := context.Background()

	cats := NewCategoryRepo(db)
	prods := NewProductRepo(db)

	cat := model.Category{ID: uuid.New(), Name: "Books"}
	if _, err := cats.Create(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	specs := []struct {
		name  string
		price float64
	}{
		{"Cheap Paperback", 5.00},
		{"Standard Hardcover", 25.00},
		{"Collector Edition", 120.00},
	}
	var out []model.Product
	for i, s := range specs {
		p := model.Product{
			ID: uuid.New(), CategoryID: cat.ID, Name: s.name,
			Description: "a book", Price: s.price, StockQuantity: 10,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if _, err := prods.Create(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
		out = append(out, p)
	}
	return cat, out
}

func TestProductRepo_ListFilters(t *testing.T) {
	db := setupDB(t)
	_, products := seedCatalogue(t, db)
	r := NewProductRepo(db)
	ctx := context.Background()
	page := repo.Page{Number: 1, Size: 10}

	lt := 30.0
	got, total, err := r.List(ctx, repo.ProductFilter{PriceLT: &lt}, page)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("price filter: want 2, got %d/%d", total, len(got))
	}

	got, total, err = r.List(ctx, repo.ProductFilter{Search: "collector"}, page)
	if err != nil || total != 1 {
		t.Fatalf("search filter: total=%d err=%v", total, err)
	}
	if got[0].ID != products[2].ID {
		t.Fatalf("search returned wrong product")
	}

	got, _, err = r.List(ctx, repo.ProductFilter{OrderBy: "price"}, page)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Price > got[1].Price || got[1].Price > got[2].Price {
		t.Fatal("expected ascending price ordering")
	}
}

func TestProductRepo_AverageRating(t *testing.T) {
	db := setupDB(t)
	_, products := seedCatalogue(t, db)
	reviews := NewReviewRepo(db)
	r := NewProductRepo(db)
	ctx := context.Background()

	for _, rating := range []int{4, 2} {
		_, err := reviews.Create(ctx, model.Review{
			ID: uuid.New(), ProductID: products[0].ID, UserID: uuid.New(), Rating: rating,
		})
		if err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	got, err := r.GetByID(ctx, products[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AverageRating != 3.0 {
		t.Fatalf("average rating want 3.0, got %v", got.AverageRating)
	}

	gte := 2.5
	_, total, err := r.List(ctx, repo.ProductFilter{RatingGTE: &gte}, repo.Page{Number: 1, Size: 10})
	if err != nil || total != 1 {
		t.Fatalf("rating filter: total=%d err=%v", total, err)
	}
}

func TestProductImageRepo_SinglePrimary(t *testing.T) {
	db := setupDB(t)
	_, products := seedCatalogue(t, db)
	r := NewProductImageRepo(db)
	ctx := context.Background()

	first := model.ProductImage{
		ID: uuid.New(), ProductID: products[0].ID,
		ImageURL: "https://cdn.example.com/1.jpg", IsPrimary: true,
	}
	if _, err := r.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := model.ProductImage{
		ID: uuid.New(), ProductID: products[0].ID,
		ImageURL: "https://cdn.example.com/2.jpg", IsPrimary: true,
	}
	if _, err := r.Create(ctx, second); !customErrors.IsAlreadyExists(err) {
		t.Fatalf("want already exists for second primary, got %v", err)
	}

	second.IsPrimary = false
	if _, err := r.Create(ctx, second); err != nil {
		t.Fatalf("secondary image: %v", err)
	}

	_, total, err := r.ListByProduct(ctx, products[0].ID, repo.Page{Number: 1, Size: 10})
	if err != nil || total != 2 {
		t.Fatalf("list: total=%d err=%v", total, err)
	}
}

func TestProductImageRepo_UnknownProduct(t *testing.T) {
	db := setupDB(t)
	r := NewProductImageRepo(db)

	img := model.ProductImage{ID: uuid.New(), ProductID: uuid.New(), ImageURL: "https://x/1.jpg"}
	if _, err := r.Create(context.Background(), img); !customErrors.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestReviewRepo_OnePerUser(t *testing.T) {
	db := setupDB(t)
	_, products := seedCatalogue(t, db)
	r := NewReviewRepo(db)
	ctx := context.Background()

	userID := uuid.New()
	rev := model.Review{ID: uuid.New(), ProductID: products[0].ID, UserID: userID, Rating: 5}
	if _, err := r.Create(ctx, rev); err != nil {
		t.Fatalf("create: %v", err)
	}
	rev.ID = uuid.New()
	if _, err := r.Create(ctx, rev); !customErrors.IsAlreadyExists(err) {
		t.Fatalf("want already exists, got %v", err)
	}
}

func TestBlockedIPRepo(t *testing.T) {
	db := setupDB(t)
	r := NewBlockedIPRepo(db)
	ctx := context.Background()

	created, err := r.Block(ctx, "203.0.113.9")
	if err != nil || !created {
		t.Fatalf("block: created=%v err=%v", created, err)
	}
	created, err = r.Block(ctx, "203.0.113.9")
	if err != nil || created {
		t.Fatalf("re-block should not create: created=%v err=%v", created, err)
	}

	blocked, err := r.IsBlocked(ctx, "203.0.113.9")
	if err != nil || !blocked {
		t.Fatalf("is blocked: %v %v", blocked, err)
	}
	if err := r.Unblock(ctx, "203.0.113.9"); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	blocked, _ = r.IsBlocked(ctx, "203.0.113.9")
	if blocked {
		t.Fatal("expected unblocked")
	}
}
