// Command seed fills an empty catalogue with demo categories and products.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgresRepo "github.com/veloxcart/ecommerce-api/internal/adapters/db/postgres"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	lg "github.com/veloxcart/ecommerce-api/internal/infra/log"
)

var seedData = map[string][]model.Product{
	"Electronics": {
		{Name: "Wireless Headphones", Description: "Over-ear, noise cancelling", Price: 129.99, StockQuantity: 40},
		{Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: 89.50, StockQuantity: 25},
		{Name: "USB-C Hub", Description: "7-in-1 with HDMI and PD", Price: 34.90, StockQuantity: 120},
	},
	"Books": {
		{Name: "The Go Programming Language", Description: "Donovan & Kernighan", Price: 44.99, StockQuantity: 15},
		{Name: "Designing Data-Intensive Applications", Description: "Kleppmann", Price: 54.99, StockQuantity: 10},
	},
	"Home & Kitchen": {
		{Name: "Pour-Over Coffee Kettle", Description: "Gooseneck, 1L", Price: 39.00, StockQuantity: 30},
		{Name: "Cast Iron Skillet", Description: "26cm, pre-seasoned", Price: 49.90, StockQuantity: 18},
	},
}

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	db, err := gorm.Open(postgres.Open(os.Getenv("DATABASE_URL")), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}

	categories := postgresRepo.NewCategoryRepo(db)
	products := postgresRepo.NewProductRepo(db)
	ctx := context.Background()

	var seeded int
	for name, items := range seedData {
		category := model.Category{
			ID:          uuid.New(),
			Name:        name,
			Description: fmt.Sprintf("%s assortment", name),
		}
		if _, err := categories.Create(ctx, category); err != nil {
			zapLog.Warn("skipping category", zap.String("name", name), zap.Error(err))
			continue
		}
		for _, p := range items {
			p.ID = uuid.New()
			p.CategoryID = category.ID
			if _, err := products.Create(ctx, p); err != nil {
				zapLog.Warn("skipping product", zap.String("name", p.Name), zap.Error(err))
				continue
			}
			seeded++
		}
	}
	zapLog.Info("catalogue seeded", zap.Int("products", seeded))
}
