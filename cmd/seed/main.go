package main

import (
	"time"

	"github.com/gamedepot/internal/config"
	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/logger"
	"github.com/gamedepot/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "action", Name: "Action", SortOrder: 1},
		{Slug: "rpg", Name: "RPG", SortOrder: 2},
		{Slug: "strategy", Name: "Strategy", SortOrder: 3},
		{Slug: "racing", Name: "Racing", SortOrder: 4},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 添加品牌
	brands := []models.Brand{
		{Slug: "nebula-arts", Name: "Nebula Arts", IsActive: true},
		{Slug: "ironforge", Name: "Ironforge Interactive", IsActive: true},
		{Slug: "polar-pixel", Name: "Polar Pixel", IsActive: true},
	}
	for _, brand := range brands {
		var existing models.Brand
		if err := models.DB.Where("slug = ?", brand.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&brand).Error; err != nil {
				stdLog.Printf("Failed to create brand %s: %v", brand.Slug, err)
			} else {
				stdLog.Printf("Created brand: %s", brand.Slug)
			}
		} else {
			stdLog.Printf("Brand already exists: %s", brand.Slug)
		}
	}

	categoryIDs := loadCategoryIDs()
	brandIDs := loadBrandIDs()

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  categoryIDs["action"],
			BrandID:     brandIDs["nebula-arts"],
			Slug:        "starfall-vanguard",
			Title:       "Starfall Vanguard",
			Description: "Fast paced co-op action across a collapsing galaxy.",
			Images:      models.StringArray{"https://images.gamedepot.local/starfall-vanguard.jpg"},
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(2499)),
			Stock:       120,
			IsActive:    true,
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["rpg"],
			BrandID:     brandIDs["ironforge"],
			Slug:        "emberlands",
			Title:       "Emberlands",
			Description: "An open world RPG of ash, ruin and renewal.",
			Images:      models.StringArray{"https://images.gamedepot.local/emberlands.jpg"},
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(3999)),
			Stock:       80,
			IsActive:    true,
			SortOrder:   2,
		},
		{
			CategoryID:  categoryIDs["strategy"],
			BrandID:     brandIDs["polar-pixel"],
			Slug:        "tundra-tactics",
			Title:       "Tundra Tactics",
			Description: "Turn based strategy on a frozen frontier.",
			Images:      models.StringArray{"https://images.gamedepot.local/tundra-tactics.jpg"},
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(1499)),
			Stock:       200,
			IsActive:    true,
			SortOrder:   3,
		},
		{
			CategoryID:  categoryIDs["racing"],
			BrandID:     brandIDs["nebula-arts"],
			Slug:        "apex-drift",
			Title:       "Apex Drift",
			Description: "Arcade racing with a full career mode.",
			Images:      models.StringArray{"https://images.gamedepot.local/apex-drift.jpg"},
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(1999)),
			Stock:       150,
			IsActive:    true,
			SortOrder:   4,
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 添加示例优惠券
	endsAt := time.Now().AddDate(0, 1, 0)
	coupons := []models.Coupon{
		{
			Code:           "WELCOME10",
			DiscountType:   constants.DiscountTypePercent,
			DiscountValue:  models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
			MaxDiscount:    models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
			PerUserLimit:   1,
			EndsAt:         &endsAt,
			IsActive:       true,
		},
		{
			Code:          "FLAT200",
			DiscountType:  constants.DiscountTypeFixed,
			DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(200)),
			UsageLimit:    500,
			EndsAt:        &endsAt,
			IsActive:      true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	stdLog.Printf("Seed finished")
}

func loadCategoryIDs() map[string]uint {
	ids := map[string]uint{}
	var list []models.Category
	if err := models.DB.Find(&list).Error; err != nil {
		return ids
	}
	for _, cat := range list {
		ids[cat.Slug] = cat.ID
	}
	return ids
}

func loadBrandIDs() map[string]uint {
	ids := map[string]uint{}
	var list []models.Brand
	if err := models.DB.Find(&list).Error; err != nil {
		return ids
	}
	for _, brand := range list {
		ids[brand.Slug] = brand.ID
	}
	return ids
}
