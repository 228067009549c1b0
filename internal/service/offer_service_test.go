package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOfferServiceTest(t *testing.T) (*OfferService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:offer_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Offer{},
		&models.ProductOffer{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	offerRepo := repository.NewOfferRepository(db)
	productRepo := repository.NewProductRepository(db)
	return NewOfferService(offerRepo, productRepo, nil), db
}

func createTestProduct(t *testing.T, db *gorm.DB, brandID uint, slug string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		BrandID:    brandID,
		Slug:       slug,
		Title:      slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:      stock,
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestOffer(t *testing.T, svc *OfferService, name string, target models.OfferTarget, discountType string, value int64) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		Name:          name,
		Target:        target,
		DiscountType:  discountType,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(value)),
		IsActive:      true,
	}
	if err := svc.CreateOffer(offer); err != nil {
		t.Fatalf("create offer %s failed: %v", name, err)
	}
	return offer
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return &product
}

func TestResolveBestOfferPicksLargestDiscount(t *testing.T) {
	svc, db := setupOfferServiceTest(t)
	brand := models.Brand{Name: "Nintendo", Slug: "nintendo"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("create brand failed: %v", err)
	}
	product := createTestProduct(t, db, brand.ID, "zelda", 1000, 10)

	// 品牌 10% = 100，商品固定减 150，固定额胜出
	createTestOffer(t, svc, "品牌九折", models.BrandTarget(brand.ID), constants.DiscountTypePercent, 10)
	flat := createTestOffer(t, svc, "直降150", models.ProductTarget(product.ID), constants.DiscountTypeFixed, 150)

	got := reloadProduct(t, db, product.ID)
	if got.BestOfferID == nil || *got.BestOfferID != flat.ID {
		t.Fatalf("best offer = %v, want %d", got.BestOfferID, flat.ID)
	}
	if got.DiscountedPrice == nil || got.DiscountedPrice.String() != "850.00" {
		t.Fatalf("discounted price = %v, want 850.00", got.DiscountedPrice)
	}
}

func TestResolveBestOfferFirstAttachedWinsTie(t *testing.T) {
	svc, db := setupOfferServiceTest(t)
	product := createTestProduct(t, db, 1, "mario", 1000, 10)

	// 两个活动折扣额相同（10% 与固定 100），先挂载的胜出
	first := createTestOffer(t, svc, "先挂", models.ProductTarget(product.ID), constants.DiscountTypePercent, 10)
	createTestOffer(t, svc, "后挂", models.ProductTarget(product.ID), constants.DiscountTypeFixed, 100)

	got := reloadProduct(t, db, product.ID)
	if got.BestOfferID == nil || *got.BestOfferID != first.ID {
		t.Fatalf("best offer = %v, want first attached %d", got.BestOfferID, first.ID)
	}

	// 反向挂载顺序同样遵循先挂先胜
	product2 := createTestProduct(t, db, 1, "mario-2", 1000, 10)
	firstFixed := createTestOffer(t, svc, "先挂固定", models.ProductTarget(product2.ID), constants.DiscountTypeFixed, 100)
	createTestOffer(t, svc, "后挂百分比", models.ProductTarget(product2.ID), constants.DiscountTypePercent, 10)

	got2 := reloadProduct(t, db, product2.ID)
	if got2.BestOfferID == nil || *got2.BestOfferID != firstFixed.ID {
		t.Fatalf("best offer = %v, want first attached %d", got2.BestOfferID, firstFixed.ID)
	}
}

func TestResolveBestOfferSkipsInactiveAndWindowed(t *testing.T) {
	svc, db := setupOfferServiceTest(t)
	product := createTestProduct(t, db, 1, "metroid", 500, 5)

	future := time.Now().Add(24 * time.Hour)
	offer := &models.Offer{
		Name:          "未开始",
		Target:        models.ProductTarget(product.ID),
		DiscountType:  constants.DiscountTypePercent,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		StartsAt:      &future,
		IsActive:      true,
	}
	if err := svc.CreateOffer(offer); err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	got := reloadProduct(t, db, product.ID)
	if got.BestOfferID != nil {
		t.Fatalf("best offer should be empty before window opens, got %v", *got.BestOfferID)
	}
	if got.DiscountedPrice != nil {
		t.Fatalf("discounted price should be empty before window opens")
	}
}

func TestDeleteOfferClearsDerivedPrice(t *testing.T) {
	svc, db := setupOfferServiceTest(t)
	product := createTestProduct(t, db, 1, "pikmin", 300, 3)
	offer := createTestOffer(t, svc, "直降50", models.ProductTarget(product.ID), constants.DiscountTypeFixed, 50)

	if got := reloadProduct(t, db, product.ID); got.BestOfferID == nil {
		t.Fatalf("best offer should be set before delete")
	}

	if err := svc.DeleteOffer(offer.ID); err != nil {
		t.Fatalf("delete offer failed: %v", err)
	}
	got := reloadProduct(t, db, product.ID)
	if got.BestOfferID != nil || got.DiscountedPrice != nil {
		t.Fatalf("derived fields should be cleared after delete")
	}
}

func TestBrandOfferFansOutAndOnProductCreated(t *testing.T) {
	svc, db := setupOfferServiceTest(t)
	brand := models.Brand{Name: "Sega", Slug: "sega"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("create brand failed: %v", err)
	}
	existing := createTestProduct(t, db, brand.ID, "sonic", 400, 4)
	other := createTestProduct(t, db, 99, "other-brand", 400, 4)

	offer := createTestOffer(t, svc, "品牌八折", models.BrandTarget(brand.ID), constants.DiscountTypePercent, 20)

	if got := reloadProduct(t, db, existing.ID); got.BestOfferID == nil || *got.BestOfferID != offer.ID {
		t.Fatalf("brand offer not applied to existing product")
	}
	if got := reloadProduct(t, db, other.ID); got.BestOfferID != nil {
		t.Fatalf("brand offer leaked to another brand's product")
	}

	// 新建商品自动挂载已有品牌活动
	late := createTestProduct(t, db, brand.ID, "sonic-2", 600, 6)
	if err := svc.OnProductCreated(late); err != nil {
		t.Fatalf("on product created failed: %v", err)
	}
	got := reloadProduct(t, db, late.ID)
	if got.BestOfferID == nil || *got.BestOfferID != offer.ID {
		t.Fatalf("brand offer not attached to new product")
	}
	if got.DiscountedPrice == nil || got.DiscountedPrice.String() != "480.00" {
		t.Fatalf("discounted price = %v, want 480.00", got.DiscountedPrice)
	}
}

func TestSweepExpiredOffers(t *testing.T) {
	svc, db := setupOfferServiceTest(t)
	product := createTestProduct(t, db, 1, "kirby", 200, 2)

	past := time.Now().Add(-time.Hour)
	offer := &models.Offer{
		Name:          "已到期",
		Target:        models.ProductTarget(product.ID),
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		EndsAt:        &past,
		IsActive:      true,
	}
	// 绕过服务层窗口生效判断直接写入，模拟运行中到期的活动
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if err := db.Create(&models.ProductOffer{ProductID: product.ID, OfferID: offer.ID, Position: 1}).Error; err != nil {
		t.Fatalf("attach offer failed: %v", err)
	}
	offerID := offer.ID
	discounted := models.NewMoneyFromDecimal(decimal.NewFromInt(180))
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"best_offer_id": offerID, "discounted_price": discounted}).Error; err != nil {
		t.Fatalf("seed derived price failed: %v", err)
	}

	affected, err := svc.SweepExpiredOffers(time.Now())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	var swept models.Offer
	if err := db.First(&swept, offer.ID).Error; err != nil {
		t.Fatalf("reload offer failed: %v", err)
	}
	if swept.IsActive {
		t.Fatalf("expired offer should be deactivated")
	}
	got := reloadProduct(t, db, product.ID)
	if got.BestOfferID != nil || got.DiscountedPrice != nil {
		t.Fatalf("derived fields should be cleared after sweep")
	}
}

func TestValidateOfferRejectsBadInput(t *testing.T) {
	svc, db := setupOfferServiceTest(t)
	product := createTestProduct(t, db, 1, "cheap", 100, 1)

	cases := []struct {
		name  string
		offer models.Offer
		want  error
	}{
		{
			"percent_over_100",
			models.Offer{Name: "x", Target: models.ProductTarget(product.ID), DiscountType: constants.DiscountTypePercent, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(120)), IsActive: true},
			ErrOfferInvalidValue,
		},
		{
			"fixed_over_price",
			models.Offer{Name: "x", Target: models.ProductTarget(product.ID), DiscountType: constants.DiscountTypeFixed, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(150)), IsActive: true},
			ErrOfferInvalidValue,
		},
		{
			"zero_value",
			models.Offer{Name: "x", Target: models.ProductTarget(product.ID), DiscountType: constants.DiscountTypePercent, DiscountValue: models.Money{}, IsActive: true},
			ErrOfferInvalidValue,
		},
		{
			"bad_target_kind",
			models.Offer{Name: "x", Target: models.OfferTarget{Kind: "category", RefID: 1}, DiscountType: constants.DiscountTypePercent, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), IsActive: true},
			ErrOfferTargetInvalid,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offer := tc.offer
			if err := svc.CreateOffer(&offer); !errors.Is(err, tc.want) {
				t.Fatalf("create offer error = %v, want %v", err, tc.want)
			}
		})
	}

	bad := models.Offer{
		Name:          "窗口倒置",
		Target:        models.ProductTarget(product.ID),
		DiscountType:  constants.DiscountTypePercent,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive:      true,
	}
	start := time.Now().Add(time.Hour)
	end := time.Now()
	bad.StartsAt, bad.EndsAt = &start, &end
	if err := svc.CreateOffer(&bad); !errors.Is(err, ErrOfferInvalidWindow) {
		t.Fatalf("create offer error = %v, want %v", err, ErrOfferInvalidWindow)
	}
}
