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

func setupCouponServiceTest(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	return NewCouponService(couponRepo, usageRepo), db
}

func createTestCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestApplyCouponPercentWithCap(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createTestCoupon(t, db, &models.Coupon{
		Code:          "SAVE10",
		DiscountType:  constants.DiscountTypePercent,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MaxDiscount:   models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		IsActive:      true,
	})

	// 10% = 100，封顶到 50
	discount, coupon, err := svc.ApplyCoupon(models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), "save10", 1)
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if coupon == nil || coupon.Code != "SAVE10" {
		t.Fatalf("coupon lookup should be case-insensitive")
	}
	if discount.String() != "50.00" {
		t.Fatalf("discount = %s, want 50.00", discount.String())
	}

	// 未触顶时按比例计算
	discount, _, err = svc.ApplyCoupon(models.NewMoneyFromDecimal(decimal.NewFromInt(300)), "SAVE10", 1)
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if discount.String() != "30.00" {
		t.Fatalf("discount = %s, want 30.00", discount.String())
	}
}

func TestApplyCouponFixedNeverExceedsSubtotal(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createTestCoupon(t, db, &models.Coupon{
		Code:          "FLAT200",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(200)),
		IsActive:      true,
	})

	discount, _, err := svc.ApplyCoupon(models.NewMoneyFromDecimal(decimal.NewFromInt(150)), "FLAT200", 1)
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if discount.String() != "150.00" {
		t.Fatalf("discount = %s, want 150.00", discount.String())
	}
}

func TestApplyCouponValidation(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	createTestCoupon(t, db, &models.Coupon{Code: "OFF", DiscountType: constants.DiscountTypeFixed, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), IsActive: false})
	createTestCoupon(t, db, &models.Coupon{Code: "SOON", DiscountType: constants.DiscountTypeFixed, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), StartsAt: &future, IsActive: true})
	createTestCoupon(t, db, &models.Coupon{Code: "GONE", DiscountType: constants.DiscountTypeFixed, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), EndsAt: &past, IsActive: true})
	createTestCoupon(t, db, &models.Coupon{Code: "BIG", DiscountType: constants.DiscountTypeFixed, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(500)), IsActive: true})
	createTestCoupon(t, db, &models.Coupon{Code: "CAPPED", DiscountType: constants.DiscountTypeFixed, DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), UsageLimit: 2, UsedCount: 2, IsActive: true})

	subtotal := models.NewMoneyFromDecimal(decimal.NewFromInt(100))
	cases := []struct {
		code string
		want error
	}{
		{"", ErrCouponInvalid},
		{"NOPE", ErrCouponNotFound},
		{"OFF", ErrCouponInactive},
		{"SOON", ErrCouponNotStarted},
		{"GONE", ErrCouponExpired},
		{"BIG", ErrCouponMinAmount},
		{"CAPPED", ErrCouponUsageLimit},
	}
	for _, tc := range cases {
		if _, _, err := svc.ApplyCoupon(subtotal, tc.code, 1); !errors.Is(err, tc.want) {
			t.Fatalf("apply %q error = %v, want %v", tc.code, err, tc.want)
		}
	}
}

func TestApplyCouponPerUserLimit(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:          "ONCE",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		PerUserLimit:  1,
		IsActive:      true,
	})
	orderID := uint(7)
	if err := db.Create(&models.CouponUsage{CouponID: coupon.ID, UserID: 1, OrderID: orderID}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	subtotal := models.NewMoneyFromDecimal(decimal.NewFromInt(100))
	if _, _, err := svc.ApplyCoupon(subtotal, "ONCE", 1); !errors.Is(err, ErrCouponPerUserLimit) {
		t.Fatalf("user 1 should hit per-user limit, got %v", err)
	}
	if _, _, err := svc.ApplyCoupon(subtotal, "ONCE", 2); err != nil {
		t.Fatalf("user 2 should pass, got %v", err)
	}
}

func TestCouponAdminCRUD(t *testing.T) {
	_, db := setupCouponServiceTest(t)
	admin := NewCouponAdminService(repository.NewCouponRepository(db))

	coupon := &models.Coupon{
		Code:          " welcome ",
		DiscountType:  constants.DiscountTypePercent,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		IsActive:      true,
	}
	if err := admin.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	if coupon.Code != "WELCOME" {
		t.Fatalf("code should be uppercased, got %q", coupon.Code)
	}

	dup := &models.Coupon{
		Code:          "welcome",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	}
	if err := admin.Create(dup); !errors.Is(err, ErrCouponCodeExists) {
		t.Fatalf("duplicate code error = %v, want %v", err, ErrCouponCodeExists)
	}

	coupon.DiscountValue = models.NewMoneyFromDecimal(decimal.NewFromInt(20))
	if err := admin.Update(coupon); err != nil {
		t.Fatalf("update coupon failed: %v", err)
	}

	if err := admin.Delete(coupon.ID); err != nil {
		t.Fatalf("delete coupon failed: %v", err)
	}
	if _, err := admin.Get(coupon.ID); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("get deleted coupon error = %v, want %v", err, ErrCouponNotFound)
	}
}

func TestCouponAdminCreateValidationByField(t *testing.T) {
	_, db := setupCouponServiceTest(t)
	admin := NewCouponAdminService(repository.NewCouponRepository(db))
	now := time.Now()
	earlier := now.Add(-time.Hour)

	valid := func() *models.Coupon {
		return &models.Coupon{
			Code:          "VALID",
			DiscountType:  constants.DiscountTypeFixed,
			DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			IsActive:      true,
		}
	}

	cases := []struct {
		name   string
		mutate func(c *models.Coupon)
		want   error
	}{
		{"blank code", func(c *models.Coupon) { c.Code = "  " }, ErrCouponCodeRequired},
		{"unknown type", func(c *models.Coupon) { c.DiscountType = "bogus" }, ErrCouponInvalidValue},
		{"percent above 100", func(c *models.Coupon) {
			c.DiscountType = constants.DiscountTypePercent
			c.DiscountValue = models.NewMoneyFromDecimal(decimal.NewFromInt(120))
		}, ErrCouponInvalidValue},
		{"zero fixed value", func(c *models.Coupon) {
			c.DiscountValue = models.NewMoneyFromDecimal(decimal.Zero)
		}, ErrCouponInvalidValue},
		{"negative min amount", func(c *models.Coupon) {
			c.MinOrderAmount = models.NewMoneyFromDecimal(decimal.NewFromInt(-1))
		}, ErrCouponInvalidAmount},
		{"negative usage limit", func(c *models.Coupon) { c.UsageLimit = -1 }, ErrCouponInvalidLimit},
		{"negative per-user limit", func(c *models.Coupon) { c.PerUserLimit = -1 }, ErrCouponInvalidLimit},
		{"end before start", func(c *models.Coupon) {
			c.StartsAt = &now
			c.EndsAt = &earlier
		}, ErrCouponInvalidWindow},
	}
	for _, tc := range cases {
		coupon := valid()
		tc.mutate(coupon)
		if err := admin.Create(coupon); !errors.Is(err, tc.want) {
			t.Fatalf("%s: create error = %v, want %v", tc.name, err, tc.want)
		}
	}

	// 全部字段合法时创建成功
	if err := admin.Create(valid()); err != nil {
		t.Fatalf("valid coupon should be accepted, got %v", err)
	}
}
