package router

import (
	"github.com/gamedepot/internal/config"
	adminhandlers "github.com/gamedepot/internal/http/handlers/admin"
	publichandlers "github.com/gamedepot/internal/http/handlers/public"
	"github.com/gamedepot/internal/logger"
	"github.com/gamedepot/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/brands", publicHandler.GetBrands)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/products/:slug/reviews", publicHandler.GetProductReviews)
			public.GET("/payment/config", publicHandler.GetPaymentConfig)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", publicHandler.UserLogin)
		}

		// 支付网关回调（无需登录态，依赖验签）
		apiV1.POST("/payments/confirm", publicHandler.ConfirmPayment)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(c.UserAuthService, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.GET("/addresses", publicHandler.GetAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.PUT("/addresses/:id", publicHandler.UpdateAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.POST("/orders/:id/items/:item_id/cancel", publicHandler.CancelOrderItem)
			user.POST("/orders/:id/items/:item_id/return", publicHandler.RequestReturn)

			user.POST("/payments", publicHandler.CreatePayment)

			user.GET("/wallet", publicHandler.GetWallet)
			user.GET("/wallet/transactions", publicHandler.GetWalletTransactions)
			user.POST("/wallet/recharge", publicHandler.RechargeWallet)

			user.POST("/products/:slug/reviews", publicHandler.CreateReview)
			user.PUT("/products/:slug/reviews", publicHandler.UpdateReview)
			user.DELETE("/reviews/:id", publicHandler.DeleteReview)

			user.GET("/wishlist", publicHandler.GetWishlist)
			user.POST("/wishlist", publicHandler.AddWishlistItem)
			user.DELETE("/wishlist/:product_id", publicHandler.RemoveWishlistItem)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(c.UserAuthService, c.UserRepo), AdminOnlyMiddleware())
		{
			// 商品管理
			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.GET("/products/:id", adminHandler.GetAdminProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			// 分类与品牌管理
			admin.GET("/categories", adminHandler.GetAdminCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
			admin.GET("/brands", adminHandler.GetAdminBrands)
			admin.POST("/brands", adminHandler.CreateBrand)
			admin.PUT("/brands/:id", adminHandler.UpdateBrand)
			admin.DELETE("/brands/:id", adminHandler.DeleteBrand)

			// 优惠活动管理
			admin.GET("/offers", adminHandler.GetAdminOffers)
			admin.GET("/offers/:id", adminHandler.GetAdminOffer)
			admin.POST("/offers", adminHandler.CreateOffer)
			admin.PUT("/offers/:id", adminHandler.UpdateOffer)
			admin.DELETE("/offers/:id", adminHandler.DeleteOffer)

			// 优惠券管理
			admin.GET("/coupons", adminHandler.GetAdminCoupons)
			admin.GET("/coupons/:id", adminHandler.GetAdminCoupon)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			// 订单管理
			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/items/:item_id/return/approve", adminHandler.ApproveReturn)
			admin.POST("/orders/:id/items/:item_id/return/reject", adminHandler.RejectReturn)

			// 用户与钱包管理
			admin.GET("/users", adminHandler.GetAdminUsers)
			admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
			admin.POST("/users/:id/wallet/adjust", adminHandler.AdjustUserWallet)
			admin.GET("/users/:id/wallet/transactions", adminHandler.GetUserWalletTransactions)
		}
	}

	return r
}
