package provider

import (
	"time"

	"github.com/gamedepot/internal/cache"
	"github.com/gamedepot/internal/config"
	"github.com/gamedepot/internal/logger"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/payment/razorpay"
	"github.com/gamedepot/internal/queue"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo        repository.UserRepository
	CategoryRepo    repository.CategoryRepository
	BrandRepo       repository.BrandRepository
	ProductRepo     repository.ProductRepository
	OfferRepo       repository.OfferRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	OrderRepo       repository.OrderRepository
	WalletRepo      repository.WalletRepository
	AddressRepo     repository.AddressRepository
	CartRepo        repository.CartRepository
	ReviewRepo      repository.ReviewRepository
	WishlistRepo    repository.WishlistRepository

	// Services
	UserAuthService    *service.UserAuthService
	CatalogService     *service.CatalogService
	ProductService     *service.ProductService
	OfferService       *service.OfferService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	WalletService      *service.WalletService
	OrderService       *service.OrderService
	PaymentService     *service.PaymentService
	AddressService     *service.AddressService
	CartService        *service.CartService
	ReviewService      *service.ReviewService
	WishlistService    *service.WishlistService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.BrandRepo = repository.NewBrandRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OfferRepo = repository.NewOfferRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.WalletRepo = repository.NewWalletRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.CategoryRepo, c.BrandRepo)
	c.OfferService = service.NewOfferService(c.OfferRepo, c.ProductRepo, c.QueueClient)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.BrandRepo, c.OfferService)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.WalletService = service.NewWalletService(c.WalletRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo, c.ProductRepo, c.CouponRepo, c.CouponUsageRepo,
		c.AddressRepo, c.CartRepo, c.CouponService, c.WalletService,
		c.QueueClient, cfg.Order.PaymentExpireMinutes, cfg.Order.DeliveryDays,
	)

	var gateway *razorpay.Client
	if cfg.Payment.Gateway.KeyID != "" {
		client, err := razorpay.NewClient(razorpay.Config{
			BaseURL:   cfg.Payment.Gateway.BaseURL,
			KeyID:     cfg.Payment.Gateway.KeyID,
			KeySecret: cfg.Payment.Gateway.KeySecret,
			Currency:  cfg.Payment.Gateway.Currency,
			TimeoutMS: cfg.Payment.Gateway.TimeoutMS,
		})
		if err != nil {
			logger.Errorw("provider_init_gateway_failed", "error", err)
		} else {
			gateway = client
		}
	}
	c.PaymentService = service.NewPaymentService(
		c.OrderRepo, c.ProductRepo, gateway,
		time.Duration(cfg.Payment.DedupeTTL)*time.Second,
	)

	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.OrderRepo, c.ProductRepo)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
}

// Close 释放容器持有的资源
func (c *Container) Close() {
	if c == nil || c.QueueClient == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
}
