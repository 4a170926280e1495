package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/recipemarket/internal/config"
	"anoa.com/recipemarket/internal/middleware"
	"anoa.com/recipemarket/internal/scheduler"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/mailer"
	"anoa.com/recipemarket/pkg/response"
	"anoa.com/recipemarket/pkg/storage"

	bakerHttp "anoa.com/recipemarket/internal/modules/baker/delivery/http"
	bakerRepo "anoa.com/recipemarket/internal/modules/baker/repository"
	bakerService "anoa.com/recipemarket/internal/modules/baker/service"

	categoryHttp "anoa.com/recipemarket/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/recipemarket/internal/modules/category/repository"
	categoryService "anoa.com/recipemarket/internal/modules/category/service"

	feedHttp "anoa.com/recipemarket/internal/modules/feed/delivery/http"
	feedRepo "anoa.com/recipemarket/internal/modules/feed/repository"
	feedService "anoa.com/recipemarket/internal/modules/feed/service"

	followerHttp "anoa.com/recipemarket/internal/modules/follower/delivery/http"
	followerRepo "anoa.com/recipemarket/internal/modules/follower/repository"
	followerService "anoa.com/recipemarket/internal/modules/follower/service"

	notifHttp "anoa.com/recipemarket/internal/modules/notification/delivery/http"
	notifService "anoa.com/recipemarket/internal/modules/notification/service"

	purchaseHttp "anoa.com/recipemarket/internal/modules/purchase/delivery/http"
	purchaseRepo "anoa.com/recipemarket/internal/modules/purchase/repository"
	purchaseService "anoa.com/recipemarket/internal/modules/purchase/service"

	recipeHttp "anoa.com/recipemarket/internal/modules/recipe/delivery/http"
	recipeRepo "anoa.com/recipemarket/internal/modules/recipe/repository"
	recipeService "anoa.com/recipemarket/internal/modules/recipe/service"

	reviewHttp "anoa.com/recipemarket/internal/modules/review/delivery/http"
	reviewRepo "anoa.com/recipemarket/internal/modules/review/repository"
	reviewService "anoa.com/recipemarket/internal/modules/review/service"

	searchService "anoa.com/recipemarket/internal/modules/search/service"

	seenHttp "anoa.com/recipemarket/internal/modules/seen/delivery/http"
	seenRepo "anoa.com/recipemarket/internal/modules/seen/repository"
	seenService "anoa.com/recipemarket/internal/modules/seen/service"

	userHttp "anoa.com/recipemarket/internal/modules/user/delivery/http"
	userRepo "anoa.com/recipemarket/internal/modules/user/repository"
	userService "anoa.com/recipemarket/internal/modules/user/service"

	verificationHttp "anoa.com/recipemarket/internal/modules/verification/delivery/http"
	verificationRepo "anoa.com/recipemarket/internal/modules/verification/repository"
	verificationService "anoa.com/recipemarket/internal/modules/verification/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RankingJob is the name of the scheduled baker ranking refresh.
const RankingJob = "baker-rankings"

// Deps are the external clients the server is built on. Redis and Meili are
// optional; the features they back become no-ops when nil. A nil Mailer is
// built from cfg.SMTP.
type Deps struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Meili        meilisearch.ServiceManager
	ImageStorage storage.ImageStorage
	Mailer       mailer.Mailer
}

type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	httpSrv   *http.Server
	scheduler *scheduler.Scheduler
}

func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	db := deps.DB
	redisClient := deps.Redis
	folder := cfg.CloudinaryUploadFolder

	var searchSvc searchService.SearchService
	if deps.Meili != nil {
		searchSvc = searchService.NewMeiliSearchService(deps.Meili)
	}

	userRepository := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(userRepository, searchSvc, userService.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
	})
	authHandler := userHttp.NewAuthHandler(authSvc)

	followerRepository := followerRepo.NewFollowerRepository(db)
	followerSvc := followerService.NewFollowerService(followerRepository)
	followerHandler := followerHttp.NewFollowerHandler(followerSvc)

	seenSvc := seenService.NewSeenService(seenRepo.NewSeenRecipeRepository(db))
	seenHandler := seenHttp.NewSeenHandler(seenSvc)

	feedSvc := feedService.NewFeedService(feedRepo.NewFeedRepository(db))
	feedHandler := feedHttp.NewFeedHandler(feedSvc)

	notificationSvc := notifService.NewNotificationService(redisClient, followerSvc)
	origins := parseOrigins(cfg.AllowedOrigins)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, origins)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	var indexer recipeService.Indexer
	if searchSvc != nil {
		indexer = searchSvc
	}
	recipeSvc := recipeService.NewRecipeService(
		recipeRepo.NewRecipeRepository(db),
		categoryRepository,
		deps.ImageStorage,
		indexer,
		notificationSvc,
		folder,
	)
	recipeHandler := recipeHttp.NewRecipeHandler(recipeSvc)

	purchaseRepository := purchaseRepo.NewPurchaseRepository(db)
	purchaseSvc := purchaseService.NewPurchaseService(purchaseRepository, redisClient, cfg.RateLimitPurchase)
	purchaseHandler := purchaseHttp.NewPurchaseHandler(purchaseSvc)

	reviewSvc := reviewService.NewReviewService(
		reviewRepo.NewReviewRepository(db),
		deps.ImageStorage,
		folder,
		redisClient,
		cfg.RateLimitReview,
	)
	reviewHandler := reviewHttp.NewReviewHandler(reviewSvc)

	bakerSvc := bakerService.NewBakerService(
		bakerRepo.NewBakerRepository(db),
		deps.ImageStorage,
		folder,
		followerRepository,
		purchaseRepository,
	)
	bakerHandler := bakerHttp.NewBakerHandler(bakerSvc)

	mail := deps.Mailer
	if mail == nil {
		mail = mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	otpSvc := verificationService.NewOTPService(
		verificationRepo.NewOTPRepository(db),
		userRepository,
		mail,
		redisClient,
		cfg.RateLimitOTP,
	)
	otpHandler := verificationHttp.NewOTPHandler(otpSvc)

	verificationSvc := verificationService.NewVerificationService(
		verificationRepo.NewVerificationRepository(db),
		deps.ImageStorage,
		folder,
	)
	verificationHandler := verificationHttp.NewVerificationHandler(verificationSvc)

	jobs := scheduler.New(5 * time.Minute)
	if err := jobs.Register(scheduler.FuncJob{
		JobName: RankingJob,
		Spec:    cfg.RankingSchedule,
		Fn:      bakerSvc.RefreshRankings,
	}); err != nil {
		return nil, err
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	setupCORS(router, origins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger("/health"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	authMiddleware := middleware.NewAuthMiddleware(userRepository, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/otp/generate", otpHandler.Generate)
		auth.POST("/otp/verify", otpHandler.Verify)
		auth.GET("/check-verification", otpHandler.CheckVerification)
	}

	api.GET("/recipes", recipeHandler.GetAllRecipes)
	api.GET("/recipes/:id", recipeHandler.GetRecipe)
	api.GET("/recipes/baker/:baker_id", recipeHandler.GetBakerRecipes)
	api.GET("/reviews/:recipe_id", reviewHandler.GetRecipeReviews)
	api.GET("/categories", categoryHandler.GetAllCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)
	api.GET("/bakers", bakerHandler.List)
	api.GET("/bakers/:user_id", bakerHandler.Get)
	api.GET("/bakers/:user_id/display", bakerHandler.GetDisplayInfo)
	api.GET("/followers/:baker_id", followerHandler.ListFollowers)
	api.GET("/followers/count/:baker_id", followerHandler.CountFollowers)
	api.GET("/followers/is-following/:baker_id/:follower_id", followerHandler.IsFollowing)
	api.GET("/verifications/:user_id/status", verificationHandler.GetStatus)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/categories", categoryHandler.CreateCategory)
			adminGroup.PUT("/categories/:id", categoryHandler.UpdateCategory)
			adminGroup.DELETE("/categories/:id", categoryHandler.DeleteCategory)
			adminGroup.GET("/verifications", verificationHandler.List)
			adminGroup.PUT("/verifications/:user_id", verificationHandler.UpdateStatus)
			adminGroup.PUT("/users/:user_id/verified", verificationHandler.SetUserVerified)
			adminGroup.POST("/jobs/rankings", func(c *gin.Context) {
				if err := jobs.RunNow(c.Request.Context(), RankingJob); err != nil {
					response.ResponseError(c, err)
					return
				}
				c.JSON(http.StatusOK, gin.H{"message": "rankings refreshed"})
			})
		}

		protected.GET("/users/me", authHandler.Me)

		// Follow & feed routes
		protected.POST("/followers/follow", followerHandler.Follow)
		protected.POST("/followers/unfollow", followerHandler.Unfollow)
		protected.GET("/followers/notifications", feedHandler.GetNotifications)
		protected.POST("/seen-recipes", seenHandler.MarkSeen)
		protected.GET("/seen-recipes/:recipe_id", seenHandler.IsSeen)

		// Recipe routes
		protected.POST("/recipes", recipeHandler.CreateRecipe)
		protected.PUT("/recipes/:id", recipeHandler.UpdateRecipe)
		protected.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)

		// Baker routes
		protected.POST("/bakers", bakerHandler.Create)
		protected.GET("/bakers/me", bakerHandler.GetMe)
		protected.PUT("/bakers/me", bakerHandler.Update)
		protected.DELETE("/bakers/me", bakerHandler.Delete)
		protected.PUT("/bakers/me/profile-image", bakerHandler.UpdateProfileImage)

		// Purchase routes
		protected.POST("/purchases", purchaseHandler.BuyRecipes)
		protected.GET("/purchases", purchaseHandler.ListMyPurchases)
		protected.GET("/purchases/:recipe_id/status", purchaseHandler.HasPurchased)

		protected.POST("/reviews", reviewHandler.CreateReview)

		// Seller verification
		protected.POST("/verifications", verificationHandler.Submit)
		protected.GET("/verifications/me", verificationHandler.GetMine)
	}

	api.GET("/notifications/ws", authMiddleware.RequireAuthWS(), notificationHandler.HandleWebSocket)

	return &Server{
		cfg:    cfg,
		engine: router,
		httpSrv: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		scheduler: jobs,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the scheduler and serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	s.scheduler.Start()

	logger.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops scheduled jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	httpErr := s.httpSrv.Shutdown(ctx)
	schedErr := s.scheduler.Stop(ctx)
	return errors.Join(httpErr, schedErr)
}

// parseOrigins splits the comma separated ALLOWED_ORIGINS value.
func parseOrigins(allowedOrigins string) []string {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
