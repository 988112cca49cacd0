package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"coursehub/internal/config"
	"coursehub/internal/db"
	"coursehub/internal/email"
	apihttp "coursehub/internal/http"
	"coursehub/internal/media"
	"coursehub/internal/repository"
	"coursehub/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	otpRepo := repository.NewPgOTPRepository(pool)
	courseRepo := repository.NewPgCourseRepository(pool)
	purchaseRepo := repository.NewPgPurchaseRepository(pool)
	orderRepo := repository.NewPgPaymentOrderRepository(pool)
	testimonialRepo := repository.NewPgTestimonialRepository(pool)
	curriculumRepo := repository.NewPgCurriculumRepository(pool)
	blogRepo := repository.NewPgBlogRepository(pool)
	bannerRepo := repository.NewPgBannerRepository(pool)
	productRepo := repository.NewPgProductRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter  service.OTPRateLimiter
		tokenStore  service.RefreshTokenStore
		ticketStore service.ResetTicketStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, 5*time.Minute, 3)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			ticketStore = service.NewRedisResetTicketStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	var mediaStore media.Store = media.NewDisabledStore("media store not configured")
	if cfg.MediaEndpoint != "" {
		store, err := media.NewMinioStore(cfg.MediaEndpoint, cfg.MediaAccessKey, cfg.MediaSecretKey, cfg.MediaBucket, cfg.MediaUseSSL)
		if err != nil {
			logger.Warn("media store init failed", zap.Error(err))
		} else {
			mediaStore = store
		}
	}

	authSvc := service.NewAuthService(logger, userRepo, otpRepo, emailSender, otpLimiter, ticketStore)
	enrollSvc := service.NewEnrollmentService(logger, userRepo, courseRepo, purchaseRepo)

	var snapClient service.SnapAPI
	if cfg.MidtransServerKey != "" {
		snapClient = service.NewSnapClient(cfg.MidtransServerKey, cfg.MidtransProduction)
	} else {
		logger.Warn("payment gateway not configured")
	}
	paySvc := service.NewPaymentService(logger, orderRepo, courseRepo, userRepo, snapClient, cfg.MidtransServerKey, enrollSvc)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc)
	enrollHandler := apihttp.NewEnrollmentHandler(logger, enrollSvc)
	catalogHandler := apihttp.NewCatalogHandler(logger, courseRepo, testimonialRepo, curriculumRepo, blogRepo, bannerRepo, productRepo)
	adminHandler := apihttp.NewAdminHandler(logger, userRepo, courseRepo, testimonialRepo, curriculumRepo, blogRepo, bannerRepo, productRepo, mediaStore)
	payHandler := apihttp.NewPaymentHandler(logger, paySvc)

	router := apihttp.NewRouter(logger, jwtSvc, authHandler, enrollHandler, catalogHandler, adminHandler, payHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
