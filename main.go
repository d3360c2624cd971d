package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/marketplace-api/controllers"
	"github.com/Kariqs/marketplace-api/initializers"
	"github.com/Kariqs/marketplace-api/metrics"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/routes"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var config *initializers.Config

func init() {
	var err error
	config, err = initializers.LoadEnv()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	initializers.SetupLogger(config.LogLevel, config.LogFormat)
	gin.SetMode(config.GinMode)

	if initializers.DB, err = initializers.ConnectToDB(config.DBDSN); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := initializers.SyncDatabase(initializers.DB); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}
	if err := initializers.EnsureSingletons(initializers.DB); err != nil {
		logrus.WithError(err).Fatal("failed to create configuration rows")
	}
	if err := initializers.SeedAdmin(initializers.DB, config.AdminSeedEmail, config.AdminSeedPassword); err != nil {
		logrus.WithError(err).Fatal("failed to seed admin")
	}
}

func pendingStore() services.PendingOrderStore {
	if config.RedisURL == "" {
		logrus.Info("REDIS_URL not set, staging checkouts in the database")
		return services.NewDBPendingStore(initializers.DB)
	}
	client, err := initializers.ConnectToRedis(config.RedisURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}
	return services.NewRedisPendingStore(client)
}

func mediaStore(ctx context.Context) controllers.MediaStore {
	if config.MediaBackend == "s3" {
		store, err := utils.NewS3Store(ctx, config.AWSRegion, config.AWSBucket)
		if err != nil {
			logrus.WithError(err).Fatal("failed to configure s3")
		}
		return store
	}
	return utils.NewCloudinary(config.CloudinaryCloudName, config.CloudinaryAPIKey, config.CloudinaryAPISecret, "")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otpLimiter := middlewares.NewRateLimiter(config.OTPRatePerMinute)
	loginLimiter := middlewares.NewRateLimiter(config.LoginRatePerMinute)
	c := &controllers.Controller{
		DB:           initializers.DB,
		Config:       config,
		Tokens:       utils.NewTokenManager(config.JWTSecret, config.JWTTTL),
		Payments:     utils.NewRazorpayClient(config.RazorpayKeyID, config.RazorpayKeySecret, ""),
		SMS:          utils.NewTwilioSMS(config.TwilioAccountSID, config.TwilioAuthToken, config.TwilioFrom, ""),
		Media:        mediaStore(ctx),
		Search:       utils.NewElasticSearch(config.ElasticsearchURL, config.ElasticsearchIndex),
		Mail:         utils.NewMailer(config.SendGridAPIKey, config.MailFrom),
		Pending:      pendingStore(),
		OTPLimiter:   otpLimiter,
		LoginLimiter: loginLimiter,
	}

	scheduler := initializers.StartCleanup(initializers.DB)
	scheduler.AddFunc("@every 10m", otpLimiter.Cleanup)
	scheduler.AddFunc("@every 10m", loginLimiter.Cleanup)
	defer scheduler.Stop()

	server := gin.New()
	server.Use(gin.Recovery(), middlewares.RequestLogger(), metrics.Middleware())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	server.MaxMultipartMemory = 32 << 20

	routes.DefaultRoutes(server)
	routes.CatalogRoutes(server, c)
	routes.UserRoutes(server, c)
	routes.SellerRoutes(server, c)
	routes.AdminRoutes(server, c)

	srv := &http.Server{Addr: ":" + config.Port, Handler: server}
	go func() {
		logrus.WithField("port", config.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
