package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/bluefin-crm/data"
	"github.com/localnerve/bluefin-crm/internal/config"
	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/handlers"
	"github.com/localnerve/bluefin-crm/internal/logging"
	"github.com/localnerve/bluefin-crm/internal/media"
	crmsession "github.com/localnerve/bluefin-crm/internal/session"
	"github.com/localnerve/bluefin-crm/internal/views"
	"go.uber.org/zap"

	_ "github.com/localnerve/bluefin-crm/docs/api" // Swagger docs
)

// @title Bluefin CRM API
// @version 1.0.0
// @description JSON endpoints of the Bluefin advisor CRM
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/bluefin-crm
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session_id

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootFailure("Failed to load configuration", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, "bluefin-crm")
	if err != nil {
		bootFailure("Failed to create logger", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Bring every table to its current shape; any failure aborts startup
	reports, err := database.Reconcile(db, database.Shapes, time.Now())
	if err != nil {
		log.Fatal("Failed to reconcile schema", zap.Error(err))
	}
	for _, r := range database.SortedReports(reports) {
		log.Info("schema reconciled",
			zap.String("table", r.Table),
			zap.String("outcome", string(r.Outcome)),
			zap.Strings("missing", r.Missing),
			zap.Int("rows", r.Rows))
	}

	if cfg.SeedSampleData {
		fixtures, err := database.ParseFixtures(data.SampleData)
		if err != nil {
			log.Fatal("Failed to parse sample data", zap.Error(err))
		}
		seeded, err := database.Seed(db, fixtures)
		if err != nil {
			log.Fatal("Failed to seed sample data", zap.Error(err))
		}
		if seeded.Opportunities > 0 || seeded.Contacts > 0 {
			log.Info("sample data seeded",
				zap.Uint("user", seeded.UserID),
				zap.Int("opportunities", seeded.Opportunities),
				zap.Int("contacts", seeded.Contacts))
		}
	}

	sessionConfig := session.Config{
		Expiration:     cfg.SessionExpiration,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	var redisStorage *crmsession.RedisStorage
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisStorage, err = crmsession.NewRedisStorage(ctx, crmsession.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cancel()
		if err != nil {
			log.Fatal("Failed to connect session store", zap.Error(err))
		}
		sessionConfig.Storage = redisStorage
		log.Info("sessions stored in redis", zap.String("addr", cfg.RedisAddr))
	}

	pictureStore, err := newPictureStore(cfg)
	if err != nil {
		log.Fatal("Failed to prepare media store", zap.Error(err))
	}

	crm := &handlers.App{
		DB:       db,
		Sessions: session.New(sessionConfig),
		Pictures: &media.ProfilePictures{
			Store:    pictureStore,
			MaxBytes: cfg.MaxUploadBytes,
			MaxDim:   cfg.ProfilePictureDim,
			Quality:  cfg.ProfilePictureQual,
			Log:      log,
		},
		Log: log,
		Cfg: cfg,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: crm.ErrorHandler,
		Views:        views.New(),
		BodyLimit:    cfg.RequestBodyLimit(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("bluefin_crm")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	if cfg.MediaBackend == config.MediaLocal {
		app.Static(media.LocalURLPrefix, cfg.UploadDir)
	}
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(views.Static()),
		MaxAge: 3600,
	}))

	crm.Register(app)

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Info("Starting server", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("Failed to start server", zap.Error(err))
	}

	if redisStorage != nil {
		_ = redisStorage.Close()
	}
	log.Info("Server stopped")
}

func newPictureStore(cfg *config.Config) (media.Store, error) {
	if cfg.MediaBackend == config.MediaS3 {
		return media.NewS3Store(media.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}), nil
	}
	return media.NewLocalStore(cfg.UploadDir)
}

// bootFailure reports errors raised before the logger exists.
func bootFailure(msg string, err error) {
	boot, _ := zap.NewProduction()
	boot.Fatal(msg, zap.Error(err))
}
