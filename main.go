package main

import (
	"log"
	"time"

	"fleetops/config"
	"fleetops/controllers/idgen"
	"fleetops/database"
	"fleetops/logger"
	"fleetops/migration"
	"fleetops/notify"
	"fleetops/ocr"
	"fleetops/ocr/tesseract"
	"fleetops/repositories"
	"fleetops/routes"
	"fleetops/services"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	zlog, err := logger.New(config.LogLevel, config.LogFormat, "fleetops")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := idgen.Init(config.NodeID); err != nil {
		zlog.Fatal("Failed to init id generator", zap.Error(err))
	}

	db, err := database.Open(database.FromConfig(), zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migration.Migrate(db); err != nil {
		zlog.Fatal("Failed to auto migrate", zap.Error(err))
	}
	if err := database.RunSeeders(db, zlog, config.AdminUsername, config.AdminPassword); err != nil {
		zlog.Fatal("Failed to seed", zap.Error(err))
	}

	engine := buildEngine(zlog)
	notifier := buildNotifier(zlog)

	app := routes.NewApp(routes.Dependencies{
		DB:           db,
		Log:          zlog,
		Ocr:          services.NewOcrService(engine, config.OCRTimeout, zlog),
		Users:        services.NewUserService(repositories.NewUserRepository(db), config.JWTSecret, time.Duration(config.JWTExpiration)*time.Second),
		Notifier:     notifier,
		Prefix:       config.MAIN_ROUTES,
		AuthRequired: config.AuthRequired,
		JWTSecret:    config.JWTSecret,
		QRBaseURL:    config.QRBaseURL,
	})

	zlog.Info("Server starting", zap.String("port", config.APP_PORT), zap.String("ocr_engine", engine.Name()))
	if err := app.Listen(":" + config.APP_PORT); err != nil {
		zlog.Fatal("Server stopped", zap.Error(err))
	}
}

// buildEngine picks the recognizer from OCR_ENGINE and puts the Redis cache in
// front of it when REDIS_ADDR is set.
func buildEngine(zlog *zap.Logger) ocr.Engine {
	var engine ocr.Engine
	switch config.OCREngine {
	case "remote":
		if config.OCRRemoteURL == "" {
			zlog.Fatal("OCR_REMOTE_URL is required when OCR_ENGINE=remote")
		}
		engine = ocr.NewRemoteEngine(config.OCRRemoteURL, config.OCRTimeout)
	case "tesseract":
		engine = tesseract.New(config.OCRLanguages...)
	default:
		zlog.Fatal("Unsupported OCR_ENGINE", zap.String("engine", config.OCREngine))
	}

	if config.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		engine = ocr.NewCachedEngine(engine, rdb, config.OCRCacheTTL, zlog)
	}
	return engine
}

func buildNotifier(zlog *zap.Logger) notify.Notifier {
	var notifiers notify.Multi
	if config.SMTPHost != "" && len(config.NotifyEmails) > 0 {
		notifiers = append(notifiers, notify.NewMailer(config.SMTPHost, config.SMTPPort,
			config.SMTPUser, config.SMTPPassword, config.SMTPFrom, config.NotifyEmails))
	}
	if config.MQTTBroker != "" {
		m, _, err := notify.NewMQTT(config.MQTTBroker, config.MQTTClientID, config.MQTTUsername, config.MQTTPassword)
		if err != nil {
			zlog.Warn("MQTT disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, m)
		}
	}
	if config.TelegramToken != "" {
		t, err := notify.NewTelegram(config.TelegramToken, config.TelegramChatID)
		if err != nil {
			zlog.Warn("Telegram disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, t)
		}
	}
	if len(notifiers) == 0 {
		return notify.Nop{}
	}
	return notifiers
}
