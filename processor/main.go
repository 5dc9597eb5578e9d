package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"fleetops/config"
	"fleetops/controllers/idgen"
	"fleetops/database"
	"fleetops/logger"
	"fleetops/migration"
	"fleetops/notify"
	"fleetops/ocr"
	"fleetops/ocr/tesseract"
	"fleetops/services"

	"go.uber.org/zap"
)

func main() {
	processed := flag.String("processed", "", "move drafted files into this folder")
	flag.Parse()

	config.LoadConfig()

	zlog, err := logger.New(config.LogLevel, config.LogFormat, "fleetops-processor")
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

	var engine ocr.Engine = tesseract.New(config.OCRLanguages...)
	if config.OCREngine == "remote" {
		engine = ocr.NewRemoteEngine(config.OCRRemoteURL, config.OCRTimeout)
	}

	var notifier notify.Notifier = notify.Nop{}
	if config.SMTPHost != "" && len(config.NotifyEmails) > 0 {
		notifier = notify.NewMailer(config.SMTPHost, config.SMTPPort,
			config.SMTPUser, config.SMTPPassword, config.SMTPFrom, config.NotifyEmails)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := &services.InboxProcessor{
		DB:           db,
		Ocr:          services.NewOcrService(engine, config.OCRTimeout, zlog),
		Notifier:     notifier,
		Log:          zlog,
		ProcessedDir: *processed,
	}
	summary, err := p.Run(ctx, config.InboxDir)
	if err != nil {
		zlog.Fatal("Inbox run aborted", zap.Error(err))
	}
	zlog.Info("Inbox processed",
		zap.String("dir", config.InboxDir),
		zap.Int("drafted", len(summary.Drafted)),
		zap.Int("skipped", summary.Skipped),
		zap.Int("rejected", len(summary.Rejected)),
		zap.Int("failed", len(summary.Failed)),
	)
}
