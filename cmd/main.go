package main

import (
	"context"
	"log"
	"os"

	"github.com/mdAli87/ISF-admin/config"
	"github.com/mdAli87/ISF-admin/routes"
	"github.com/mdAli87/ISF-admin/services"
	"github.com/mdAli87/ISF-admin/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	config.InitDB()
	utils.InitS3()
	utils.InitMailer()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	var sender services.MulticastSender
	if fcm := initMessaging(logger); fcm != nil {
		sender = fcm
	}

	hub := services.NewRealtimeHub()
	registry := services.NewDeviceRegistry(config.DB, logger)
	store := services.NewNotificationStore(config.DB)
	push := services.NewPushService(sender, registry, logger)
	provider := services.NewNotificationAPIClient()

	templateID := os.Getenv("NOTIFICATION_TEMPLATE_ID")
	if templateID == "" {
		templateID = "isf_admin"
	}

	dispatcher := services.NewDispatcher(store, registry, provider, push, hub, templateID, logger)
	training := services.NewTrainingService(config.DB, store, dispatcher, logger)

	services.InitAlertDeps(config.DB, hub)

	scheduler := services.NewDispatchScheduler(store, training, logger)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start dispatch scheduler: %v", err)
	}
	defer scheduler.Stop()

	r := routes.SetupRouter(routes.Deps{
		Registry:   registry,
		Store:      store,
		Provider:   provider,
		TemplateID: templateID,
		Training:   training,
		Trainers:   services.NewTrainerService(config.DB),
		Documents:  services.NewDocumentService(config.DB),
		Analytics:  services.NewAnalyticsService(config.DB),
		Hub:        hub,
	})
	r.Run(":8080")
}

// initMessaging builds the FCM client once at startup; push is optional, so a
// missing credential only disables it.
func initMessaging(logger *zap.SugaredLogger) *messaging.Client {
	credPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credPath == "" {
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, push delivery disabled")
		return nil
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credPath))
	if err != nil {
		logger.Warnw("failed to initialize Firebase app, push delivery disabled", "error", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Warnw("failed to get Messaging client, push delivery disabled", "error", err)
		return nil
	}
	return client
}
