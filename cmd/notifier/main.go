// Command notifier consumes item events and e-mails users whose saved items
// were resolved. Run with -test-recipient to send one test message and exit.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"campustrace-backend-go/internal/config"
	"campustrace-backend-go/internal/core"
	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/firebase"
	"campustrace-backend-go/internal/logger"
	"campustrace-backend-go/pkg/mailer"
	"campustrace-backend-go/pkg/messagequeue"
)

func main() {
	testRecipient := flag.String("test-recipient", "", "send a test e-mail to this address and exit")
	flag.Parse()

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}
	zapLogger, err := logger.New(appConfig.LogLevel, appConfig.IsRelease())
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	if !appConfig.MailEnabled() {
		zapLogger.Fatal("SMTP_HOST and SMTP_USER must be set to run the notifier")
	}
	smtpMailer, err := mailer.New(mailer.Config{
		Host: appConfig.SMTPHost,
		Port: appConfig.SMTPPort,
		User: appConfig.SMTPUser,
		Pass: appConfig.SMTPPass,
		From: appConfig.MailFrom,
	})
	if err != nil {
		zapLogger.Fatal("Failed to configure mailer", zap.Error(err))
	}

	if *testRecipient != "" {
		body := "<html><body><h1>CampusTrace</h1><p>SMTP settings are working.</p></body></html>"
		if err := smtpMailer.Send(*testRecipient, "CampusTrace test e-mail", body); err != nil {
			zapLogger.Fatal("Test e-mail failed", zap.String("recipient", *testRecipient), zap.Error(err))
		}
		zapLogger.Info("Test e-mail sent", zap.String("recipient", *testRecipient))
		return
	}

	if appConfig.RabbitMQURL == "" {
		zapLogger.Fatal("RABBITMQ_URL must be set to run the notifier")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancelInit := context.WithTimeout(ctx, 15*time.Second)
	defer cancelInit()
	clients, err := firebase.Init(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()

	queue, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queue.Close()

	notifier := core.NewResolvedNotifier(
		db.NewFirestoreSavedItemRepository(clients.Firestore),
		db.NewFirestoreUserRepository(clients.Firestore),
		smtpMailer,
		appConfig.ClientURL,
		zapLogger,
	)

	zapLogger.Info("Notifier started", zap.String("queue", appConfig.ItemEventsQueue))
	err = queue.Consume(ctx, appConfig.ItemEventsQueue, func(body []byte) error {
		handleCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return notifier.Handle(handleCtx, body)
	})
	if err != nil {
		zapLogger.Error("Consumer stopped", zap.Error(err))
		os.Exit(1)
	}
	zapLogger.Info("Notifier exiting gracefully.")
}
