package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"campustrace-backend-go/internal/config"
)

// Clients bundles the Firebase Admin SDK handles the server uses.
// Auth is nil when the identity provider could not be initialised; the API
// then answers authenticated routes with 503 instead of refusing to start.
type Clients struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}

// credentialsOption picks the credential source: a file path, a base64 encoded
// service account JSON, or nil to fall back to Application Default Credentials.
func credentialsOption(cfg *config.Config, log *zap.Logger) (option.ClientOption, error) {
	switch {
	case cfg.GoogleApplicationCredentials != "":
		if _, err := os.Stat(cfg.GoogleApplicationCredentials); os.IsNotExist(err) {
			log.Warn("Credentials file does not exist, SDK may still find ADC",
				zap.String("path", cfg.GoogleApplicationCredentials))
		}
		log.Info("Initializing Firebase with credentials file", zap.String("path", cfg.GoogleApplicationCredentials))
		return option.WithCredentialsFile(cfg.GoogleApplicationCredentials), nil
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		log.Info("Initializing Firebase with base64 encoded service account JSON")
		return option.WithCredentialsJSON(decoded), nil
	default:
		log.Info("Initializing Firebase using Application Default Credentials (ADC)")
		return nil, nil
	}
}

// Init initializes the Firebase app, the Firestore client and the Auth client.
// A Firestore failure is fatal for the caller; an Auth failure only disables
// authenticated features.
func Init(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Clients, error) {
	if cfg == nil {
		return nil, errors.New("firebase.Init: config cannot be nil")
	}

	credsOption, err := credentialsOption(cfg, log)
	if err != nil {
		return nil, err
	}

	appConfig := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	var opts []option.ClientOption
	if credsOption != nil {
		opts = append(opts, credsOption)
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	clients := &Clients{App: app, Firestore: fsClient}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Warn("Firebase Auth unavailable; authenticated routes will answer 503", zap.Error(err))
		return clients, nil
	}
	clients.Auth = authClient
	return clients, nil
}
