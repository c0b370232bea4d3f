// utils/firebase.go
package utils

import (
	"context"
	"log"

	"nutrilog/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirebaseApp *firebase.App
	FCMClient   *messaging.Client
	AuthClient  *auth.Client
)

// FirebaseOption returns the client option carrying the service account key.
func FirebaseOption() option.ClientOption {
	return option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsPath)
}

// FirebaseInit initializes the Firebase App with its Auth and Messaging clients.
func FirebaseInit() {
	ctx := context.Background()
	conf := &firebase.Config{StorageBucket: config.AppConfig.FirebaseBucketName}

	app, err := firebase.NewApp(ctx, conf, FirebaseOption())
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Auth client: %v", err)
	}

	FirebaseApp = app
	FCMClient = client
	AuthClient = authClient
}
