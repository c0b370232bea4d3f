package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"nutrilog/config"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// StorageService stores uploaded source workbooks.
type StorageService interface {
	// Upload writes r to objectPath and returns the object path.
	Upload(ctx context.Context, objectPath string, r io.Reader) (string, error)
	GetDownloadURL(objectPath string) string
	GetSecureDownloadURL(objectPath string, expires time.Duration) (string, error)
}

// DietSourcePath is the object path of a user's uploaded diet workbook.
func DietSourcePath(userID, fileName string) string {
	return path.Join("diets", userID, filepath.Base(fileName))
}

// FirebaseStorageService implements StorageService using Firebase Storage.
type FirebaseStorageService struct {
	client         *storage.Client
	bucketName     string
	serviceAccount *config.ServiceAccount
}

// NewFirebaseStorageService creates a new FirebaseStorageService.
func NewFirebaseStorageService(serviceAccountJSONPath, bucketName string) (*FirebaseStorageService, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountJSONPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Load service account for signing URLs
	sa, err := loadServiceAccount(serviceAccountJSONPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load service account for signing URLs: %w", err)
	}

	return &FirebaseStorageService{
		client:         client,
		bucketName:     bucketName,
		serviceAccount: sa,
	}, nil
}

func loadServiceAccount(p string) (*config.ServiceAccount, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var sa config.ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, err
	}
	return &sa, nil
}

func (s *FirebaseStorageService) Upload(ctx context.Context, objectPath string, r io.Reader) (string, error) {
	obj := s.client.Bucket(s.bucketName).Object(objectPath)
	w := obj.NewWriter(ctx)

	if ext := filepath.Ext(objectPath); ext != "" {
		w.ObjectAttrs.ContentType = mime.TypeByExtension(ext)
	}
	if w.ObjectAttrs.ContentType == "" {
		w.ObjectAttrs.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return objectPath, nil
}

// GetDownloadURL returns the Firebase download URL of an object. Access is
// governed by the bucket's security rules.
func (s *FirebaseStorageService) GetDownloadURL(objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", s.bucketName, url.QueryEscape(objectPath))
}

// GetSecureDownloadURL returns a signed URL valid for the specified duration.
func (s *FirebaseStorageService) GetSecureDownloadURL(objectPath string, expires time.Duration) (string, error) {
	signed, err := storage.SignedURL(s.bucketName, objectPath, &storage.SignedURLOptions{
		GoogleAccessID: s.serviceAccount.ClientEmail,
		PrivateKey:     []byte(strings.ReplaceAll(s.serviceAccount.PrivateKey, `\n`, "\n")),
		Method:         "GET",
		Expires:        time.Now().Add(expires),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return signed, nil
}

func (s *FirebaseStorageService) Close() error {
	return s.client.Close()
}
