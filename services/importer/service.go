package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"nutrilog/models"
	"nutrilog/services/storage"
	"nutrilog/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportService turns uploaded workbooks into drafts awaiting confirmation.
type ImportService interface {
	Preview(ctx context.Context, userID, fileName string, r io.Reader, template models.DietTemplate) (*models.ImportPreview, error)
	GetDraft(ctx context.Context, userID, draftID string) (*models.ImportDraft, error)
	DiscardDraft(ctx context.Context, userID, draftID string) error
	GetSettings(ctx context.Context, userID string) (*models.ParserSettings, error)
	UpdateSkipRows(ctx context.Context, userID string, skipRows int) (*models.ParserSettings, error)
}

var allowedExtensions = map[string]bool{".xlsx": true, ".xlsm": true}

type DefaultImportService struct {
	Drafts   DraftStore
	Settings *SettingsStore
	// Storage keeps a copy of the source workbook; nil skips the upload.
	Storage storage.StorageService
}

func (s *DefaultImportService) Preview(ctx context.Context, userID, fileName string, r io.Reader, template models.DietTemplate) (*models.ImportPreview, error) {
	logger := utils.GetLogger()

	if !allowedExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return nil, utils.ValidationError{Field: "file", Message: "only .xlsx workbooks are supported"}
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, utils.ParseError{Message: "parse failed", Err: err}
	}

	settings, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	extracted, err := NewExtractor(settings.SkipRowsCount).Extract(ctx, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	projection, err := Project(extracted, template)
	if err != nil {
		return nil, err
	}

	var fileURL string
	if s.Storage != nil {
		objectPath, err := s.Storage.Upload(ctx, storage.DietSourcePath(userID, fileName), bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("upload source workbook: %w", err)
		}
		fileURL = s.Storage.GetDownloadURL(objectPath)
	}

	now := time.Now().UTC()
	draft := &models.ImportDraft{
		ID:            uuid.New().String(),
		UserID:        userID,
		FileName:      filepath.Base(fileName),
		FileURL:       fileURL,
		Meals:         extracted.Meals,
		ShoppingItems: projection.ShoppingList,
		Template:      projection.Template,
		Days:          projection.Days,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.Drafts.TTL()),
	}
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}

	logger.Info("import draft created",
		zap.String("userId", userID),
		zap.String("draftId", draft.ID),
		zap.Int("meals", extracted.TotalMeals),
		zap.Int("days", len(draft.Days)))

	return &models.ImportPreview{
		Draft:      *draft,
		TotalMeals: draft.TotalMeals(),
		Skipped:    extracted.SkippedRows,
	}, nil
}

func (s *DefaultImportService) GetDraft(ctx context.Context, userID, draftID string) (*models.ImportDraft, error) {
	return s.Drafts.Get(ctx, userID, draftID)
}

func (s *DefaultImportService) DiscardDraft(ctx context.Context, userID, draftID string) error {
	if _, err := s.Drafts.Get(ctx, userID, draftID); err != nil {
		return err
	}
	return s.Drafts.Delete(ctx, draftID)
}

func (s *DefaultImportService) GetSettings(ctx context.Context, userID string) (*models.ParserSettings, error) {
	return s.Settings.Get(ctx, userID)
}

func (s *DefaultImportService) UpdateSkipRows(ctx context.Context, userID string, skipRows int) (*models.ParserSettings, error) {
	return s.Settings.UpdateSkipRows(ctx, userID, skipRows)
}
