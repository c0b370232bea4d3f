package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nutrilog/models"
	"nutrilog/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

type memorySettingsRepo struct {
	byUser map[string]models.ParserSettings
}

func (r *memorySettingsRepo) Get(_ context.Context, userID string) (*models.ParserSettings, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (r *memorySettingsRepo) Upsert(_ context.Context, s models.ParserSettings) error {
	r.byUser[s.UserID] = s
	return nil
}

type memoryDraftStore struct {
	drafts map[string]models.ImportDraft
}

func (s *memoryDraftStore) Save(_ context.Context, d *models.ImportDraft) error {
	s.drafts[d.ID] = *d
	return nil
}

func (s *memoryDraftStore) Get(_ context.Context, userID, id string) (*models.ImportDraft, error) {
	d, ok := s.drafts[id]
	if !ok || d.UserID != userID {
		return nil, utils.NotFoundError{Resource: "draft", ID: id}
	}
	return &d, nil
}

func (s *memoryDraftStore) Delete(_ context.Context, id string) error {
	delete(s.drafts, id)
	return nil
}

func (s *memoryDraftStore) TTL() time.Duration { return 30 * time.Minute }

func newTestImportService() (*DefaultImportService, *memoryDraftStore) {
	drafts := &memoryDraftStore{drafts: map[string]models.ImportDraft{}}
	return &DefaultImportService{
		Drafts: drafts,
		Settings: &SettingsStore{
			Repo:        &memorySettingsRepo{byUser: map[string]models.ParserSettings{}},
			DefaultSkip: 1,
			MaxSkip:     3,
		},
	}, drafts
}

func TestPreview_StoresDraft(t *testing.T) {
	svc, drafts := newTestImportService()
	ctx := context.Background()

	preview, err := svc.Preview(ctx, "user-1", "dieta.xlsx", bytesReader(sampleWorkbook(t)), twoMealTemplate(7))
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.TotalMeals != 14 {
		t.Errorf("expected 14 scheduled meals, got %d", preview.TotalMeals)
	}
	if preview.Skipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", preview.Skipped)
	}
	if len(preview.Draft.Meals) != 3 {
		t.Errorf("expected a pool of 3 meals, got %d", len(preview.Draft.Meals))
	}

	stored, err := svc.GetDraft(ctx, "user-1", preview.Draft.ID)
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if len(stored.Days) != 7 {
		t.Errorf("expected 7 stored days, got %d", len(stored.Days))
	}
	if _, err := svc.GetDraft(ctx, "user-2", preview.Draft.ID); !utils.IsNotFound(err) {
		t.Errorf("expected drafts to be private to their owner, got %v", err)
	}

	if err := svc.DiscardDraft(ctx, "user-1", preview.Draft.ID); err != nil {
		t.Fatalf("DiscardDraft() error = %v", err)
	}
	if len(drafts.drafts) != 0 {
		t.Errorf("expected draft removed, %d left", len(drafts.drafts))
	}
}

func TestPreview_RejectsBadInput(t *testing.T) {
	svc, drafts := newTestImportService()
	ctx := context.Background()

	_, err := svc.Preview(ctx, "user-1", "dieta.csv", strings.NewReader("a,b"), twoMealTemplate(1))
	var vErr utils.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError for csv upload, got %v", err)
	}

	_, err = svc.Preview(ctx, "user-1", "dieta.xlsx", strings.NewReader("garbage"), twoMealTemplate(1))
	var pErr utils.ParseError
	if !errors.As(err, &pErr) {
		t.Errorf("expected ParseError for corrupt workbook, got %v", err)
	}

	if len(drafts.drafts) != 0 {
		t.Errorf("no draft may be stored after a failure, got %d", len(drafts.drafts))
	}
}

func TestSettings_UpdateSkipRows(t *testing.T) {
	svc, _ := newTestImportService()
	ctx := context.Background()

	s, err := svc.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if s.SkipRowsCount != 1 || s.MaxSkipRowsCount != 3 {
		t.Errorf("unexpected defaults %+v", s)
	}

	if _, err := svc.UpdateSkipRows(ctx, "user-1", 4); err == nil {
		t.Error("expected skip rows above the maximum to be rejected")
	}
	if _, err := svc.UpdateSkipRows(ctx, "user-1", 2); err != nil {
		t.Fatalf("UpdateSkipRows() error = %v", err)
	}
	s, _ = svc.GetSettings(ctx, "user-1")
	if s.SkipRowsCount != 2 {
		t.Errorf("expected stored skip rows 2, got %d", s.SkipRowsCount)
	}
}
