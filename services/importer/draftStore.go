package importer

import (
	"context"
	"encoding/json"
	"time"

	"nutrilog/models"
	"nutrilog/utils"

	"github.com/go-redis/redis/v8"
)

const draftPrefix = "import:draft:"

// DraftStore keeps unconfirmed imports until they are saved or expire.
type DraftStore interface {
	Save(ctx context.Context, draft *models.ImportDraft) error
	// Get returns a utils.NotFoundError for unknown, expired or foreign drafts.
	Get(ctx context.Context, userID, draftID string) (*models.ImportDraft, error)
	Delete(ctx context.Context, draftID string) error
	TTL() time.Duration
}

type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func (s *RedisDraftStore) TTL() time.Duration { return s.ttl }

func (s *RedisDraftStore) Save(ctx context.Context, draft *models.ImportDraft) error {
	b, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftPrefix+draft.ID, b, s.ttl).Err()
}

func (s *RedisDraftStore) Get(ctx context.Context, userID, draftID string) (*models.ImportDraft, error) {
	data, err := s.client.Get(ctx, draftPrefix+draftID).Bytes()
	if err == redis.Nil {
		return nil, utils.NotFoundError{Resource: "draft", ID: draftID}
	}
	if err != nil {
		return nil, err
	}
	var draft models.ImportDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, utils.NotFoundError{Resource: "draft", ID: draftID}
	}
	return &draft, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, draftID string) error {
	return s.client.Del(ctx, draftPrefix+draftID).Err()
}
