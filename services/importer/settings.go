package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	settingsRepo "nutrilog/database/repository/settings"
	"nutrilog/models"
	"nutrilog/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const settingsCachePrefix = "parser:settings:"

// SettingsStore reads parser settings through a redis cache. A nil cache
// client disables caching.
type SettingsStore struct {
	Repo        settingsRepo.SettingsRepository
	Cache       *redis.Client
	CacheTTL    time.Duration
	DefaultSkip int
	MaxSkip     int
}

// Get returns the user's settings, or the defaults if none were saved.
func (s *SettingsStore) Get(ctx context.Context, userID string) (*models.ParserSettings, error) {
	if cached := s.fromCache(ctx, userID); cached != nil {
		return cached, nil
	}

	settings, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		settings = &models.ParserSettings{UserID: userID, SkipRowsCount: s.DefaultSkip}
	} else if err != nil {
		return nil, fmt.Errorf("load parser settings: %w", err)
	}
	settings.MaxSkipRowsCount = s.MaxSkip
	s.toCache(ctx, settings)
	return settings, nil
}

// UpdateSkipRows validates and stores a new header row count.
func (s *SettingsStore) UpdateSkipRows(ctx context.Context, userID string, skipRows int) (*models.ParserSettings, error) {
	if skipRows < 0 || skipRows > s.MaxSkip {
		return nil, utils.ValidationError{
			Field:   "skipRowsCount",
			Message: fmt.Sprintf("must be between 0 and %d", s.MaxSkip),
		}
	}
	settings := models.ParserSettings{
		UserID:           userID,
		SkipRowsCount:    skipRows,
		MaxSkipRowsCount: s.MaxSkip,
		UpdatedAt:        time.Now().UTC(),
	}
	if err := s.Repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	s.toCache(ctx, &settings)
	return &settings, nil
}

func (s *SettingsStore) fromCache(ctx context.Context, userID string) *models.ParserSettings {
	if s.Cache == nil {
		return nil
	}
	data, err := s.Cache.Get(ctx, settingsCachePrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("parser settings cache read failed", zap.String("userId", userID), zap.Error(err))
		}
		return nil
	}
	var settings models.ParserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil
	}
	return &settings
}

func (s *SettingsStore) toCache(ctx context.Context, settings *models.ParserSettings) {
	if s.Cache == nil {
		return
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, settingsCachePrefix+settings.UserID, b, s.CacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("parser settings cache write failed", zap.String("userId", settings.UserID), zap.Error(err))
	}
}
