package diet

import (
	"context"
	"encoding/json"
	"time"

	"nutrilog/models"

	"github.com/go-redis/redis/v8"
)

// maxSnapshots bounds the arena; the oldest snapshots are dropped first.
const maxSnapshots = 50

// Snapshot is an immutable copy of a diet's schedule after one edit.
type Snapshot struct {
	Label string           `json:"label"`
	Days  []models.DietDay `json:"days"`
	At    time.Time        `json:"at"`
}

// EditHistory is an arena of snapshots with a cursor at the current state.
// Snapshots after the cursor are redo candidates.
type EditHistory struct {
	Snapshots []Snapshot `json:"snapshots"`
	Cursor    int        `json:"cursor"`
}

// NewEditHistory starts a history whose only state is the given schedule.
func NewEditHistory(label string, days []models.DietDay, at time.Time) *EditHistory {
	return &EditHistory{Snapshots: []Snapshot{{Label: label, Days: days, At: at}}}
}

// Push records a new current state and discards any redo tail.
func (h *EditHistory) Push(label string, days []models.DietDay, at time.Time) {
	h.Snapshots = append(h.Snapshots[:h.Cursor+1:h.Cursor+1], Snapshot{Label: label, Days: days, At: at})
	if over := len(h.Snapshots) - maxSnapshots; over > 0 {
		h.Snapshots = h.Snapshots[over:]
	}
	h.Cursor = len(h.Snapshots) - 1
}

func (h *EditHistory) CanUndo() bool { return h.Cursor > 0 }
func (h *EditHistory) CanRedo() bool { return h.Cursor < len(h.Snapshots)-1 }

// Undo moves the cursor back and returns the state it now points at.
func (h *EditHistory) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.Cursor--
	return h.Snapshots[h.Cursor], true
}

// Redo moves the cursor forward and returns the state it now points at.
func (h *EditHistory) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.Cursor++
	return h.Snapshots[h.Cursor], true
}

// Current returns the snapshot under the cursor.
func (h *EditHistory) Current() Snapshot {
	return h.Snapshots[h.Cursor]
}

// HistoryStore persists edit histories per diet.
type HistoryStore interface {
	// Load returns nil, nil when the diet has no (unexpired) history.
	Load(ctx context.Context, dietID string) (*EditHistory, error)
	Save(ctx context.Context, dietID string, h *EditHistory) error
	Delete(ctx context.Context, dietID string) error
}

const historyPrefix = "diet:history:"

type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistoryStore(client *redis.Client, ttl time.Duration) *RedisHistoryStore {
	return &RedisHistoryStore{client: client, ttl: ttl}
}

func (s *RedisHistoryStore) Load(ctx context.Context, dietID string) (*EditHistory, error) {
	data, err := s.client.Get(ctx, historyPrefix+dietID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var h EditHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	if len(h.Snapshots) == 0 || h.Cursor < 0 || h.Cursor >= len(h.Snapshots) {
		return nil, nil
	}
	return &h, nil
}

func (s *RedisHistoryStore) Save(ctx context.Context, dietID string, h *EditHistory) error {
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, historyPrefix+dietID, b, s.ttl).Err()
}

func (s *RedisHistoryStore) Delete(ctx context.Context, dietID string) error {
	return s.client.Del(ctx, historyPrefix+dietID).Err()
}
