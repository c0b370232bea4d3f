package diet

import (
	"context"
	"encoding/json"
	"time"

	dietRepo "nutrilog/database/repository/diet"
	"nutrilog/models"
	"nutrilog/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

type memDietRepo struct {
	diets     map[string]models.Diet
	deleteErr error
}

func (r *memDietRepo) Create(_ context.Context, d models.Diet) error {
	d.Days = models.CloneDays(d.Days)
	r.diets[d.ID] = d
	return nil
}

func (r *memDietRepo) GetByID(_ context.Context, id string) (*models.Diet, error) {
	d, ok := r.diets[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	d.Days = models.CloneDays(d.Days)
	return &d, nil
}

func (r *memDietRepo) ListByUser(_ context.Context, userID string) ([]models.Diet, error) {
	out := []models.Diet{}
	for _, d := range r.diets {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDietRepo) Replace(_ context.Context, d models.Diet) error {
	stored, ok := r.diets[d.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if stored.Revision != d.Revision-1 {
		return dietRepo.ErrRevisionConflict
	}
	d.Days = models.CloneDays(d.Days)
	r.diets[d.ID] = d
	return nil
}

func (r *memDietRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.diets[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.diets, id)
	return nil
}

type memShoppingListRepo struct {
	lists      map[string]models.ShoppingList // by diet id
	createErr  error
	datesErr   error
	deleteErr  error
	itemWrites int
}

func (r *memShoppingListRepo) Create(_ context.Context, l models.ShoppingList) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.lists[l.DietID] = l
	return nil
}

func (r *memShoppingListRepo) GetByDietID(_ context.Context, dietID string) (*models.ShoppingList, error) {
	l, ok := r.lists[dietID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &l, nil
}

func (r *memShoppingListRepo) UpdateDates(_ context.Context, dietID string, start, end time.Time) error {
	if r.datesErr != nil {
		return r.datesErr
	}
	l, ok := r.lists[dietID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	l.StartDate, l.EndDate = start, end
	r.lists[dietID] = l
	return nil
}

func (r *memShoppingListRepo) UpdateItems(_ context.Context, dietID string, items models.ShoppingItems) error {
	l, ok := r.lists[dietID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	r.itemWrites++
	l.Items = items
	l.Version = items.Version()
	r.lists[dietID] = l
	return nil
}

func (r *memShoppingListRepo) DeleteByDietID(_ context.Context, dietID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.lists[dietID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.lists, dietID)
	return nil
}

type memRecipeRepo struct {
	recipes map[string]models.Recipe
}

func (r *memRecipeRepo) CreateMany(_ context.Context, recipes []models.Recipe) error {
	for _, rec := range recipes {
		r.recipes[rec.ID] = rec
	}
	return nil
}

func (r *memRecipeRepo) GetByIDs(_ context.Context, ids []string) ([]models.Recipe, error) {
	out := []models.Recipe{}
	for _, id := range ids {
		if rec, ok := r.recipes[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRecipeRepo) DeleteByDietID(_ context.Context, dietID string) (int64, error) {
	var n int64
	for id, rec := range r.recipes {
		if rec.DietID == dietID {
			delete(r.recipes, id)
			n++
		}
	}
	return n, nil
}

// memHistoryStore round-trips through JSON like the redis store does.
type memHistoryStore struct {
	data map[string][]byte
}

func (s *memHistoryStore) Load(_ context.Context, dietID string) (*EditHistory, error) {
	raw, ok := s.data[dietID]
	if !ok {
		return nil, nil
	}
	var h EditHistory
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *memHistoryStore) Save(_ context.Context, dietID string, h *EditHistory) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return err
	}
	s.data[dietID] = raw
	return nil
}

func (s *memHistoryStore) Delete(_ context.Context, dietID string) error {
	delete(s.data, dietID)
	return nil
}

type memDraftStore struct {
	drafts map[string]models.ImportDraft
}

func (s *memDraftStore) Save(_ context.Context, d *models.ImportDraft) error {
	s.drafts[d.ID] = *d
	return nil
}

func (s *memDraftStore) Get(_ context.Context, userID, id string) (*models.ImportDraft, error) {
	d, ok := s.drafts[id]
	if !ok || d.UserID != userID {
		return nil, utils.NotFoundError{Resource: "draft", ID: id}
	}
	return &d, nil
}

func (s *memDraftStore) Delete(_ context.Context, id string) error {
	delete(s.drafts, id)
	return nil
}

func (s *memDraftStore) TTL() time.Duration { return 30 * time.Minute }

type recordingEnqueuer struct {
	payloads []models.DietAssignedPayload
}

func (e *recordingEnqueuer) EnqueueDietAssigned(_ context.Context, p models.DietAssignedPayload) error {
	e.payloads = append(e.payloads, p)
	return nil
}

type fixture struct {
	svc      *DefaultDietService
	diets    *memDietRepo
	lists    *memShoppingListRepo
	recipes  *memRecipeRepo
	history  *memHistoryStore
	drafts   *memDraftStore
	notifier *recordingEnqueuer
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		diets:    &memDietRepo{diets: map[string]models.Diet{}},
		lists:    &memShoppingListRepo{lists: map[string]models.ShoppingList{}},
		recipes:  &memRecipeRepo{recipes: map[string]models.Recipe{}},
		history:  &memHistoryStore{data: map[string][]byte{}},
		drafts:   &memDraftStore{drafts: map[string]models.ImportDraft{}},
		notifier: &recordingEnqueuer{},
	}
	f.svc = &DefaultDietService{
		Diets:         f.diets,
		ShoppingLists: f.lists,
		Recipes:       f.recipes,
		Drafts:        f.drafts,
		History:       f.history,
		Notifier:      f.notifier,
		Now:           func() time.Time { return fixedNow },
	}
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedDiet stores a diet of n days with two meals each and, when withList is
// set, a v2 shopping list spanning it.
func (f *fixture) seedDiet(id string, n int, withList bool, items ...string) models.Diet {
	start := date(2025, 3, 10)
	d := models.Diet{ID: id, UserID: "user-1", CreatedAt: fixedNow, UpdatedAt: fixedNow}
	for i := 0; i < n; i++ {
		d.Days = append(d.Days, models.DietDay{
			Date: start.AddDate(0, 0, i),
			Meals: []models.DayMeal{
				{RecipeID: "r-breakfast", MealType: models.MealTypeBreakfast, Time: "08:00"},
				{RecipeID: "r-dinner", MealType: models.MealTypeDinner, Time: "19:00"},
			},
		})
	}
	d.Metadata = models.DietMetadata{TotalDays: n, FileName: "dieta.xlsx"}
	f.diets.diets[id] = d
	f.recipes.recipes["r-breakfast"] = models.Recipe{ID: "r-breakfast", DietID: id, Name: "Owsianka"}
	f.recipes.recipes["r-dinner"] = models.Recipe{ID: "r-dinner", DietID: id, Name: "Kurczak z ryżem"}
	if withList {
		f.lists.lists[id] = models.ShoppingList{
			ID:        "list-" + id,
			DietID:    id,
			UserID:    d.UserID,
			StartDate: d.FirstDate(),
			EndDate:   d.LastDate(),
			Version:   models.ShoppingListV2,
			Items:     models.ShoppingItemsV2(items),
		}
	}
	return d
}
