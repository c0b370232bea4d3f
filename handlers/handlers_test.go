package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutrilog/models"
	"nutrilog/services/diet"
	"nutrilog/services/importer"
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
)

// fakeDietService implements the calls these tests make; the embedded
// interface panics on anything else.
type fakeDietService struct {
	diet.DietService
	owners  map[string]string
	deleted []string
}

func (f *fakeDietService) OwnerOf(_ context.Context, dietID string) (string, error) {
	owner, ok := f.owners[dietID]
	if !ok {
		return "", utils.NotFoundError{Resource: "diet", ID: dietID}
	}
	return owner, nil
}

func (f *fakeDietService) GetDiet(_ context.Context, dietID string) (*models.DietView, error) {
	return &models.DietView{Diet: models.Diet{ID: dietID, UserID: f.owners[dietID]}}, nil
}

func (f *fakeDietService) DeleteDiet(_ context.Context, dietID string, confirmed bool) (*diet.DeleteReport, error) {
	if !confirmed {
		return nil, utils.ConfirmationRequiredError{Action: "delete diet", Preview: diet.DeletePreview{DietID: dietID}}
	}
	f.deleted = append(f.deleted, dietID)
	return &diet.DeleteReport{DietID: dietID, Completed: []string{"shopping list"}}, nil
}

func (f *fakeDietService) UpdateMealTime(_ context.Context, dietID string, day, meal int, newTime string) (*models.Diet, error) {
	return &models.Diet{ID: dietID}, nil
}

type fakeImportService struct {
	importer.ImportService
	previewFor string
}

func (f *fakeImportService) Preview(_ context.Context, userID, fileName string, r io.Reader, template models.DietTemplate) (*models.ImportPreview, error) {
	f.previewFor = userID
	if template.MealsPerDay == 0 {
		return nil, utils.ValidationError{Field: "mealsPerDay", Message: "must be positive"}
	}
	return &models.ImportPreview{Draft: models.ImportDraft{ID: "draft-1", UserID: userID, FileName: fileName}}, nil
}

func newTestRouter(userID string, admin bool) (*gin.Engine, *fakeDietService, *fakeImportService) {
	gin.SetMode(gin.TestMode)
	diets := &fakeDietService{owners: map[string]string{"d1": "user-1"}}
	imports := &fakeImportService{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("isAdmin", admin)
		c.Next()
	})
	registerAPI(r.Group("/api"), NewHandlerBundle(NewImportHandler(imports, diets, 5), NewDietHandler(diets)))
	return r, diets, imports
}

// registerAPI mirrors the routes package without its auth middleware.
func registerAPI(api *gin.RouterGroup, hb *HandlerBundle) {
	api.POST("/imports/preview", hb.Import.PreviewHandler)
	api.GET("/diets/:dietID", hb.Diet.GetHandler)
	api.PATCH("/diets/:dietID/days/:day/meals/:meal/time", hb.Diet.UpdateMealTimeHandler)
	api.DELETE("/diets/:dietID", hb.Diet.DeleteHandler)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetHandler_Ownership(t *testing.T) {
	tests := []struct {
		name   string
		caller string
		admin  bool
		dietID string
		want   int
	}{
		{"owner", "user-1", false, "d1", http.StatusOK},
		{"other user", "user-2", false, "d1", http.StatusForbidden},
		{"admin", "dietitian", true, "d1", http.StatusOK},
		{"missing", "user-1", false, "nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRouter(tt.caller, tt.admin)
			w := serve(r, httptest.NewRequest(http.MethodGet, "/api/diets/"+tt.dietID, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestDeleteHandler(t *testing.T) {
	r, diets, _ := newTestRouter("user-1", false)

	w := serve(r, httptest.NewRequest(http.MethodDelete, "/api/diets/d1", nil))
	if w.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed delete status = %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["preview"] == nil {
		t.Error("expected a preview in the confirmation response")
	}

	w = serve(r, httptest.NewRequest(http.MethodDelete, "/api/diets/d1?confirm=true", nil))
	if w.Code != http.StatusOK || len(diets.deleted) != 1 {
		t.Errorf("confirmed delete status = %d, deleted %v", w.Code, diets.deleted)
	}

	// only admins may clean up after a diet record is gone
	w = serve(r, httptest.NewRequest(http.MethodDelete, "/api/diets/gone?confirm=true", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("user orphan cleanup status = %d", w.Code)
	}
	admin, adminDiets, _ := newTestRouter("dietitian", true)
	w = serve(admin, httptest.NewRequest(http.MethodDelete, "/api/diets/gone?confirm=true", nil))
	if w.Code != http.StatusOK || len(adminDiets.deleted) != 1 {
		t.Errorf("admin orphan cleanup status = %d, deleted %v", w.Code, adminDiets.deleted)
	}
}

func TestUpdateMealTimeHandler_BadIndex(t *testing.T) {
	r, _, _ := newTestRouter("user-1", false)
	req := httptest.NewRequest(http.MethodPatch, "/api/diets/d1/days/x/meals/0/time", bytes.NewBufferString(`{"time":"08:00"}`))
	req.Header.Set("Content-Type", "application/json")
	if w := serve(r, req); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func previewRequest(t *testing.T, template, userID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "dieta.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("workbook"))
	mw.WriteField("template", template)
	if userID != "" {
		mw.WriteField("userId", userID)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/imports/preview", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPreviewHandler(t *testing.T) {
	template := `{"mealsPerDay":1,"startDate":"2025-03-10","duration":2,"mealTimes":{"meal_0":"08:00"}}`

	r, _, imports := newTestRouter("user-1", false)
	if w := serve(r, previewRequest(t, template, "")); w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	if imports.previewFor != "user-1" {
		t.Errorf("preview for %q", imports.previewFor)
	}

	if w := serve(r, previewRequest(t, template, "user-9")); w.Code != http.StatusForbidden {
		t.Errorf("non-admin importing for another user: status = %d", w.Code)
	}
	if w := serve(r, previewRequest(t, "{not json", "")); w.Code != http.StatusBadRequest {
		t.Errorf("malformed template: status = %d", w.Code)
	}
	if w := serve(r, previewRequest(t, `{"mealsPerDay":0}`, "")); w.Code != http.StatusBadRequest {
		t.Errorf("rejected template: status = %d", w.Code)
	}

	admin, _, adminImports := newTestRouter("dietitian", true)
	if w := serve(admin, previewRequest(t, template, "user-9")); w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
	if adminImports.previewFor != "user-9" {
		t.Errorf("admin preview for %q", adminImports.previewFor)
	}
}
