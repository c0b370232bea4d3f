package handlers

import (
	"context"
	"net/http"

	"nutrilog/models"
	"nutrilog/services/diet"
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DietHandler serves persisted diets and their edits.
type DietHandler struct {
	Diets diet.DietService
}

func NewDietHandler(diets diet.DietService) *DietHandler {
	return &DietHandler{Diets: diets}
}

// ListHandler lists the caller's diets, or another user's for admins.
func (h *DietHandler) ListHandler(c *gin.Context) {
	userID, ok := targetUser(c, c.Query("userId"))
	if !ok {
		return
	}
	diets, err := h.Diets.ListDiets(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diets": diets})
}

func (h *DietHandler) GetHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	view, err := h.Diets.GetDiet(c.Request.Context(), dietID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SourceHandler returns a signed link to the imported workbook.
func (h *DietHandler) SourceHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	url, err := h.Diets.SourceURL(c.Request.Context(), dietID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *DietHandler) UpdateMealTimeHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	day, ok := intParam(c, "day")
	if !ok {
		return
	}
	meal, ok := intParam(c, "meal")
	if !ok {
		return
	}
	var input struct {
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "message": err.Error()})
		return
	}
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	updated, err := h.Diets.UpdateMealTime(c.Request.Context(), dietID, day, meal, input.Time)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DietHandler) ApplyTemplateHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	var input struct {
		Template models.DietTemplate `json:"template"`
		Confirm  bool                `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "message": err.Error()})
		return
	}
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	updated, err := h.Diets.ApplyTemplate(c.Request.Context(), dietID, input.Template, confirmed(c, input.Confirm))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DietHandler) ShiftStartDateHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	var input struct {
		StartDate string `json:"startDate" binding:"required"`
		Confirm   bool   `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "message": err.Error()})
		return
	}
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	updated, err := h.Diets.ShiftStartDate(c.Request.Context(), dietID, input.StartDate, confirmed(c, input.Confirm))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DietHandler) EditShoppingItemHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var input struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "message": err.Error()})
		return
	}
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	list, err := h.Diets.EditShoppingItem(c.Request.Context(), dietID, index, input.Value)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *DietHandler) DeleteShoppingItemHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	list, err := h.Diets.DeleteShoppingItem(c.Request.Context(), dietID, index, confirmed(c, false))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *DietHandler) UndoHandler(c *gin.Context) {
	h.travel(c, h.Diets.Undo)
}

func (h *DietHandler) RedoHandler(c *gin.Context) {
	h.travel(c, h.Diets.Redo)
}

func (h *DietHandler) travel(c *gin.Context, move func(ctx context.Context, dietID string) (*models.Diet, error)) {
	dietID := c.Param("dietID")
	if !authorizeDiet(c, h.Diets, dietID) {
		return
	}
	updated, err := move(c.Request.Context(), dietID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteHandler removes a diet with its shopping list and recipes. Without
// confirmation it answers 428 with a preview. Admins may repeat a confirmed
// delete after a partial failure to clear what was left behind.
func (h *DietHandler) DeleteHandler(c *gin.Context) {
	dietID := c.Param("dietID")
	owner, err := h.Diets.OwnerOf(c.Request.Context(), dietID)
	switch {
	case utils.IsNotFound(err) && isAdmin(c) && confirmed(c, false):
	case err != nil:
		utils.RespondError(c, err)
		return
	case owner != callerID(c) && !isAdmin(c):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "diet belongs to another user"})
		return
	}
	report, err := h.Diets.DeleteDiet(c.Request.Context(), dietID, confirmed(c, false))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("diet deleted", zap.String("dietId", dietID))
	c.JSON(http.StatusOK, report)
}
