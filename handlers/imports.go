package handlers

import (
	"encoding/json"
	"net/http"

	"nutrilog/models"
	"nutrilog/services/diet"
	"nutrilog/services/importer"
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportHandler serves workbook previews, draft confirmation and parser settings.
type ImportHandler struct {
	Imports        importer.ImportService
	Diets          diet.DietService
	MaxUploadBytes int64
}

func NewImportHandler(imports importer.ImportService, diets diet.DietService, maxUploadMB int) *ImportHandler {
	return &ImportHandler{Imports: imports, Diets: diets, MaxUploadBytes: int64(maxUploadMB) << 20}
}

// PreviewHandler parses an uploaded workbook against a template and stores
// the result as a draft. Admins may pass userId to import for a client.
func (h *ImportHandler) PreviewHandler(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	userID, ok := targetUser(c, c.PostForm("userId"))
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "message": err.Error()})
		return
	}
	var template models.DietTemplate
	if err := json.Unmarshal([]byte(c.PostForm("template")), &template); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template", "message": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file", "message": err.Error()})
		return
	}
	defer file.Close()

	preview, err := h.Imports.Preview(c.Request.Context(), userID, fileHeader.Filename, file, template)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// GetDraftHandler returns a pending draft.
func (h *ImportHandler) GetDraftHandler(c *gin.Context) {
	userID, ok := targetUser(c, c.Query("userId"))
	if !ok {
		return
	}
	draft, err := h.Imports.GetDraft(c.Request.Context(), userID, c.Param("draftID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ConfirmHandler persists a draft as a diet.
func (h *ImportHandler) ConfirmHandler(c *gin.Context) {
	var input struct {
		UserID string `json:"userId"`
	}
	// the body is optional
	_ = c.ShouldBindJSON(&input)
	userID, ok := targetUser(c, input.UserID)
	if !ok {
		return
	}

	saved, err := h.Diets.SaveDraft(c.Request.Context(), userID, c.Param("draftID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("draft confirmed", zap.String("dietId", saved.ID), zap.String("owner", userID))
	c.JSON(http.StatusCreated, saved)
}

// DiscardHandler drops a pending draft.
func (h *ImportHandler) DiscardHandler(c *gin.Context) {
	userID, ok := targetUser(c, c.Query("userId"))
	if !ok {
		return
	}
	if err := h.Imports.DiscardDraft(c.Request.Context(), userID, c.Param("draftID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImportHandler) GetSettingsHandler(c *gin.Context) {
	settings, err := h.Imports.GetSettings(c.Request.Context(), callerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *ImportHandler) UpdateSettingsHandler(c *gin.Context) {
	var input struct {
		SkipRowsCount *int `json:"skipRowsCount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "message": err.Error()})
		return
	}
	settings, err := h.Imports.UpdateSkipRows(c.Request.Context(), callerID(c), *input.SkipRowsCount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
