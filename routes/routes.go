package routes

import (
	"time"

	"nutrilog/handlers"
	"nutrilog/middleware"
	"nutrilog/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterImportRoutes registers the workbook import endpoints.
func RegisterImportRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	imports := api.Group("/imports")
	{
		imports.POST("/preview", hb.Import.PreviewHandler)
		imports.GET("/settings", hb.Import.GetSettingsHandler)
		imports.PUT("/settings", hb.Import.UpdateSettingsHandler)
		imports.GET("/:draftID", hb.Import.GetDraftHandler)
		imports.POST("/:draftID/confirm", hb.Import.ConfirmHandler)
		imports.DELETE("/:draftID", hb.Import.DiscardHandler)
	}
}

// RegisterDietRoutes registers diet viewing and editing endpoints.
func RegisterDietRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	diets := api.Group("/diets")
	{
		diets.GET("", hb.Diet.ListHandler)
		diets.GET("/:dietID", hb.Diet.GetHandler)
		diets.GET("/:dietID/source", hb.Diet.SourceHandler)
		diets.DELETE("/:dietID", hb.Diet.DeleteHandler)

		diets.PATCH("/:dietID/days/:day/meals/:meal/time", hb.Diet.UpdateMealTimeHandler)
		diets.PUT("/:dietID/template", hb.Diet.ApplyTemplateHandler)
		diets.PUT("/:dietID/start-date", hb.Diet.ShiftStartDateHandler)
		diets.POST("/:dietID/undo", hb.Diet.UndoHandler)
		diets.POST("/:dietID/redo", hb.Diet.RedoHandler)

		diets.PATCH("/:dietID/shopping-list/items/:index", hb.Diet.EditShoppingItemHandler)
		diets.DELETE("/:dietID/shopping-list/items/:index", hb.Diet.DeleteShoppingItemHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// Every /api route requires a Firebase ID token.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, verifier middleware.TokenVerifier) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", utils.HealthHandler)

	api := r.Group("/api")
	api.Use(middleware.FirebaseAuthMiddleware(verifier), middleware.RateLimitMiddleware())
	RegisterImportRoutes(api, hb)
	RegisterDietRoutes(api, hb)
}
