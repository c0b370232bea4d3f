package handlers

// HandlerBundle groups the endpoint handlers registered by routes.
type HandlerBundle struct {
	Import *ImportHandler
	Diet   *DietHandler
}

// NewHandlerBundle builds the bundle from its handlers.
func NewHandlerBundle(imports *ImportHandler, diets *DietHandler) *HandlerBundle {
	return &HandlerBundle{Import: imports, Diet: diets}
}
