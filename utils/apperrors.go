package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ParseError means an uploaded spreadsheet could not be read or held no usable rows.
type ParseError struct {
	Message string
	Err     error
}

func (e ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Message, e.Err)
	}
	return "parse: " + e.Message
}

func (e ParseError) Unwrap() error { return e.Err }

// ValidationError reports a rejected input before any state was changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a write rejected because the document changed
// since it was read.
type ConflictError struct {
	Resource string
	ID       string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified by another request", e.Resource, e.ID)
}

// CascadeFailure is returned when a multi-document write stopped part way.
// Completed lists the steps that were applied, Failed those that were not.
type CascadeFailure struct {
	Operation string
	Completed []string
	Failed    []string
	Err       error
}

func (e CascadeFailure) Error() string {
	return fmt.Sprintf("%s partially applied (done: %s; failed: %s): %v",
		e.Operation, strings.Join(e.Completed, ", "), strings.Join(e.Failed, ", "), e.Err)
}

func (e CascadeFailure) Unwrap() []error { return multierr.Errors(e.Err) }

// ConfirmationRequiredError is returned by destructive operations called
// without confirmation. Preview describes what would change.
type ConfirmationRequiredError struct {
	Action  string
	Preview any
}

func (e ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s requires confirmation", e.Action)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// RespondError maps a service error onto an HTTP response.
func RespondError(c *gin.Context, err error) {
	var (
		parseErr   ParseError
		validErr   ValidationError
		notFound   NotFoundError
		conflict   ConflictError
		cascade    CascadeFailure
		confirmErr ConfirmationRequiredError
	)
	switch {
	case errors.As(err, &confirmErr):
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"error":   "confirmation_required",
			"message": err.Error(),
			"preview": confirmErr.Preview,
		})
	case errors.As(err, &validErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "field": validErr.Field, "message": validErr.Message})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "parse_failed", "message": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": err.Error()})
	case errors.As(err, &cascade):
		GetLogger().Error("cascade failure",
			zap.String("operation", cascade.Operation),
			zap.Strings("completed", cascade.Completed),
			zap.Strings("failed", cascade.Failed),
			zap.Error(cascade.Err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "partial_failure",
			"message":   err.Error(),
			"completed": cascade.Completed,
			"failed":    cascade.Failed,
		})
	default:
		GetLogger().Error("unhandled service error", zap.Error(err))
		JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
