package handlers

import (
	"net/http"
	"strconv"

	"nutrilog/services/diet"
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
)

func callerID(c *gin.Context) string { return c.GetString("userID") }

func isAdmin(c *gin.Context) bool { return c.GetBool("isAdmin") }

// targetUser resolves the user a request acts for. Only admins may act for
// someone else; an empty requested ID means the caller.
func targetUser(c *gin.Context, requested string) (string, bool) {
	if requested == "" || requested == callerID(c) {
		return callerID(c), true
	}
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "cannot act on another user's data"})
		return "", false
	}
	return requested, true
}

// authorizeDiet writes an error response and returns false unless the
// caller owns the diet or is an admin.
func authorizeDiet(c *gin.Context, svc diet.DietService, dietID string) bool {
	owner, err := svc.OwnerOf(c.Request.Context(), dietID)
	if err != nil {
		utils.RespondError(c, err)
		return false
	}
	if owner != callerID(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "diet belongs to another user"})
		return false
	}
	return true
}

// confirmed reads the ?confirm= query flag; bodyFlag is the value from a
// JSON body, if the route has one.
func confirmed(c *gin.Context, bodyFlag bool) bool {
	if bodyFlag {
		return true
	}
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// intParam parses a path parameter, answering 400 on failure.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		utils.RespondError(c, utils.ValidationError{Field: name, Message: "must be an integer"})
		return 0, false
	}
	return v, true
}
