// user.go - Handles reading the authenticated user and registering new users

package handlers // Declares the package name

import ( // Import required packages
	"errors"   // Sentinel error checks
	"net/http" // HTTP status codes

	"course-api/database"   // ErrNotFound
	"course-api/middleware" // Current user
	"course-api/models"     // User model and DTOs

	"github.com/gin-gonic/gin" // Gin web framework
)

// GetUser returns the authenticated user's own record.
func (a *API) GetUser(c *gin.Context) {
	current, ok := middleware.CurrentUser(c) // Set by BasicAuth
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	user, err := a.store.FindUserByID(c.Request.Context(), current.ID) // Re-read the record
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user.Response())
}

// CreateUser registers a user. The password is hashed before it is stored.
func (a *API) CreateUser(c *gin.Context) {
	// STEP 1: Parse and validate the body
	var input models.UserInput
	if err := bindJSON(c, &input); err != nil {
		malformed(c)
		return
	}
	user := input.User()
	if err := models.Validate(user); err != nil { // Missing, blank or malformed fields
		respond(c, err, "")
		return
	}
	if err := user.SetPassword(input.Password); err != nil {
		respond(c, err, "") // Too long for bcrypt is a 400
		return
	}

	// STEP 2: Save; a taken email is a 400
	if err := a.store.CreateUser(c.Request.Context(), user); err != nil {
		respond(c, err, "")
		return
	}
	c.Header("Location", "/")
	c.Status(http.StatusCreated)
}
