// auth.go - HTTP Basic authentication middleware
//
// Authentication flow:
// 1. Extract the email/password pair from the Authorization header
// 2. Look the user up by email through the unique index
// 3. Compare the password with the stored bcrypt hash
// 4. Store the user in the Gin context for handlers
//
// Every failure answers 401 {"message":"Access Denied"}; the reason is only logged.

package middleware // Declares the package name

import ( // Import required packages
	"context"  // Request-scoped store lookups
	"errors"   // Sentinel error checks
	"log/slog" // Structured logging
	"net/http" // HTTP status codes (401)

	"course-api/database" // ErrNotFound
	"course-api/models"   // User model

	"github.com/gin-gonic/gin" // Gin web framework (for middleware)
)

const currentUserKey = "currentUser" // Gin context key for the authenticated user

// UserFinder looks a user up by email address.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// BasicAuth returns a Gin middleware that rejects requests without valid
// Basic credentials.
func BasicAuth(users UserFinder, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) { // Middleware handler (runs before each protected route)
		// STEP 1: Extract the Basic credentials
		email, password, ok := c.Request.BasicAuth() // Missing header or other scheme gives ok=false
		if !ok {
			deny(c, log, "Auth header not found")
			return
		}

		// STEP 2: Look the user up by email
		user, err := users.FindUserByEmail(c.Request.Context(), email)
		if errors.Is(err, database.ErrNotFound) {
			deny(c, log, "User not found for username", "username", email)
			return
		}
		if err != nil {
			_ = c.Error(err) // Written as 500 by the Errors middleware
			c.Abort()
			return
		}

		// STEP 3: Compare the password with the stored hash
		if !user.PasswordMatches(password) {
			deny(c, log, "Authentication failure for username", "username", email)
			return
		}

		log.InfoContext(c.Request.Context(), "Authentication successful", "username", user.EmailAddress, "request_id", RequestID(c))
		// STEP 4: Store the user for the handlers
		c.Set(currentUserKey, user) // Read back with CurrentUser
		c.Next()                    // Continue to next handler (authentication successful)
	}
}

// CurrentUser returns the user resolved by BasicAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func deny(c *gin.Context, log *slog.Logger, reason string, args ...any) {
	args = append(args, "request_id", RequestID(c))
	log.WarnContext(c.Request.Context(), reason, args...) // The reason is logged, never returned
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
}
