// errors.go - Top-level error handling: unclassified errors and panics become 500s

package middleware // Declares the package name

import ( // Import required packages
	"log/slog" // Structured logging
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework (for middleware)
)

const msgInternal = "Internal Server Error"

// Errors writes 500 {"message":"Internal Server Error"} for errors handlers
// attached with c.Error, unless a response was already written. The error
// itself is only logged.
func Errors(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Run the handlers first

		if len(c.Errors) == 0 { // Nothing went wrong
			return
		}
		for _, e := range c.Errors {
			log.ErrorContext(c.Request.Context(), "request failed", "error", e.Err, "request_id", RequestID(c))
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
		}
	}
}

// Recovery turns a panic into 500 {"message":"Internal Server Error"}.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered", "panic", recovered, "request_id", RequestID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	})
}
