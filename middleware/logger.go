// logger.go - Request IDs and structured access logging

package middleware // Declares the package name

import ( // Import required packages
	"log/slog" // Structured logging
	"time"     // Request latency

	"github.com/gin-gonic/gin" // Gin web framework (for middleware)
	"github.com/google/uuid"   // Request IDs
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestLogger tags every request with an ID (reusing the client's when
// present) and logs one line per request once it completes.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// STEP 1: Reuse the caller's request ID or mint one
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString() // Random v4 UUID
		}
		c.Set(requestIDKey, id)       // For handlers and other middleware
		c.Header(RequestIDHeader, id) // Echoed to the client

		// STEP 2: Run the rest of the chain, then log one line
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		log.LogAttrs(c.Request.Context(), level, "request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// RequestID returns the ID assigned by RequestLogger, or "" outside it.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
