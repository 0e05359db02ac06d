// course.go - Handles listing, reading, creating, updating and deleting courses
//
// Writes are restricted to authenticated users, and updates and deletes to the
// course's owner. A successful write publishes a course event.

package handlers // Declares the package name

import ( // Import required packages
	"context"  // Deadline for event publishing
	"fmt"      // Location header formatting
	"net/http" // HTTP status codes
	"time"     // Publish timeout

	"course-api/middleware" // Current user and request ID
	"course-api/models"     // Course model and DTOs
	"course-api/mqtt"       // Course events

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	msgNotOwnerUpdate = "Unfortunately you can only make changes to your own courses."
	msgNotOwnerDelete = "Unfortunately you can only delete your own courses."
)

// publishTimeout bounds how long a write waits for the broker to take its event.
var publishTimeout = 2 * time.Second

// ListCourses returns every course with its owner embedded.
func (a *API) ListCourses(c *gin.Context) {
	courses, err := a.store.ListCourses(c.Request.Context()) // Load courses with owners
	if err != nil {
		_ = c.Error(err) // Written as 500 by the Errors middleware
		return
	}
	out := make([]models.CourseResponse, 0, len(courses)) // Never null, even when empty
	for i := range courses {
		out = append(out, courses[i].Response())
	}
	c.JSON(http.StatusOK, out)
}

// GetCourse returns one course with its owner embedded, or 404.
func (a *API) GetCourse(c *gin.Context) {
	id, ok := courseID(c) // Parse :id
	if !ok {
		courseNotFound(c)
		return
	}
	course, err := a.store.FindCourse(c.Request.Context(), id) // Look the course up
	if err != nil {
		respond(c, err, "")
		return
	}
	c.JSON(http.StatusOK, course.Response())
}

// CreateCourse creates a course. Without a userId in the body the course is
// owned by the authenticated user.
func (a *API) CreateCourse(c *gin.Context) {
	// STEP 1: Resolve the authenticated user (set by BasicAuth)
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	// STEP 2: Parse and validate the body
	var input models.CourseInput
	if err := bindJSON(c, &input); err != nil {
		malformed(c)
		return
	}
	if err := models.Validate(input); err != nil { // Missing or blank title/description
		respond(c, err, "")
		return
	}
	course := input.Course(current.ID)             // Owner defaults to the caller
	if err := models.Validate(course); err != nil { // e.g. userId 0
		respond(c, err, "")
		return
	}

	// STEP 3: Save, then announce the new course
	if err := a.store.CreateCourse(c.Request.Context(), course); err != nil {
		respond(c, err, "") // Unknown owner is a 400
		return
	}
	a.publish(c, mqtt.EventCreated, course.ID, course.UserID)
	c.Header("Location", fmt.Sprintf("/courses/%d", course.ID))
	c.Status(http.StatusCreated)
}

// UpdateCourse replaces a course's fields. title, description and userId must
// be present; the owner itself never changes.
func (a *API) UpdateCourse(c *gin.Context) {
	// STEP 1: Resolve the authenticated user (set by BasicAuth)
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	// STEP 2: Parse the body; every key must be present before values are checked
	var input models.CourseInput
	if err := bindJSON(c, &input); err != nil {
		malformed(c)
		return
	}
	if missing := input.Missing(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": missing})
		return
	}
	if err := models.Validate(input); err != nil { // Blank title/description
		respond(c, err, "")
		return
	}
	if err := models.Validate(input.Course(current.ID)); err != nil {
		respond(c, err, "")
		return
	}

	// STEP 3: Apply the change only if the caller owns the course
	id, ok := courseID(c)
	if !ok {
		courseNotFound(c)
		return
	}
	if err := a.store.UpdateCourse(c.Request.Context(), id, current.ID, input.Changes()); err != nil {
		respond(c, err, msgNotOwnerUpdate) // 404 or 403
		return
	}

	a.publish(c, mqtt.EventUpdated, id, current.ID)
	c.Status(http.StatusNoContent)
}

// DeleteCourse removes a course owned by the authenticated user.
func (a *API) DeleteCourse(c *gin.Context) {
	current, ok := middleware.CurrentUser(c) // Set by BasicAuth
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	id, ok := courseID(c) // Parse :id
	if !ok {
		courseNotFound(c)
		return
	}
	if err := a.store.DeleteCourse(c.Request.Context(), id, current.ID); err != nil {
		respond(c, err, msgNotOwnerDelete) // 404 or 403
		return
	}

	a.publish(c, mqtt.EventDeleted, id, current.ID)
	c.Status(http.StatusNoContent)
}

// publish sends a course event, waiting at most publishTimeout. Failures are
// logged and never change the response.
func (a *API) publish(c *gin.Context, event string, id, owner uint) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), publishTimeout) // Broker may be down or reconnecting
	defer cancel()

	topic := mqtt.Topic(a.topicPrefix, event)
	payload := mqtt.CourseEvent{Event: event, CourseID: id, UserID: owner}
	if err := a.events.Publish(ctx, topic, payload); err != nil {
		a.log.WarnContext(ctx, "publish course event failed",
			"topic", topic, "error", err, "request_id", middleware.RequestID(c))
	}
}
