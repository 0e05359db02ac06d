// routes.go - Builds the Gin engine and registers every route

package handlers // Declares the package name

import ( // Import required packages
	"context"  // Store method signatures
	"errors"   // Outcome classification
	"io"       // io.EOF for empty bodies
	"log/slog" // Structured logging
	"net/http" // HTTP status codes
	"strconv"  // :id parsing

	"course-api/database"   // ErrNotFound, ErrNotOwner
	"course-api/middleware" // Auth, logging and error middleware
	"course-api/models"     // Entities and DTOs
	"course-api/mqtt"       // Course events

	"github.com/gin-gonic/gin" // Gin web framework
)

// Store is the persistence the handlers depend on. *database.Store implements it.
type Store interface {
	middleware.UserFinder
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	FindCourse(ctx context.Context, id uint) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, id, ownerID uint, changes models.CourseChanges) error
	DeleteCourse(ctx context.Context, id, ownerID uint) error
}

// API holds the dependencies shared by the handlers.
type API struct {
	store       Store
	events      mqtt.Publisher
	topicPrefix string
	log         *slog.Logger
}

// New returns an API. A nil publisher disables course events.
func New(store Store, events mqtt.Publisher, topicPrefix string, log *slog.Logger) *API {
	if events == nil {
		events = mqtt.Noop{}
	}
	return &API{store: store, events: events, topicPrefix: topicPrefix, log: log}
}

// NewRouter returns a Gin engine with the global middleware and all routes.
func NewRouter(api *API) *gin.Engine {
	r := gin.New() // Bare engine; logging and recovery come from our middleware
	r.Use(middleware.RequestLogger(api.log), middleware.Recovery(api.log), middleware.Errors(api.log))
	api.Register(r)
	return r
}

// Register mounts the routes on r.
func (a *API) Register(r *gin.Engine) {
	auth := middleware.BasicAuth(a.store, a.log) // Applied per route, not per group

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the REST API project!"})
	})

	// Users
	r.GET("/users", auth, a.GetUser) // Protected: the authenticated user's record
	r.POST("/users", a.CreateUser)   // Public: registration

	// Courses
	r.GET("/courses", a.ListCourses)               // Public
	r.GET("/courses/:id", a.GetCourse)             // Public
	r.POST("/courses", auth, a.CreateCourse)       // Protected
	r.PUT("/courses/:id", auth, a.UpdateCourse)    // Protected, owner only
	r.DELETE("/courses/:id", auth, a.DeleteCourse) // Protected, owner only

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route Not Found"})
	})
}

// bindJSON decodes the body into dst. An empty body decodes as {}.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// courseID parses the :id parameter. Anything but a positive integer names no course.
func courseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respond maps a store or validation outcome to a response. forbidden is the
// message used for ErrNotOwner.
func respond(c *gin.Context, err error, forbidden string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Messages})
	case errors.Is(err, database.ErrNotFound):
		courseNotFound(c)
	case errors.Is(err, database.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": forbidden})
	default:
		_ = c.Error(err) // Written as 500 by the Errors middleware
	}
}

func courseNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
}

func malformed(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": []string{models.MsgMalformedInput}})
}
