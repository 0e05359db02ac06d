// user_test.go - Automated tests for the user endpoints
// Run with: go test ./...

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"course-api/database"
	"course-api/logging"
	"course-api/models"
	"course-api/mqtt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	models.PasswordCost = bcrypt.MinCost // Keep hashing fast in tests
}

// recordingPublisher captures course events instead of sending them
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []mqtt.CourseEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	if ev, ok := payload.(mqtt.CourseEvent); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

type testEnv struct {
	router *gin.Engine
	store  *database.Store
	events *recordingPublisher // nil when built with setupTestWith
}

// setupTest opens a private in-memory database and builds the full router
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	events := &recordingPublisher{}
	env := setupTestWith(t, events)
	env.events = events
	return env
}

// setupTestWith is setupTest with a caller-supplied event publisher
func setupTestWith(t *testing.T, events mqtt.Publisher) *testEnv {
	t.Helper()
	log := logging.Discard()
	store, err := database.Open("file:"+url.PathEscape(t.Name())+"?mode=memory&cache=shared", log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &testEnv{
		router: NewRouter(New(store, events, "courses", log)),
		store:  store,
	}
}

// do sends a request with an optional JSON body and optional Basic credentials
func (e *testEnv) do(t *testing.T, method, path string, body any, creds ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if len(creds) == 2 {
		req.SetBasicAuth(creds[0], creds[1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API
func (e *testEnv) register(t *testing.T, first, last, email, password string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/users", map[string]string{
		"firstName": first, "lastName": last, "emailAddress": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Errors
}

// TestRegisterAndGetUser walks the sign-up then authenticated read scenario
func TestRegisterAndGetUser(t *testing.T) {
	env := setupTest(t)

	// --- Test registration ---
	w := env.do(t, http.MethodPost, "/users", map[string]string{
		"firstName": "A", "lastName": "B", "emailAddress": "a@b.com", "password": "secret",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, w.Body.String())

	// --- Test the stored password is a hash ---
	stored, err := env.store.FindUserByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.Password)
	assert.True(t, stored.PasswordMatches("secret"))

	// --- Test authenticated read ---
	w = env.do(t, http.MethodGet, "/users", nil, "a@b.com", "secret")
	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, map[string]any{
		"id":           float64(stored.ID),
		"firstName":    "A",
		"lastName":     "B",
		"emailAddress": "a@b.com",
	}, got)

	// --- Test wrong password ---
	w = env.do(t, http.MethodGet, "/users", nil, "a@b.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Access Denied"}`, w.Body.String())

	// --- Test missing credentials ---
	w = env.do(t, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	env := setupTest(t)

	t.Run("empty body lists every missing field", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/users", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{
			"Please enter your first name",
			"Please enter your last name",
			"Please enter your email address",
			"Please enter a password",
		}, decodeErrors(t, w))
	})

	t.Run("invalid email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/users", map[string]string{
			"firstName": "A", "lastName": "B", "emailAddress": "nope", "password": "secret",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"Please enter a valid email address"}, decodeErrors(t, w))
	})

	t.Run("whitespace-only names are blank", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/users", map[string]string{
			"firstName": "   ", "lastName": "\t", "emailAddress": "blank@example.com", "password": " \n ",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{
			"Please enter your first name",
			"Please enter your last name",
			"Please enter a password",
		}, decodeErrors(t, w))

		_, err := env.store.FindUserByEmail(context.Background(), "blank@example.com")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{models.MsgMalformedInput}, decodeErrors(t, w))
	})
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := setupTest(t)
	env.register(t, "Joe", "Smith", "joe@smith.com", "joepassword")

	w := env.do(t, http.MethodPost, "/users", map[string]string{
		"firstName": "Joseph", "lastName": "Smith", "emailAddress": "joe@smith.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{models.MsgEmailInUse}, decodeErrors(t, w))

	// Only the first account exists, with its original password
	user, err := env.store.FindUserByEmail(context.Background(), "joe@smith.com")
	require.NoError(t, err)
	assert.Equal(t, "Joe", user.FirstName)
	assert.True(t, user.PasswordMatches("joepassword"))
}

func TestRootAndUnknownRoutes(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to the REST API project!"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Route Not Found"}`, w.Body.String())
}

func TestCreateUserPasswordTooLong(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodPost, "/users", map[string]string{
		"firstName": "A", "lastName": "B", "emailAddress": "a@b.com", "password": strings.Repeat("x", 73),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{models.MsgPasswordTooLong}, decodeErrors(t, w))
}
