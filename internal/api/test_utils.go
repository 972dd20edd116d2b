package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

// TestEnv holds the database, services and router shared by handler tests.
// Tests run on in-memory sqlite; TranslateError keeps duplicate-key mapping
// consistent with the postgres deployment.
type TestEnv struct {
	DB   *gorm.DB
	Auth *service.AuthService
}

// SetupTestEnv creates an isolated database and a fully wired router.
func SetupTestEnv(t *testing.T) (*gin.Engine, *TestEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A named in-memory database keeps the schema alive across pooled
	// connections while staying isolated per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	authService := service.NewAuthService(db, "test-secret", 0)
	recipeService := service.NewRecipeService(db)
	relationService := service.NewRelationService(db)
	subscriptionService := service.NewSubscriptionService(db)

	router := gin.New()
	router.Use(gin.Recovery())
	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewUserHandler(db, subscriptionService, authService).RegisterRoutes(v1)
	NewTagHandler(db, authService).RegisterRoutes(v1)
	NewIngredientHandler(db, authService).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, relationService, authService).RegisterRoutes(v1)

	return router, &TestEnv{DB: db, Auth: authService}
}

// CreateTestUserAndToken creates a user with a unique username and email and
// returns the ID together with a valid token.
func CreateTestUserAndToken(t *testing.T, env *TestEnv) (uuid.UUID, string) {
	t.Helper()

	suffix := uuid.New().String()[:8]
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     "user_" + suffix,
		Email:        fmt.Sprintf("user_%s@example.com", suffix),
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hashed),
	}
	require.NoError(t, env.DB.Create(&user).Error)

	token, err := env.Auth.Login(user.Email, "testpassword123")
	require.NoError(t, err)

	return user.ID, token
}

// CreateTestTag inserts a tag directly.
func CreateTestTag(t *testing.T, env *TestEnv, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: "#E26C2D", Slug: slug}
	require.NoError(t, env.DB.Create(&tag).Error)
	return tag
}

// CreateTestIngredient inserts a catalog ingredient directly.
func CreateTestIngredient(t *testing.T, env *TestEnv, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, env.DB.Create(&ingredient).Error)
	return ingredient
}

// RecipePayload builds a valid creation body referencing the given tag and
// ingredient; tests mutate fields to probe validation.
func RecipePayload(tag models.Tag, ingredient models.Ingredient) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Borscht",
		"image":        "recipes/borscht.png",
		"text":         "Simmer everything slowly.",
		"cooking_time": 45,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ingredient.ID.String(), "amount": 100},
		},
	}
}

// PerformRequest performs an HTTP request against the router.
func PerformRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	return PerformRequestWithToken(router, method, path, body, "")
}

// PerformRequestWithToken performs an HTTP request carrying a bearer token.
func PerformRequestWithToken(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
