package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
)

// These tests verify that the postgres schema itself rejects invalid rows,
// independent of the application-level checks.

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestSchemaConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pg := testhelpers.SetupPostgres(t)
	db := pg.DB

	follower := seedUser(t, db, "follower")
	author := seedUser(t, db, "author")

	recipe := models.Recipe{
		Name:        "Borscht",
		Text:        "Simmer.",
		CookingTime: 45,
		AuthorID:    author.ID,
	}
	require.NoError(t, db.Create(&recipe).Error)

	t.Run("self subscribe rejected by check constraint", func(t *testing.T) {
		sub := models.Subscribe{UserID: follower.ID, AuthorID: follower.ID}
		assert.Error(t, db.Create(&sub).Error)
	})

	t.Run("duplicate subscribe rejected by unique index", func(t *testing.T) {
		first := models.Subscribe{UserID: follower.ID, AuthorID: author.ID}
		require.NoError(t, db.Create(&first).Error)

		second := models.Subscribe{UserID: follower.ID, AuthorID: author.ID}
		assert.ErrorIs(t, db.Create(&second).Error, gorm.ErrDuplicatedKey)
	})

	t.Run("duplicate favorite and cart rows rejected independently", func(t *testing.T) {
		pair := models.UserRecipe{UserID: follower.ID, RecipeID: recipe.ID}

		require.NoError(t, db.Create(&models.Favorite{UserRecipe: pair}).Error)
		assert.ErrorIs(t, db.Create(&models.Favorite{UserRecipe: pair}).Error, gorm.ErrDuplicatedKey)

		// The cart table carries its own constraint, so the pair is
		// still insertable there once.
		require.NoError(t, db.Create(&models.ShoppingCart{UserRecipe: pair}).Error)
		assert.ErrorIs(t, db.Create(&models.ShoppingCart{UserRecipe: pair}).Error, gorm.ErrDuplicatedKey)
	})

	t.Run("nonpositive cooking time rejected", func(t *testing.T) {
		bad := models.Recipe{
			Name:        "Instant",
			Text:        "None.",
			CookingTime: 0,
			AuthorID:    author.ID,
		}
		assert.Error(t, db.Create(&bad).Error)
	})

	t.Run("nonpositive amount rejected", func(t *testing.T) {
		ingredient := models.Ingredient{Name: "beetroot", MeasurementUnit: "g"}
		require.NoError(t, db.Create(&ingredient).Error)

		row := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Amount:       0,
		}
		assert.Error(t, db.Create(&row).Error)
	})
}
