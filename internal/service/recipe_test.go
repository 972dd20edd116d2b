package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	suffix := uuid.New().String()[:8]
	user := models.User{
		Username:     "author_" + suffix,
		Email:        fmt.Sprintf("author_%s@example.com", suffix),
		FirstName:    "Test",
		LastName:     "Author",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Tag, models.Ingredient) {
	t.Helper()
	tag := models.Tag{Name: "Dinner", Color: "#E26C2D", Slug: "dinner"}
	require.NoError(t, db.Create(&tag).Error)
	ingredient := models.Ingredient{Name: "beetroot", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&ingredient).Error)
	return tag, ingredient
}

func validRequest(tag models.Tag, ingredient models.Ingredient) *types.RecipeRequest {
	return &types.RecipeRequest{
		Name:        "Borscht",
		Image:       "recipes/borscht.png",
		Text:        "Simmer everything slowly.",
		CookingTime: 45,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []types.IngredientAmount{{ID: ingredient.ID, Amount: 100}},
	}
}

func TestRecipeValidationRules(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db)
	authorID := seedAuthor(t, db)
	tag, ingredient := seedCatalog(t, db)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(req *types.RecipeRequest)
	}{
		{"name without letters", func(r *types.RecipeRequest) { r.Name = "123 456" }},
		{"cooking time below minimum", func(r *types.RecipeRequest) { r.CookingTime = 0 }},
		{"cooking time above maximum", func(r *types.RecipeRequest) { r.CookingTime = models.MaxCookingTime + 1 }},
		{"no ingredients", func(r *types.RecipeRequest) { r.Ingredients = nil }},
		{"no tags", func(r *types.RecipeRequest) { r.Tags = nil }},
		{"duplicate ingredient", func(r *types.RecipeRequest) {
			r.Ingredients = append(r.Ingredients, types.IngredientAmount{ID: ingredient.ID, Amount: 50})
		}},
		{"duplicate tag", func(r *types.RecipeRequest) { r.Tags = append(r.Tags, tag.ID) }},
		{"amount below minimum", func(r *types.RecipeRequest) { r.Ingredients[0].Amount = 0 }},
		{"amount above maximum", func(r *types.RecipeRequest) { r.Ingredients[0].Amount = models.MaxAmount + 1 }},
		{"unknown ingredient", func(r *types.RecipeRequest) { r.Ingredients[0].ID = uuid.New() }},
		{"unknown tag", func(r *types.RecipeRequest) { r.Tags[0] = uuid.New() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(tag, ingredient)
			tc.mutate(req)

			_, err := svc.Create(ctx, authorID, req)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeCreateBounds(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db)
	authorID := seedAuthor(t, db)
	tag, ingredient := seedCatalog(t, db)
	ctx := context.Background()

	req := validRequest(tag, ingredient)
	req.CookingTime = models.MinCookingTime
	req.Ingredients[0].Amount = models.MaxAmount

	recipe, err := svc.Create(ctx, authorID, req)
	require.NoError(t, err)
	assert.Equal(t, models.MinCookingTime, recipe.CookingTime)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, models.MaxAmount, recipe.Ingredients[0].Amount)
	assert.Equal(t, "beetroot", recipe.Ingredients[0].Ingredient.Name)
}

func TestRecipeUpdateOwnership(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db)
	authorID := seedAuthor(t, db)
	otherID := seedAuthor(t, db)
	tag, ingredient := seedCatalog(t, db)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, authorID, validRequest(tag, ingredient))
	require.NoError(t, err)

	_, err = svc.Update(ctx, recipe.ID, otherID, validRequest(tag, ingredient))
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.Delete(ctx, recipe.ID, otherID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Update(ctx, uuid.New(), authorID, validRequest(tag, ingredient))
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestShoppingListAggregation(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db)
	relations := NewRelationService(db)
	authorID := seedAuthor(t, db)
	tag, beetroot := seedCatalog(t, db)
	cabbage := models.Ingredient{Name: "cabbage", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&cabbage).Error)
	ctx := context.Background()

	first := validRequest(tag, beetroot)
	recipeA, err := svc.Create(ctx, authorID, first)
	require.NoError(t, err)

	second := validRequest(tag, beetroot)
	second.Name = "Borscht Deluxe"
	second.Ingredients = []types.IngredientAmount{
		{ID: beetroot.ID, Amount: 50},
		{ID: cabbage.ID, Amount: 30},
	}
	recipeB, err := svc.Create(ctx, authorID, second)
	require.NoError(t, err)

	// A recipe outside the cart contributes nothing.
	third := validRequest(tag, beetroot)
	third.Name = "Uncarted"
	third.Ingredients = []types.IngredientAmount{{ID: beetroot.ID, Amount: 9999}}
	_, err = svc.Create(ctx, authorID, third)
	require.NoError(t, err)

	_, err = relations.AddToCart(ctx, authorID, recipeA.ID)
	require.NoError(t, err)
	_, err = relations.AddToCart(ctx, authorID, recipeB.ID)
	require.NoError(t, err)

	items, err := svc.ShoppingList(ctx, authorID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ShoppingListItem{Name: "beetroot", MeasurementUnit: "g", Total: 150}, items[0])
	assert.Equal(t, ShoppingListItem{Name: "cabbage", MeasurementUnit: "g", Total: 30}, items[1])
}

func TestRenderShoppingList(t *testing.T) {
	items := []ShoppingListItem{
		{Name: "beetroot", MeasurementUnit: "g", Total: 150},
		{Name: "cabbage", MeasurementUnit: "g", Total: 30},
	}
	expected := "Shopping list:\nbeetroot(g) - 150\ncabbage(g) - 30\n"
	assert.Equal(t, expected, RenderShoppingList(items))

	assert.Equal(t, "Shopping list:\n", RenderShoppingList(nil))
}

func TestContainsLetter(t *testing.T) {
	assert.True(t, containsLetter("Borscht"))
	assert.True(t, containsLetter("Щи 2.0"))
	assert.False(t, containsLetter("12345"))
	assert.False(t, containsLetter("- _ !"))
	assert.False(t, containsLetter(""))
}
