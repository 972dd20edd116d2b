package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeFilter describes the optional, combinable listing criteria.
// Viewer is nil for anonymous requests, which disables the two
// relation-membership filters.
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Viewer           *uuid.UUID
}

// RecipeService owns recipe payload validation, transactional writes and
// view composition.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// validatePayload enforces the business rules that are not expressible as
// binding tags. It runs before any write, so a rejected payload persists
// nothing.
func (s *RecipeService) validatePayload(tx *gorm.DB, req *types.RecipeRequest) error {
	if !containsLetter(req.Name) {
		return validationErrorf("recipe name must contain at least one letter")
	}
	if req.CookingTime < models.MinCookingTime || req.CookingTime > models.MaxCookingTime {
		return validationErrorf("cooking time must be between %d and %d minutes", models.MinCookingTime, models.MaxCookingTime)
	}

	if len(req.Ingredients) == 0 {
		return validationErrorf("ingredients list must not be empty")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(req.Ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if _, dup := seenIngredients[item.ID]; dup {
			return validationErrorf("duplicate ingredient %s in recipe", item.ID)
		}
		seenIngredients[item.ID] = struct{}{}
		ingredientIDs = append(ingredientIDs, item.ID)
		if item.Amount < models.MinAmount || item.Amount > models.MaxAmount {
			return validationErrorf("ingredient amount must be between %d and %d", models.MinAmount, models.MaxAmount)
		}
	}

	if len(req.Tags) == 0 {
		return validationErrorf("tags list must not be empty")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(req.Tags))
	for _, id := range req.Tags {
		if _, dup := seenTags[id]; dup {
			return validationErrorf("duplicate tag %s in recipe", id)
		}
		seenTags[id] = struct{}{}
	}

	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ingredientIDs) {
		return validationErrorf("recipe references an unknown ingredient")
	}

	if err := tx.Model(&models.Tag{}).Where("id IN ?", req.Tags).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(req.Tags) {
		return validationErrorf("recipe references an unknown tag")
	}

	return nil
}

// Create validates the payload and writes the recipe, its tag set and its
// ingredient rows in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	var recipeID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validatePayload(tx, req); err != nil {
			return err
		}

		recipe := models.Recipe{
			Name:        req.Name,
			Image:       req.Image,
			Text:        req.Text,
			CookingTime: req.CookingTime,
			AuthorID:    authorID,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		recipeID = recipe.ID

		if err := s.replaceRelations(tx, &recipe, req); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Update replaces the recipe's fields plus its whole tag and ingredient
// sets from the payload (clear-then-recreate) inside one transaction, so
// concurrent readers never observe a recipe with no tags or ingredients.
func (s *RecipeService) Update(ctx context.Context, recipeID, actorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != actorID {
			return ErrNotOwner
		}

		if err := s.validatePayload(tx, req); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         req.Name,
			"image":        req.Image,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return s.replaceRelations(tx, &recipe, req)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

func (s *RecipeService) replaceRelations(tx *gorm.DB, recipe *models.Recipe, req *types.RecipeRequest) error {
	var tags []models.Tag
	if err := tx.Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
		return err
	}
	if err := tx.Model(recipe).Association("Tags").Append(tags); err != nil {
		return err
	}

	rows := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return tx.Create(&rows).Error
}

// Get loads a recipe with every association the full view needs.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe and its dependent rows. Only the author may
// delete; the explicit cleanup keeps sqlite (no FK enforcement by default)
// consistent with the postgres cascades.
func (s *RecipeService) Delete(ctx context.Context, recipeID, actorID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != actorID {
			return ErrNotOwner
		}

		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// List returns recipes matching the filter, newest first, with all view
// associations preloaded so rendering a page costs a fixed number of
// queries.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author")

	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}

	if len(filter.TagSlugs) > 0 {
		// Union semantics: a recipe matches when it carries at least one
		// of the listed tags.
		query = query.Distinct("recipes.*").
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
	}

	if filter.Viewer != nil {
		if filter.IsFavorited {
			query = query.Where("recipes.id IN (?)",
				s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.Viewer))
		}
		if filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)",
				s.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *filter.Viewer))
		}
	}

	var recipes []models.Recipe
	if err := query.Order("recipes.created_at DESC, recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// View composes the full representation of one recipe for the given viewer.
func (s *RecipeService) View(ctx context.Context, viewer *uuid.UUID, recipe *models.Recipe) (types.RecipeView, error) {
	views, err := s.Views(ctx, viewer, []models.Recipe{*recipe})
	if err != nil {
		return types.RecipeView{}, err
	}
	return views[0], nil
}

// Views composes representations for a whole listing with three batched
// membership queries (favorites, cart, subscriptions) instead of per-recipe
// existence checks.
func (s *RecipeService) Views(ctx context.Context, viewer *uuid.UUID, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if viewer != nil && len(recipes) > 0 {
		var err error
		if favorited, err = s.memberSet(ctx, &models.Favorite{}, "recipe_id", *viewer, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.memberSet(ctx, &models.ShoppingCart{}, "recipe_id", *viewer, recipeIDs); err != nil {
			return nil, err
		}
		if subscribed, err = s.memberSet(ctx, &models.Subscribe{}, "author_id", *viewer, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		author := types.NewUserView(&r.Author, subscribed[r.AuthorID])
		views = append(views, types.NewRecipeView(r, author, favorited[r.ID], inCart[r.ID]))
	}
	return views, nil
}

// memberSet plucks the target ids of rows matching (user, target IN ids)
// into a membership map.
func (s *RecipeService) memberSet(ctx context.Context, model interface{}, column string, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	var matched []uuid.UUID
	err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ?", userID).
		Where(fmt.Sprintf("%s IN ?", column), ids).
		Pluck(column, &matched).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(matched))
	for _, id := range matched {
		set[id] = true
	}
	return set, nil
}

// ShoppingListItem is one aggregated line of the purchase list.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// ShoppingList aggregates every ingredient row of the viewer's cart
// recipes, grouped by (name, unit) with summed amounts.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList renders the aggregated items as the plain-text
// download document, one `name(unit) - total` line per group.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s(%s) - %d\n", item.Name, item.MeasurementUnit, item.Total)
	}
	return b.String()
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
