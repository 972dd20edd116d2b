package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RelationService drives the favorite and shopping-cart toggles. Both
// relations share the same two-state machine per (user, recipe) pair:
// absent -> present on add, present -> absent on remove.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// AddFavorite transitions (user, recipe) to present in the favorites
// relation and returns the recipe for the short view.
func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.add(ctx, userID, recipeID, func(pair models.UserRecipe) error {
		return s.db.WithContext(ctx).Create(&models.Favorite{UserRecipe: pair}).Error
	}, ErrAlreadyFavorited)
}

// RemoveFavorite transitions (user, recipe) to absent.
func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, userID, recipeID, &models.Favorite{}, ErrNotFavorited)
}

// AddToCart transitions (user, recipe) to present in the cart relation.
func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.add(ctx, userID, recipeID, func(pair models.UserRecipe) error {
		return s.db.WithContext(ctx).Create(&models.ShoppingCart{UserRecipe: pair}).Error
	}, ErrAlreadyInCart)
}

// RemoveFromCart transitions (user, recipe) to absent.
func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, userID, recipeID, &models.ShoppingCart{}, ErrNotInCart)
}

// add performs the absent -> present transition. The insert relies on the
// per-table unique constraint as the final arbiter: a raced duplicate
// insert comes back as the same conflict error the fast-path check reports.
func (s *RelationService) add(ctx context.Context, userID, recipeID uuid.UUID, insert func(models.UserRecipe) error, conflict error) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	err := insert(models.UserRecipe{UserID: userID, RecipeID: recipeID})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict
		}
		return nil, err
	}
	return &recipe, nil
}

// remove performs the present -> absent transition; removing an absent
// relation is a not-found condition.
func (s *RelationService) remove(ctx context.Context, userID, recipeID uuid.UUID, model interface{}, missing error) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return missing
	}
	return nil
}
