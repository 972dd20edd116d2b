package types

import (
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
)

// UserView is the public profile shape embedded wherever a user appears.
// IsSubscribed is viewer-relative and false for anonymous viewers.
type UserView struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// NewUserView builds the public view of a user.
func NewUserView(u *models.User, isSubscribed bool) UserView {
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// TagView mirrors the stored tag.
type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

func NewTagView(t *models.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// RecipeIngredientView flattens a join row into the catalog fields plus the
// recipe-specific amount. ID is the catalog ingredient id, not the row id.
type RecipeIngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

func NewRecipeIngredientView(ri *models.RecipeIngredient) RecipeIngredientView {
	return RecipeIngredientView{
		ID:              ri.IngredientID,
		Name:            ri.Ingredient.Name,
		MeasurementUnit: ri.Ingredient.MeasurementUnit,
		Amount:          ri.Amount,
	}
}

// RecipeView is the full API representation of a recipe. The two viewer
// booleans default to false for anonymous viewers.
type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Tags             []TagView              `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Image            string                 `json:"image"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// NewRecipeView assembles the full view from a recipe with preloaded
// Tags, Ingredients.Ingredient and Author associations.
func NewRecipeView(r *models.Recipe, author UserView, isFavorited, isInCart bool) RecipeView {
	tags := make([]TagView, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, NewTagView(&r.Tags[i]))
	}
	ingredients := make([]RecipeIngredientView, 0, len(r.Ingredients))
	for i := range r.Ingredients {
		ingredients = append(ingredients, NewRecipeIngredientView(&r.Ingredients[i]))
	}
	return RecipeView{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Image:            r.Image,
		Name:             r.Name,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

// ShortRecipeView is the reduced shape used when a recipe is embedded in
// another entity's representation (favorites, cart, subscriptions).
type ShortRecipeView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func NewShortRecipeView(r *models.Recipe) ShortRecipeView {
	return ShortRecipeView{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// SubscriptionView renders a followed author together with their recipes.
type SubscriptionView struct {
	UserView
	Recipes      []ShortRecipeView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

func NewSubscriptionView(author *models.User, isSubscribed bool, recipes []models.Recipe, count int64) SubscriptionView {
	short := make([]ShortRecipeView, 0, len(recipes))
	for i := range recipes {
		short = append(short, NewShortRecipeView(&recipes[i]))
	}
	return SubscriptionView{
		UserView:     NewUserView(author, isSubscribed),
		Recipes:      short,
		RecipesCount: count,
	}
}
