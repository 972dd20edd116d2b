package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	router, env := SetupTestEnv(t)
	_, token := CreateTestUserAndToken(t, env)

	body := map[string]interface{}{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"}
	w := PerformRequestWithToken(router, "POST", "/api/v1/tags", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "breakfast", decodeBody(t, w)["slug"])

	// Slug is unique.
	body["name"] = "Second Breakfast"
	w = PerformRequestWithToken(router, "POST", "/api/v1/tags", body, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Color must be a hex triplet.
	w = PerformRequestWithToken(router, "POST", "/api/v1/tags", map[string]interface{}{
		"name": "Lunch", "color": "orange", "slug": "lunch",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequest(router, "POST", "/api/v1/tags", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListTags(t *testing.T) {
	router, env := SetupTestEnv(t)
	CreateTestTag(t, env, "Dinner", "dinner")
	CreateTestTag(t, env, "Breakfast", "breakfast")

	w := PerformRequest(router, "GET", "/api/v1/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0]["slug"])
	assert.Equal(t, "dinner", tags[1]["slug"])

	w = PerformRequest(router, "GET", "/api/v1/tags/"+tags[0]["id"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = PerformRequest(router, "GET", "/api/v1/tags/00000000-0000-0000-0000-00000000dead", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateIngredient(t *testing.T) {
	router, env := SetupTestEnv(t)
	_, token := CreateTestUserAndToken(t, env)

	body := map[string]interface{}{"name": "flour", "measurement_unit": "g"}
	w := PerformRequestWithToken(router, "POST", "/api/v1/ingredients", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The (name, unit) pair is unique; the same name under another unit
	// is a distinct catalog entry.
	w = PerformRequestWithToken(router, "POST", "/api/v1/ingredients", body, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequestWithToken(router, "POST", "/api/v1/ingredients", map[string]interface{}{
		"name": "flour", "measurement_unit": "kg",
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListIngredientsNameFilter(t *testing.T) {
	router, env := SetupTestEnv(t)
	CreateTestIngredient(t, env, "sugar", "g")
	CreateTestIngredient(t, env, "sunflower oil", "ml")
	CreateTestIngredient(t, env, "salt", "g")

	w := PerformRequest(router, "GET", "/api/v1/ingredients?name=su", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 2)
	assert.Equal(t, "sugar", ingredients[0]["name"])
	assert.Equal(t, "sunflower oil", ingredients[1]["name"])

	w = PerformRequest(router, "GET", "/api/v1/ingredients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	assert.Len(t, ingredients, 3)
}
